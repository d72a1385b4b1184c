package timezone

import "time"

const (
	DefaultTimezone = "UTC"

	// DisplayLayout renders like an en-US locale date-time string.
	DisplayLayout = "1/2/2006, 3:04:05 PM"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	return time.UTC
}

// Format renders t in loc for the client table. Zero times render empty.
func Format(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}
