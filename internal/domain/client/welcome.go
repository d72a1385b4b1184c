package client

import (
	"fmt"
	"html"
)

const WelcomeSubject = "Welcome to Our Accountancy Firm!"

// WelcomeEmail builds the message sent after a client is stored. Name and
// business name are escaped since they are free text from the form.
func WelcomeEmail(from string, c NewClient) Email {
	return Email{
		From:    from,
		To:      []string{c.Email},
		Subject: WelcomeSubject,
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>Welcome to our accountancy firm. We're excited to work with your business, %s!</p>",
			html.EscapeString(c.Name),
			html.EscapeString(c.BusinessName),
		),
	}
}
