package client

import (
	"regexp"
	"strings"

	"github.com/BruksfildServices01/client-onboarding/internal/httperr"
)

const (
	CodeFieldsRequired = "fields_required"
	CodeInvalidEmail   = "invalid_email"

	MsgFieldsRequired = "All fields are required."
	MsgInvalidEmail   = "Invalid email address."
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Validate runs the form rules. It never touches the network.
func Validate(in NewClient) error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.BusinessName) == "" {
		return httperr.ErrBusinessMsg(CodeFieldsRequired, MsgFieldsRequired)
	}

	if !emailPattern.MatchString(in.Email) {
		return httperr.ErrBusinessMsg(CodeInvalidEmail, MsgInvalidEmail)
	}

	return nil
}

// Normalize trims the free-text fields. The email is kept verbatim since it
// already passed the no-whitespace pattern.
func Normalize(in NewClient) NewClient {
	return NewClient{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		BusinessName: strings.TrimSpace(in.BusinessName),
	}
}
