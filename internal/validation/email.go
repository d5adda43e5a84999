package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail checks a reminder recipient address.
// Display names ("Me <me@example.com>") are rejected; only the bare address is accepted.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}
	if addr.Name != "" || addr.Address != email {
		return errors.New("use a bare email address without a display name")
	}

	return nil
}
