package types

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return NewFieldError("username", "username is required")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return NewFieldError("username", "username must be at least 3 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return NewFieldError("email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return NewFieldError("email", "email must be valid")
	}
	return nil
}

// ValidatePassword reports problems against field so the same rule serves
// signup and password change.
func ValidatePassword(field, password string) error {
	if password == "" {
		return NewFieldError(field, "password is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewFieldError(field, "password must be at least 6 characters")
	}
	return nil
}
