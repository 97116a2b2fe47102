package auth

import (
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 6
	minPhoneLength    = 10
)

// ValidateProfile applies the signup form checks in order: password first,
// then phone.
func ValidateProfile(p Profile) error {
	if utf8.RuneCountInString(p.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters."}
	}
	if utf8.RuneCountInString(p.Phone) < minPhoneLength {
		return &ValidationError{Field: "phone", Message: "Phone number must be at least 10 digits."}
	}
	return nil
}

// ValidatePasswordChange checks the change-password form.
func ValidatePasswordChange(newPassword, confirm string) error {
	if newPassword != confirm {
		return &ValidationError{Field: "confirmPassword", Message: "New passwords do not match."}
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLength {
		return &ValidationError{Field: "newPassword", Message: "New password must be at least 6 characters."}
	}
	return nil
}

func validateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return &ValidationError{Field: "code", Message: "Verification code is required."}
	}
	return nil
}
