// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordPolicy selects how strictly ValidatePassword checks a password.
type PasswordPolicy string

const (
	// PolicyStrict requires upper, lower, digit and symbol classes on top of the length rule.
	PolicyStrict PasswordPolicy = "strict"
	// PolicyBasic only enforces the length rule.
	PolicyBasic PasswordPolicy = "basic"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
	MaxEmailLength   = 254
)

var (
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)

	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N} ._'-]+$`)
)

// ParsePasswordPolicy maps a config value onto a policy.
func ParsePasswordPolicy(s string) (PasswordPolicy, error) {
	switch PasswordPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyStrict, "":
		return PolicyStrict, nil
	case PolicyBasic:
		return PolicyBasic, nil
	default:
		return "", fmt.Errorf("unknown password policy %q", s)
	}
}

// ValidatePassword checks if a password meets the policy's requirements
func ValidatePassword(password string, policy PasswordPolicy) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	}
	if policy == PolicyBasic {
		return nil
	}

	var hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !hasSpecial.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}

	return nil
}

// ValidateUsername checks if a display name is usable as a username
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 2 {
		return fmt.Errorf("username must be at least 2 characters long")
	}
	if n > 80 {
		return fmt.Errorf("username must not exceed 80 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, spaces, dots, apostrophes, underscores, and hyphens")
	}
	return nil
}

// ValidateEmail checks the basic shape of an email address
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLength)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
