package utils

import (
	"regexp"
	"strings"
)

// Validation rules for registration input. These mirror what the mobile
// clients enforce so server and client reject the same values.
var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s'.-]{2,50}$`)
	hasLetter  = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
)

// IsValidUsername reports whether username is 3-20 characters of
// alphanumerics and underscores.
func IsValidUsername(username string) bool {
	return usernameRe.MatchString(strings.TrimSpace(username))
}

// IsValidEmail performs a light-weight email shape check.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// IsValidFullName accepts 2-50 characters of letters, spaces, apostrophes,
// hyphens and dots.
func IsValidFullName(name string) bool {
	return fullNameRe.MatchString(strings.TrimSpace(name))
}

// IsValidPassword requires at least 6 characters containing at least one
// letter and one digit.
func IsValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	return hasLetter.MatchString(password) && hasDigit.MatchString(password)
}
