// Package validation holds the pure field predicates used by the signup and
// profile-edit flows. Every function is synchronous, side-effect free, and
// independent of any form state.
package validation

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Optional leading pluses, 1-4 country digits, optional single
	// space/dash separator, 1-15 subscriber digits.
	phoneShapeRe = regexp.MustCompile(`^[+]*[0-9]{1,4}[ -]?[0-9]{1,15}$`)

	passwordCharsRe = regexp.MustCompile(`^[A-Za-z0-9!@#$%^&*]{6,}$`)
	nonDigitRe      = regexp.MustCompile(`\D`)
)

// PasswordSpecials is the set of symbols the password policy accepts.
const PasswordSpecials = "!@#$%^&*"

// PasswordReason is the human-readable explanation returned when a password
// fails the policy.
const PasswordReason = "Password must be at least 6 characters long, include a number and a special character"

// ValidEmail reports whether s has the local@domain.tld shape. No network
// check is performed.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidPhoneShape reports whether s looks like a phone number: optional "+",
// country digits, optional separator, subscriber digits. This is the loose
// per-keystroke check; ValidPhoneLength is the gate actually enforced before
// submission.
func ValidPhoneShape(s string) bool {
	return phoneShapeRe.MatchString(s)
}

// PhoneDigits strips every non-digit character from s.
func PhoneDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// ValidPhoneLength reports whether the digit-only length of s falls in
// [12,15]. Applied identically in the signup and profile-edit flows.
func ValidPhoneLength(s string) bool {
	n := len(PhoneDigits(s))
	return n >= 12 && n <= 15
}

// CheckPassword validates the password policy: at least 6 characters drawn
// from letters, digits and PasswordSpecials, containing at least one digit
// and at least one special. On failure the second return value carries
// PasswordReason.
func CheckPassword(s string) (bool, string) {
	if !passwordCharsRe.MatchString(s) {
		return false, PasswordReason
	}
	if !strings.ContainsAny(s, "0123456789") {
		return false, PasswordReason
	}
	if !strings.ContainsAny(s, PasswordSpecials) {
		return false, PasswordReason
	}
	return true, ""
}

// PasswordsMatch reports whether the password and its confirmation are
// equal. Independent of CheckPassword.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}
