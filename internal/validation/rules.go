// Package validation holds the pure input rules shared by the form
// controller and, as a hardening option, the server.
package validation

import "regexp"

// loginPattern requires a leading letter and 6-20 characters drawn from
// letters, digits, dots, underscores and hyphens.
var loginPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{5,19}$`)

const (
	LoginRuleMessage    = "Login must be 6-20 characters and start with a letter. Allowed characters: letters, numbers, hyphens, underscores, dots."
	PasswordRuleMessage = "Password must be 6-20 characters and start with a letter. Allowed characters: letters, numbers, hyphens, underscores, dots."
	MismatchMessage     = "Passwords don't match"
)

// ValidLogin reports whether value is an acceptable login identifier.
func ValidLogin(value string) bool {
	return loginPattern.MatchString(value)
}

// ValidPassword applies the same shape rule as ValidLogin.
func ValidPassword(value string) bool {
	return loginPattern.MatchString(value)
}

// PasswordsMatch reports exact equality of a password and its confirmation.
func PasswordsMatch(password, confirmation string) bool {
	return password == confirmation
}
