// internal/app/system/authutil/authutil.go
package authutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password length limits. bcrypt ignores input past 72 bytes; the upper bound
// keeps hashing cost predictable.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	ErrPasswordCommon   = errors.New("password is too common")
)

var commonPasswords = map[string]struct{}{
	"123456":   {},
	"1234567":  {},
	"12345678": {},
	"password": {},
	"qwerty":   {},
	"abc123":   {},
	"iloveyou": {},
	"letmein":  {},
	"football": {},
	"welcome":  {},
	"admin123": {},
	"monkey":   {},
}

// ValidatePassword checks a new password against the length limits and a
// short list of common passwords (case-insensitive).
func ValidatePassword(pw string) error {
	switch {
	case len(pw) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(pw) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	if _, ok := commonPasswords[strings.ToLower(pw)]; ok {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules describes ValidatePassword for display next to a form.
func PasswordRules() string {
	return fmt.Sprintf("Use %d to %d characters. Common passwords are not allowed.", MinPasswordLength, MaxPasswordLength)
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches the bcrypt hash.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// IsValidEmail is a shape check: one @, a non-empty local part, and a dotted
// domain that neither starts nor ends with a dot.
func IsValidEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	return !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
