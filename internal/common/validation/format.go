package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern     = regexp.MustCompile(`^[\p{L}][\p{L} .'\-]*$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._@-]{4,50}$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
	phoneNoise      = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "", "+", "")
)

const (
	maxNameLength     = 50
	minPasswordLength = 8
	maxPasswordLength = 64
	maxExtensionLen   = 6
)

// Clean trims s. The empty result means the value is absent.
func Clean(s string) string {
	return strings.TrimSpace(s)
}

// CleanAll trims every element and drops the empty ones.
func CleanAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = Clean(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return Clean(s) == ""
}

// PhoneDigits strips punctuation and a leading country code, returning the 10 NANP digits.
// ok is false when the result is not a valid NANP number.
func PhoneDigits(phone string) (digits string, ok bool) {
	d := phoneNoise.Replace(Clean(phone))
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 || !digitsPattern.MatchString(d) {
		return "", false
	}
	// area code and exchange cannot start with 0 or 1
	if d[0] < '2' || d[3] < '2' {
		return "", false
	}
	return d, true
}

// ValidatePhone validates a NANP phone number with an optional numeric extension.
func ValidatePhone(phone, extension string) bool {
	if _, ok := PhoneDigits(phone); !ok {
		return false
	}
	ext := Clean(extension)
	if ext == "" {
		return true
	}
	return len(ext) <= maxExtensionLen && digitsPattern.MatchString(ext)
}

// FormatPhone renders "(NNN) NNN-NNNN xEXT". Unparseable numbers are returned trimmed.
func FormatPhone(phone, extension string) string {
	d, ok := PhoneDigits(phone)
	if !ok {
		return Clean(phone)
	}
	out := fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
	if ext := Clean(extension); ext != "" {
		out += " x" + ext
	}
	return out
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(Clean(email))
}

// ValidateName accepts letters, spaces, hyphens, apostrophes and periods, up to 50 characters.
func ValidateName(name string) bool {
	n := Clean(name)
	if n == "" || len([]rune(n)) > maxNameLength {
		return false
	}
	return namePattern.MatchString(n)
}

// ValidateUsername checks the registration username format.
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(Clean(username))
}

// ValidatePassword requires 8-64 characters with a letter, a digit and a symbol.
func ValidatePassword(password string) bool {
	n := len([]rune(password))
	if n < minPasswordLength || n > maxPasswordLength {
		return false
	}
	var letter, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSpace(r):
			return false
		default:
			symbol = true
		}
	}
	return letter && digit && symbol
}
