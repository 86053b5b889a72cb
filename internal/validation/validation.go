// Package validation holds the pure input checks shared by the client forms
// and the authentication service: email and password grammar, the adult-age
// gate, and per-form error maps.
package validation

import (
	"regexp"
	"time"
	"unicode"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 5

// AdultAge is the minimum age, in whole years, required to register.
const AdultAge = 18

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// IsValidEmail reports whether the whole of s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidPassword reports whether s has at least MinPasswordLength ASCII
// letters or digits, including one uppercase letter and one digit. Any other
// character makes the password invalid.
func IsValidPassword(s string) bool {
	if len(s) < MinPasswordLength {
		return false
	}

	var upper, digit bool
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			return false
		}
	}
	return upper && digit
}

// IsAdult reports whether someone born on birthDate is at least AdultAge
// whole years old on today. The birthday itself counts. Only the calendar
// dates matter; clock time and location are ignored.
func IsAdult(birthDate, today time.Time) bool {
	return Age(birthDate, today) >= AdultAge
}

// Age returns the number of whole years between birthDate and today.
func Age(birthDate, today time.Time) int {
	by, bm, bd := birthDate.Date()
	ty, tm, td := today.Date()

	years := ty - by
	if tm < bm || (tm == bm && td < bd) {
		years--
	}
	return years
}
