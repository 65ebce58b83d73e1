package service

import (
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	punctuation       = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// ValidPassword reports whether password meets the account policy: at least
// eight characters on one line with an uppercase letter, a lowercase letter,
// a digit and an ASCII punctuation character.
func ValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength || strings.ContainsAny(password, "\r\n") {
		return false
	}
	var upper, lower, digit, punct bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(punctuation, r):
			punct = true
		}
	}
	return upper && lower && digit && punct
}
