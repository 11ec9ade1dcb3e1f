package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var upper = cases.Upper(language.Und)

// Upper uppercases value without locale-specific rules.
func Upper(value string) string {
	return upper.String(value)
}

// ASCII strips combining marks from value and replaces every rune still
// outside ASCII with '?', so each rune of the result is one byte.
func ASCII(value string) string {
	if isASCII(value) {
		return value
	}
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, value); err == nil {
		value = folded
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, value)
}

// Fit folds value to ASCII, then truncates it to width bytes or right-pads
// it with spaces.
func Fit(value string, width int) string {
	if width <= 0 {
		return ""
	}
	value = ASCII(value)
	if len(value) >= width {
		return value[:width]
	}
	return value + strings.Repeat(" ", width-len(value))
}

func isASCII(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// StripChars removes every rune in cutset from value.
func StripChars(value, cutset string) string {
	if cutset == "" {
		return value
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cutset, r) {
			return -1
		}
		return r
	}, value)
}

// DigitsOnly keeps the ASCII digits of value.
func DigitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

// ContainsLetter reports whether value has at least one alphabetic rune.
func ContainsLetter(value string) bool {
	for _, r := range value {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// FirstRune returns the first rune of value as a string, or "".
func FirstRune(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
