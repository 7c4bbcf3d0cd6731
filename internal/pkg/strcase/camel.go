package strcase

import (
	"strings"
	"unicode"
)

// ToLowerCamel converts an exported Go identifier to lowerCamelCase, keeping
// leading initialisms together (ID -> id, HTTPServer -> httpServer, FirstName -> firstName).
func ToLowerCamel(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}

	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		// single leading capital or an all-caps word
	case unicode.IsLower(runes[n]):
		// last capital starts the next word
		n--
	}

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if i < n {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}

	return b.String()
}
