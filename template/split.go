package template

import (
	"unicode"
	"unicode/utf8"
)

// SmartSplit splits s on whitespace, keeping quoted runs intact.
//
// A run quoted with '"' or '\'' may contain whitespace and backslash
// escapes; the quotes are kept in the returned field, and text adjacent to
// a quoted run belongs to the same field:
//
//	SmartSplit(`block "a b" c`)   // ["block", `"a b"`, "c"]
//	SmartSplit(`x=" y " z`)       // [`x=" y "`, "z"]
//
// An unterminated quote extends to the end of s.
func SmartSplit(s string) []string {
	var (
		fields []string
		start  = -1
		quote  rune
	)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case quote != 0:
			switch r {
			case '\\':
				// Skip the escaped rune as well.
				if i+size < len(s) {
					_, next := utf8.DecodeRuneInString(s[i+size:])
					size += next
				}
			case quote:
				quote = 0
			}

		case r == '"' || r == '\'':
			if start < 0 {
				start = i
			}

			quote = r

		case unicode.IsSpace(r):
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}

		default:
			if start < 0 {
				start = i
			}
		}

		i += size
	}

	if start >= 0 {
		fields = append(fields, s[start:])
	}

	return fields
}
