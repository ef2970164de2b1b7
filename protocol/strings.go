package protocol

import (
	"bytes"
	"unicode/utf8"
)

// putString copies s into field, truncating it to the field width without
// splitting a multi-byte rune. The rest of the field is left zeroed.
func putString(field []byte, s string) {
	b := Truncate(s, len(field))
	copy(field, b)
	for i := len(b); i < len(field); i++ {
		field[i] = 0
	}
}

// getString returns the field content without its zero padding.
func getString(field []byte) string {
	return string(bytes.TrimRight(field, "\x00"))
}

// Truncate returns the longest prefix of s that fits in width bytes and ends on
// a rune boundary.
func Truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	cut := width
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
