// Package strutil provides the string value type carried by tokens and the
// JSON-style escape decoder used for quoted literals.
package strutil

import (
	"fmt"
	"strings"
)

// SafeASCII renders s with every byte <= 0x20 replaced by a space and every
// byte >= 0x7F replaced by '?'. Printable ASCII is left untouched.
func SafeASCII(s []byte) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, x := range s {
		switch {
		case x <= 0x20:
			b.WriteByte(' ')
		case x < 0x7f:
			b.WriteByte(x)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}

// SafeStr is a string whose display form never contains control characters
// or raw non-ASCII bytes. Comparisons always use the raw bytes.
type SafeStr struct {
	raw string
}

// New wraps a raw string.
func New(raw string) SafeStr {
	return SafeStr{raw: raw}
}

// Raw returns the underlying string.
func (s SafeStr) Raw() string {
	return s.raw
}

// Len returns the raw length in bytes.
func (s SafeStr) Len() int {
	return len(s.raw)
}

// IsEmpty reports whether the raw string is empty.
func (s SafeStr) IsEmpty() bool {
	return s.raw == ""
}

// Equal reports raw byte equality.
func (s SafeStr) Equal(other SafeStr) bool {
	return s.raw == other.raw
}

// Compare orders two values by their raw bytes.
func (s SafeStr) Compare(other SafeStr) int {
	return strings.Compare(s.raw, other.raw)
}

// String returns the sanitized rendering.
func (s SafeStr) String() string {
	return SafeASCII([]byte(s.raw))
}

// GoString quotes the sanitized rendering so %#v output stays printable.
func (s SafeStr) GoString() string {
	return fmt.Sprintf("%q", s.String())
}
