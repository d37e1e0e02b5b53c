package strutil

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Decode failure reasons. An *UnescapeError wraps exactly one of these.
var (
	ErrNotDelimited  = errors.New("literal does not start with its delimiter")
	ErrUnterminated  = errors.New("unterminated literal")
	ErrInvalidEscape = errors.New("invalid escape sequence")
	ErrInvalidHex    = errors.New("invalid hex digit in \\u escape")
	ErrLoneSurrogate = errors.New("unpaired UTF-16 surrogate in \\u escape")
	ErrControlChar   = errors.New("control character in literal")
)

// UnescapeError reports where decoding a literal failed, as a byte offset
// relative to the start of the literal.
type UnescapeError struct {
	Offset int
	Err    error
}

func (e *UnescapeError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *UnescapeError) Unwrap() error {
	return e.Err
}

// Unescape decodes the delimited literal at the start of src. It returns the
// decoded text and the number of source bytes consumed, counting both
// delimiters and every escape sequence.
//
// Recognized escapes: \" \\ \/ \b \f \n \r \t \uXXXX. A \u escape in the
// high-surrogate range must be followed by a \u escape in the low-surrogate
// range; the pair decodes to one supplementary code point.
func Unescape(src string, delim rune) (string, int, error) {
	c, w := utf8.DecodeRuneInString(src)
	if w == 0 {
		return "", 0, &UnescapeError{Offset: 0, Err: ErrUnterminated}
	}
	if c != delim {
		return "", 0, &UnescapeError{Offset: 0, Err: ErrNotDelimited}
	}
	off := w

	var res strings.Builder
	for {
		if off >= len(src) {
			return "", 0, &UnescapeError{Offset: off, Err: ErrUnterminated}
		}
		c, w = utf8.DecodeRuneInString(src[off:])
		start := off
		off += w

		switch {
		case c == '\\':
			if off >= len(src) {
				return "", 0, &UnescapeError{Offset: off, Err: ErrUnterminated}
			}
			e, ew := utf8.DecodeRuneInString(src[off:])
			off += ew
			switch e {
			case '"':
				res.WriteByte('"')
			case '\\':
				res.WriteByte('\\')
			case '/':
				res.WriteByte('/')
			case 'b':
				res.WriteByte('\b')
			case 'f':
				res.WriteByte('\f')
			case 'n':
				res.WriteByte('\n')
			case 'r':
				res.WriteByte('\r')
			case 't':
				res.WriteByte('\t')
			case 'u':
				r, n, err := decodeUnicodeEscape(src, off)
				if err != nil {
					return "", 0, err
				}
				off = n
				res.WriteRune(r)
			default:
				return "", 0, &UnescapeError{Offset: start, Err: ErrInvalidEscape}
			}
		case c == delim:
			return res.String(), off, nil
		case c <= 0x1f:
			return "", 0, &UnescapeError{Offset: start, Err: ErrControlChar}
		default:
			// Copy the source bytes so invalid UTF-8 passes through unchanged.
			res.WriteString(src[start:off])
		}
	}
}

// decodeUnicodeEscape decodes the code point of a \u escape whose four hex
// digits begin at off, consuming a trailing low-surrogate escape when the
// first unit is a high surrogate. It returns the offset just past the escape.
func decodeUnicodeEscape(src string, off int) (rune, int, error) {
	n1, err := decodeHex4(src, off)
	if err != nil {
		return 0, 0, err
	}
	off += 4

	switch {
	case n1 >= 0xdc00 && n1 <= 0xdfff:
		return 0, 0, &UnescapeError{Offset: off - 6, Err: ErrLoneSurrogate}
	case n1 >= 0xd800 && n1 <= 0xdbff:
		if !strings.HasPrefix(src[off:], `\u`) {
			if off+2 > len(src) {
				return 0, 0, &UnescapeError{Offset: off, Err: ErrUnterminated}
			}
			return 0, 0, &UnescapeError{Offset: off, Err: ErrLoneSurrogate}
		}
		off += 2
		n2, err := decodeHex4(src, off)
		if err != nil {
			return 0, 0, err
		}
		if n2 < 0xdc00 || n2 > 0xdfff {
			return 0, 0, &UnescapeError{Offset: off - 2, Err: ErrLoneSurrogate}
		}
		off += 4
		return (rune(n1-0xd800)<<10 | rune(n2-0xdc00)) + 0x10000, off, nil
	default:
		return rune(n1), off, nil
	}
}

// decodeHex4 reads exactly four hex digits starting at off.
func decodeHex4(src string, off int) (uint16, error) {
	var n uint16
	for i := 0; i < 4; i++ {
		if off+i >= len(src) {
			return 0, &UnescapeError{Offset: off + i, Err: ErrUnterminated}
		}
		c := src[off+i]
		switch {
		case c >= '0' && c <= '9':
			n = n*16 + uint16(c-'0')
		case c >= 'a' && c <= 'f':
			n = n*16 + uint16(c-'a'+10)
		case c >= 'A' && c <= 'F':
			n = n*16 + uint16(c-'A'+10)
		default:
			return 0, &UnescapeError{Offset: off + i, Err: ErrInvalidHex}
		}
	}
	return n, nil
}
