package strutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestUnescape_Valid(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		delim    rune
		want     string
		consumed int
	}{
		{name: "empty double", src: `""`, delim: '"', want: "", consumed: 2},
		{name: "empty single", src: `''`, delim: '\'', want: "", consumed: 2},
		{name: "plain", src: `'world'`, delim: '\'', want: "world", consumed: 7},
		{name: "stops at closing delimiter", src: `"ab" + "cd"`, delim: '"', want: "ab", consumed: 4},
		{name: "other quote is literal", src: `"it's"`, delim: '"', want: "it's", consumed: 6},
		{name: "simple escapes", src: `"\"\\\/\b\f\n\r\t"`, delim: '"', want: "\"\\/\b\f\n\r\t", consumed: 18},
		{name: "escaped double quote in single", src: `'a\"b'`, delim: '\'', want: `a"b`, consumed: 6},
		{name: "bmp escape", src: `"\u00e9"`, delim: '"', want: "é", consumed: 8},
		{name: "upper hex", src: `"\u00E9"`, delim: '"', want: "é", consumed: 8},
		{name: "escaped control", src: `"\u0001"`, delim: '"', want: "\x01", consumed: 8},
		{name: "surrogate pair", src: `"\uD83D\uDE00"`, delim: '"', want: "\U0001F600", consumed: 14},
		{name: "raw multibyte", src: `"héllo"`, delim: '"', want: "héllo", consumed: 8},
		{name: "raw emoji", src: "'\U0001F600'", delim: '\'', want: "\U0001F600", consumed: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := Unescape(tt.src, tt.delim)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.consumed, n)
		})
	}
}

func TestUnescape_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		delim rune
		want  error
	}{
		{name: "empty input", src: ``, delim: '"', want: ErrUnterminated},
		{name: "wrong delimiter", src: `'abc'`, delim: '"', want: ErrNotDelimited},
		{name: "unterminated", src: `'abc`, delim: '\'', want: ErrUnterminated},
		{name: "unterminated after escape", src: `"abc\`, delim: '"', want: ErrUnterminated},
		{name: "escaped single quote", src: `'a\'b'`, delim: '\'', want: ErrInvalidEscape},
		{name: "unknown escape letter", src: `"\q"`, delim: '"', want: ErrInvalidEscape},
		{name: "bad hex digit", src: `"\u12G4"`, delim: '"', want: ErrInvalidHex},
		{name: "short hex", src: `"\u12`, delim: '"', want: ErrUnterminated},
		{name: "lone low surrogate", src: `"\uDE00"`, delim: '"', want: ErrLoneSurrogate},
		{name: "high surrogate then text", src: `"\uD83Dx"`, delim: '"', want: ErrLoneSurrogate},
		{name: "high surrogate then bmp escape", src: `"\uD83D\u0041"`, delim: '"', want: ErrLoneSurrogate},
		{name: "high surrogate at end", src: `"\uD83D`, delim: '"', want: ErrUnterminated},
		{name: "raw newline", src: "\"a\nb\"", delim: '"', want: ErrControlChar},
		{name: "raw tab", src: "\"a\tb\"", delim: '"', want: ErrControlChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unescape(tt.src, tt.delim)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			var uerr *UnescapeError
			require.ErrorAs(t, err, &uerr)
			require.GreaterOrEqual(t, uerr.Offset, 0)
			require.LessOrEqual(t, uerr.Offset, len(tt.src))
		})
	}
}

func TestUnescape_ErrorOffset(t *testing.T) {
	_, _, err := Unescape(`"ab\qc"`, '"')
	var uerr *UnescapeError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, 3, uerr.Offset)
	require.Contains(t, err.Error(), "offset 3")
}

// Any string without backslashes, quotes or control characters decodes to
// itself and consumes exactly its bytes plus two delimiters.
func TestProperty_UnescapePlainText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		body := rapid.StringMatching(`[^"\\\x00-\x1f]*`).Draw(t, "body")
		got, n, err := Unescape(`"`+body+`"`, '"')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != body {
			t.Fatalf("got %q, want %q", got, body)
		}
		if n != len(body)+2 {
			t.Fatalf("consumed %d, want %d", n, len(body)+2)
		}
	})
}

// Trailing input after the closing delimiter never changes the result.
func TestProperty_UnescapeIgnoresSuffix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		body := rapid.StringMatching(`([a-z ]|\\n|\\u00[4-7][0-9a-f])*`).Draw(t, "body")
		suffix := rapid.String().Draw(t, "suffix")
		lit := `'` + body + `'`

		want, wantN, err := Unescape(lit, '\'')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, n, err := Unescape(lit+suffix, '\'')
		if err != nil {
			t.Fatalf("unexpected error with suffix: %v", err)
		}
		if got != want || n != wantN || n != len(lit) {
			t.Fatalf("suffix changed result: %q/%d vs %q/%d", got, n, want, wantN)
		}
	})
}
