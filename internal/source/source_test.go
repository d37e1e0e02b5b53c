package source

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		offset  int
		line    int
		col     int
		display int
	}{
		{name: "start", src: "abc", offset: 0, line: 1, col: 1, display: 1},
		{name: "second line", src: "ab\ncd", offset: 4, line: 2, col: 2, display: 2},
		{name: "at newline", src: "ab\ncd", offset: 2, line: 1, col: 3, display: 3},
		{name: "after trailing newline", src: "ab\n", offset: 3, line: 2, col: 1, display: 1},
		{name: "tab", src: "\tx", offset: 1, line: 1, col: 2, display: 9},
		{name: "space then tab", src: " \tx", offset: 2, line: 1, col: 3, display: 9},
		{name: "wide characters", src: "日本x", offset: 6, line: 1, col: 3, display: 5},
		{name: "combining accent", src: "e\xcc\x81x", offset: 3, line: 1, col: 2, display: 2},
		{name: "inside multibyte character", src: "a日b", offset: 2, line: 1, col: 2, display: 2},
		{name: "past end clamps", src: "ab", offset: 99, line: 1, col: 3, display: 3},
		{name: "negative clamps", src: "ab", offset: -4, line: 1, col: 1, display: 1},
		{name: "empty", src: "", offset: 0, line: 1, col: 1, display: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := New("f.py", tt.src).Position(tt.offset)
			require.Equal(t, tt.line, pos.Line, "line")
			require.Equal(t, tt.col, pos.Column, "column")
			require.Equal(t, tt.display, pos.DisplayColumn, "display column")
		})
	}
}

func TestPosition_String(t *testing.T) {
	f := New("hello.py", "def hello(x):\n    return 'world\n")
	require.Equal(t, "hello.py:2:12", f.Position(25).String())
	require.Equal(t, "2:12", New("", f.Source()).Position(25).String())
}

func TestLine(t *testing.T) {
	f := New("", "one\r\ntwo\nthree")
	require.Equal(t, 3, f.LineCount())
	require.Equal(t, "one", f.Line(1))
	require.Equal(t, "two", f.Line(2))
	require.Equal(t, "three", f.Line(3))
	require.Empty(t, f.Line(0))
	require.Empty(t, f.Line(4))
}

func TestSnippet(t *testing.T) {
	f := New("", "x = 1\n\ty = 'abc\n")
	require.Equal(t, "        y = 'abc\n            ^", f.Snippet(11))
	require.Equal(t, "x = 1\n    ^", f.Snippet(4))
}

func TestProperty_PositionMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.StringMatching(`[ab\t\n ]{0,30}`).Draw(t, "src")
		f := New("", src)

		prev := f.Position(0)
		for off := 1; off <= len(src); off++ {
			pos := f.Position(off)
			if pos.Line < prev.Line || (pos.Line == prev.Line && pos.Column <= prev.Column) {
				t.Fatalf("position at %d (%v) does not follow %v in %q", off, pos, prev, src)
			}
			if pos.DisplayColumn < pos.Column {
				t.Fatalf("display column %d below column %d", pos.DisplayColumn, pos.Column)
			}
			prev = pos
		}
	})
}
