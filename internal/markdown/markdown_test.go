package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	got := Table(
		[]string{"Kind", "Lexeme"},
		[][]string{
			{"Bar", Code("|")},
			{"Backslash", Code(`\`)},
			{"Ident", Code("")},
		},
	)
	want := "| Kind | Lexeme |\n" +
		"| --- | --- |\n" +
		"| Bar | `\\|` |\n" +
		"| Backslash | `\\` |\n" +
		"| Ident |  |\n"
	require.Equal(t, want, got)
}

func TestRenderer_PlainTable(t *testing.T) {
	r, err := New(80, "never")
	require.NoError(t, err)
	require.Equal(t, 80, r.Width())

	out, err := r.Render("# Tokens\n\n" + Table([]string{"Kind", "Lexeme"}, [][]string{{"RArrow", Code("->")}}))
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "Tokens")
	require.Contains(t, plain, "RArrow")
	require.Contains(t, plain, "->")
}

func TestRenderer_Styles(t *testing.T) {
	for _, color := range []string{"auto", "always", "never"} {
		t.Run(color, func(t *testing.T) {
			r, err := New(40, color)
			require.NoError(t, err)
			out, err := r.Render("some *text*")
			require.NoError(t, err)
			require.Contains(t, ansi.Strip(out), "text")
		})
	}
}
