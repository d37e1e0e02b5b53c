package presentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/clothespin/internal/config"
	"github.com/zjrosen/clothespin/internal/strutil"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func format(t *testing.T, opts Options, streams ...Stream) string {
	t.Helper()
	var buf bytes.Buffer
	f, err := NewFormatter(&buf, opts)
	require.NoError(t, err)
	for _, s := range streams {
		require.NoError(t, f.FormatStream(s))
	}
	require.NoError(t, f.Close())
	return buf.String()
}

func TestFormatText(t *testing.T) {
	got := format(t, Options{Format: config.FormatText}, NewStream("a.py", "x = 1\n"))
	require.Equal(t, strings.Join([]string{
		"a.py:",
		`  Ident "x"`,
		"  Space",
		"  Equal",
		"  Space",
		`  Int   "1"`,
		"  NL",
		"",
	}, "\n"), got)
}

func TestFormatText_SpansAndIndent(t *testing.T) {
	got := format(t, Options{Format: config.FormatText, Spans: true}, NewStream("", "\tx"))
	require.Equal(t, strings.Join([]string{
		"      0:1     IndentSpace 8",
		`      1:2     Ident       "x"`,
		"",
	}, "\n"), got)
}

func TestFormatText_Error(t *testing.T) {
	got := format(t, Options{Format: config.FormatText}, NewStream("bad.py", "x = 'abc"))
	require.Contains(t, got, "  error: bad.py:1:9: unterminated literal\n")
}

func TestFormatText_Color(t *testing.T) {
	got := format(t, Options{Format: config.FormatText, Color: true}, NewStream("", "def x"))
	require.NotEqual(t, got, ansi.Strip(got))
	require.Contains(t, ansi.Strip(got), `  Ident "x"`)
}

func TestFormatText_Truncates(t *testing.T) {
	long := strings.Repeat("a", 30)
	got := format(t, Options{Format: config.FormatText, MaxTextWidth: 10}, NewStream("", long))
	require.Contains(t, got, `"aaaaaaaaa…"`)
}

func TestFormatJSON(t *testing.T) {
	got := format(t, Options{Format: config.FormatJSON, Spans: true}, NewStream("a.py", "x\n  'y'"))

	var dto StreamDTO
	require.NoError(t, json.Unmarshal([]byte(got), &dto))
	require.Equal(t, "a.py", dto.File)
	require.Empty(t, dto.Error)
	require.Len(t, dto.Tokens, 4)

	require.Equal(t, "Ident", dto.Tokens[0].Kind)
	require.Equal(t, "x", dto.Tokens[0].Text)
	require.Equal(t, "IndentSpace", dto.Tokens[2].Kind)
	require.Equal(t, uint32(2), dto.Tokens[2].Indent)
	require.Equal(t, "Lit", dto.Tokens[3].Kind)
	require.Equal(t, "y", dto.Tokens[3].Text)
	require.Equal(t, 4, *dto.Tokens[3].Start)
	require.Equal(t, 7, *dto.Tokens[3].End)
}

func TestFormatJSON_WithoutSpansOmitsOffsets(t *testing.T) {
	got := format(t, Options{Format: config.FormatJSON}, NewStream("a.py", "x"))
	require.NotContains(t, got, `"start"`)
	require.Contains(t, got, `"kind": "Ident"`)
}

func TestFormatJSON_RawTextIsEscaped(t *testing.T) {
	got := format(t, Options{Format: config.FormatJSON}, NewStream("", `"a\nb"`))

	var dto StreamDTO
	require.NoError(t, json.Unmarshal([]byte(got), &dto))
	require.Equal(t, "a\nb", dto.Tokens[0].Text)
}

func TestFormatYAML_MultipleDocuments(t *testing.T) {
	got := format(t, Options{Format: config.FormatYAML},
		NewStream("a.py", "x"),
		NewStream("b.py", "y $"),
	)

	dec := yaml.NewDecoder(strings.NewReader(got))
	var docs []StreamDTO
	for {
		var dto StreamDTO
		if err := dec.Decode(&dto); err != nil {
			break
		}
		docs = append(docs, dto)
	}
	require.Len(t, docs, 2)
	require.Equal(t, "a.py", docs[0].File)
	require.Equal(t, "y", docs[1].Tokens[0].Text)
	require.Equal(t, "1:3: no token rule matches input", docs[1].Error)
}

func TestFormatHighlight(t *testing.T) {
	src := "def f():\n    return 1\n"
	got := format(t, Options{Format: config.FormatHighlight}, NewStream("f.py", src))
	require.Equal(t, src, ansi.Strip(got))
}

func TestNewFormatter_UnknownFormat(t *testing.T) {
	_, err := NewFormatter(&bytes.Buffer{}, Options{Format: "xml"})
	require.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.OutputConfig{Spans: true, MaxTextWidth: 7, Color: "always"})
	require.Equal(t, Options{Format: config.FormatText, Spans: true, MaxTextWidth: 7, Color: true}, opts)
}

func TestDescribeError(t *testing.T) {
	src := "ok = 1\nx = '\\q'\n"
	s := NewStream("m.py", src)
	require.Equal(t, "m.py:2:6: invalid escape sequence", DescribeError("m.py", src, s.Err))

	require.Equal(t, "m.py: boom", DescribeError("m.py", "", errors.New("boom")))
	require.Equal(t, "boom", DescribeError("", "", errors.New("boom")))
}

func TestErrorSnippet(t *testing.T) {
	src := "ok = 1\nx = '\\q'\n"
	s := NewStream("m.py", src)
	require.Equal(t, "x = '\\q'\n     ^", ErrorSnippet(src, s.Err))
	require.Empty(t, ErrorSnippet(src, errors.New("boom")))
}

func TestTruncateText(t *testing.T) {
	require.Equal(t, "abc", TruncateText(strutil.New("abc"), 0))
	require.Equal(t, "abc", TruncateText(strutil.New("abc"), 3))
	require.Equal(t, "ab…", TruncateText(strutil.New("abcd"), 3))
	require.Equal(t, "a b", TruncateText(strutil.New("a\tb"), 5))
}
