// Package highlight renders source text with ANSI colors driven by the
// token stream.
package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/retrie"
)

// SetColorMode selects the color profile for every style: "always" forces
// 256 colors, "never" strips color, anything else keeps terminal detection.
func SetColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Highlight applies syntax highlighting to src using the default rules.
// Stripped of escape codes, the result equals src. Input the tokenizer
// could not handle is rendered with ErrorStyle.
func Highlight(src string) string {
	return HighlightWith(lexer.DefaultTrie(), src)
}

// HighlightWith is Highlight with a caller-supplied rule set.
func HighlightWith(trie *retrie.Trie[lexer.Token], src string) string {
	if src == "" {
		return ""
	}

	var result strings.Builder
	lastPos := 0

	for span, tok := range lexer.NewWithTrie(trie, src).All() {
		if tok.IsEOF() {
			break
		}
		text := src[span.Start:span.End]
		if tok.Kind.Class() == lexer.ClassLayout && tok.Kind != lexer.TokenCommentNL {
			result.WriteString(text)
		} else {
			result.WriteString(TokenStyle(tok.Kind).Render(text))
		}
		lastPos = span.End
	}

	// Anything left was not tokenized
	if lastPos < len(src) {
		rest := src[lastPos:]
		// Keep line structure so the error marking does not span lines
		for i, line := range strings.Split(rest, "\n") {
			if i > 0 {
				result.WriteByte('\n')
			}
			if line != "" {
				result.WriteString(ErrorStyle.Render(line))
			}
		}
	}

	return result.String()
}

// TokenStyle returns the style used for tokens of kind k.
func TokenStyle(k lexer.Kind) lipgloss.Style {
	switch k.Class() {
	case lexer.ClassKeyword:
		return KeywordStyle
	case lexer.ClassPunct:
		return OperatorStyle
	case lexer.ClassBracket:
		return BracketStyle
	case lexer.ClassLiteral:
		switch k {
		case lexer.TokenInt:
			return NumberStyle
		case lexer.TokenLit:
			return StringStyle
		default:
			return IdentStyle
		}
	case lexer.ClassLayout:
		if k == lexer.TokenCommentNL {
			return CommentStyle
		}
		return DefaultStyle
	default:
		return DefaultStyle
	}
}
