package highlight

import (
	"github.com/charmbracelet/lipgloss"
)

// Token colors (Catppuccin Latte for light terminals, Mocha for dark).
var (
	KeywordColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	OperatorColor = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"} // red
	IdentColor    = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal
	StringColor   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"} // yellow
	NumberColor   = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"} // peach
	BracketColor  = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue
	CommentColor  = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0
	ErrorColor    = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"} // red
)

// Token highlight styles. Tabs inside tokens are kept as-is so the
// highlighted text has the same layout as the source.
var (
	// KeywordStyle for reserved words, True/False/None and the _ placeholder
	KeywordStyle = lipgloss.NewStyle().
			Foreground(KeywordColor).
			Bold(true).
			TabWidth(lipgloss.NoTabConversion)

	// OperatorStyle for punctuation and operators
	OperatorStyle = lipgloss.NewStyle().
			Foreground(OperatorColor).
			TabWidth(lipgloss.NoTabConversion)

	// IdentStyle for identifiers
	IdentStyle = lipgloss.NewStyle().
			Foreground(IdentColor).
			TabWidth(lipgloss.NoTabConversion)

	// StringStyle for quoted literals, rendered with their quotes
	StringStyle = lipgloss.NewStyle().
			Foreground(StringColor).
			TabWidth(lipgloss.NoTabConversion)

	// NumberStyle for integer literals
	NumberStyle = lipgloss.NewStyle().
			Foreground(NumberColor).
			TabWidth(lipgloss.NoTabConversion)

	// BracketStyle for ( ) [ ] { }
	BracketStyle = lipgloss.NewStyle().
			Foreground(BracketColor).
			Bold(true).
			TabWidth(lipgloss.NoTabConversion)

	// CommentStyle for # comments
	CommentStyle = lipgloss.NewStyle().
			Foreground(CommentColor).
			Italic(true).
			TabWidth(lipgloss.NoTabConversion)

	// ErrorStyle for input after the point where tokenizing stopped
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Underline(true).
			TabWidth(lipgloss.NoTabConversion)

	// DefaultStyle for layout tokens
	DefaultStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion)
)
