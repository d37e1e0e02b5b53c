// Package markdown renders markdown documents for the terminal.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes document margins on top of the base style.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer with a fixed word wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. color is "auto", "always" or "never"; "never"
// renders without ANSI styling.
func New(width int, color string) (*Renderer, error) {
	style := glamour.WithAutoStyle()
	switch color {
	case "always":
		style = glamour.WithStandardStyle("dark")
	case "never":
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to terminal output.
func (r *Renderer) Render(md string) (string, error) {
	return r.renderer.Render(md)
}

// Table builds a GFM table. Cells are inserted verbatim apart from pipes,
// which are escaped; use Code for cells that need literal text.
func Table(headers []string, rows [][]string) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// Code wraps s in a code span. Backslashes are literal inside code spans,
// so only the empty string needs special handling.
func Code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}
