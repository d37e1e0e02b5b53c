// Package presentation formats token streams for output.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/clothespin/internal/config"
	"github.com/zjrosen/clothespin/internal/highlight"
	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/strutil"
)

// Options controls formatting.
type Options struct {
	Format       string // one of config.Formats
	Spans        bool
	MaxTextWidth int  // 0 disables truncation
	Color        bool // style kind names in text output
}

// OptionsFromConfig builds Options from the output section.
func OptionsFromConfig(out config.OutputConfig) Options {
	format := out.Format
	if format == "" {
		format = config.FormatText
	}
	return Options{
		Format:       format,
		Spans:        out.Spans,
		MaxTextWidth: out.MaxTextWidth,
		Color:        out.Color == "always",
	}
}

// Formatter handles output formatting
type Formatter struct {
	writer  io.Writer
	opts    Options
	yamlEnc *yaml.Encoder
}

// NewFormatter creates a new formatter. It fails on an unknown format.
func NewFormatter(writer io.Writer, opts Options) (*Formatter, error) {
	if err := config.ValidateOutput(config.OutputConfig{Format: opts.Format, MaxTextWidth: opts.MaxTextWidth}); err != nil {
		return nil, err
	}
	f := &Formatter{writer: writer, opts: opts}
	if opts.Format == config.FormatYAML {
		f.yamlEnc = yaml.NewEncoder(writer)
		f.yamlEnc.SetIndent(2)
	}
	return f, nil
}

// FormatStream writes one token stream in the configured format.
func (f *Formatter) FormatStream(s Stream) error {
	switch f.opts.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(FromStream(s, f.opts.Spans))
	case config.FormatYAML:
		// Successive streams become separate YAML documents
		return f.yamlEnc.Encode(FromStream(s, f.opts.Spans))
	case config.FormatHighlight:
		return f.formatHighlight(s)
	default:
		return f.formatText(s)
	}
}

// Close flushes any pending output.
func (f *Formatter) Close() error {
	if f.yamlEnc != nil {
		return f.yamlEnc.Close()
	}
	return nil
}

func (f *Formatter) formatHighlight(s Stream) error {
	if _, err := io.WriteString(f.writer, highlight.Highlight(s.Source)); err != nil {
		return err
	}
	if s.Err != nil {
		_, err := fmt.Fprintf(f.writer, "\n%s\n", DescribeError(s.Name, s.Source, s.Err))
		return err
	}
	return nil
}

func (f *Formatter) formatText(s Stream) error {
	if s.Name != "" {
		if _, err := fmt.Fprintf(f.writer, "%s:\n", s.Name); err != nil {
			return err
		}
	}

	labels := make([]string, len(s.Items))
	width := 0
	for i, it := range s.Items {
		labels[i] = f.kindLabel(it.Token.Kind)
		width = max(width, ansi.StringWidth(labels[i]))
	}

	for i, it := range s.Items {
		line := "  "
		if f.opts.Spans {
			line += fmt.Sprintf("%5d:%-5d ", it.Span.Start, it.Span.End)
		}
		payload := f.payload(it.Token)
		if payload == "" {
			line += labels[i]
		} else {
			line += padding.String(labels[i], uint(width)) + " " + payload
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}

	if s.Err != nil {
		if _, err := fmt.Fprintf(f.writer, "  error: %s\n", DescribeError(s.Name, s.Source, s.Err)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) kindLabel(k lexer.Kind) string {
	if !f.opts.Color {
		return k.String()
	}
	return highlight.TokenStyle(k).Render(k.String())
}

// payload renders the indent width or the sanitized, quoted text of a token.
func (f *Formatter) payload(tok lexer.Token) string {
	switch {
	case tok.Kind == lexer.TokenIndentSpace:
		return strconv.FormatUint(uint64(tok.Indent), 10)
	case tok.Kind.HasText():
		return strconv.Quote(TruncateText(tok.Text, f.opts.MaxTextWidth))
	default:
		return ""
	}
}

// TruncateText returns the sanitized rendering of s cut to width cells with
// an ellipsis. A width of 0 or less disables truncation.
func TruncateText(s strutil.SafeStr, width int) string {
	text := s.String()
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
