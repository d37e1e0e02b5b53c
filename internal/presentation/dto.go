package presentation

import (
	"errors"
	"fmt"

	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/source"
	"github.com/zjrosen/clothespin/internal/strutil"
)

// TokenDTO represents one token for presentation. Text is the raw payload;
// encoders escape it.
type TokenDTO struct {
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Indent uint32 `json:"indent,omitempty" yaml:"indent,omitempty"`
	Start  *int   `json:"start,omitempty" yaml:"start,omitempty"`
	End    *int   `json:"end,omitempty" yaml:"end,omitempty"`
}

// StreamDTO represents the token stream of one file.
type StreamDTO struct {
	File   string     `json:"file" yaml:"file"`
	Tokens []TokenDTO `json:"tokens" yaml:"tokens"`
	Error  string     `json:"error,omitempty" yaml:"error,omitempty"` // line:col: reason
}

// Stream is a tokenized file ready for formatting.
type Stream struct {
	Name   string
	Source string
	Items  []lexer.Item
	Err    error
}

// NewStream tokenizes src with the default rules.
func NewStream(name, src string) Stream {
	items, err := lexer.Tokenize(src)
	return Stream{Name: name, Source: src, Items: items, Err: err}
}

// FromItem converts a token and its span to a DTO. Spans are included only
// when withSpan is set.
func FromItem(it lexer.Item, withSpan bool) TokenDTO {
	dto := TokenDTO{
		Kind:   it.Token.Kind.String(),
		Text:   it.Token.Text.Raw(),
		Indent: it.Token.Indent,
	}
	if withSpan {
		start, end := it.Span.Start, it.Span.End
		dto.Start = &start
		dto.End = &end
	}
	return dto
}

// FromStream converts a stream to a DTO.
func FromStream(s Stream, withSpans bool) StreamDTO {
	tokens := make([]TokenDTO, len(s.Items))
	for i, it := range s.Items {
		tokens[i] = FromItem(it, withSpans)
	}
	dto := StreamDTO{File: s.Name, Tokens: tokens}
	if s.Err != nil {
		dto.Error = DescribeError("", s.Source, s.Err)
	}
	return dto
}

// DescribeError renders a tokenizer error as name:line:col: reason. Errors
// without an offset are rendered as name: error.
func DescribeError(name, src string, err error) string {
	offset, reason, ok := locate(err)
	if !ok {
		if name == "" {
			return err.Error()
		}
		return fmt.Sprintf("%s: %v", name, err)
	}
	pos := source.New(name, src).Position(offset)
	return fmt.Sprintf("%s: %s", pos, reason)
}

// ErrorSnippet returns the source line a tokenizer error points into with a
// caret under the failing column, or "" for errors without an offset.
func ErrorSnippet(src string, err error) string {
	offset, _, ok := locate(err)
	if !ok {
		return ""
	}
	return source.New("", src).Snippet(offset)
}

// locate returns the source offset and reason of a tokenizer error.
func locate(err error) (offset int, reason string, ok bool) {
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		return 0, "", false
	}
	offset, cause := lexErr.Offset, lexErr.Err
	// Point at the offending byte inside a quoted literal
	var escErr *strutil.UnescapeError
	if errors.As(cause, &escErr) {
		offset += escErr.Offset
		cause = escErr.Err
	}
	return offset, cause.Error(), true
}
