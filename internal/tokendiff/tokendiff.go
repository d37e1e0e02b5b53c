// Package tokendiff compares two token streams.
package tokendiff

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/clothespin/internal/lexer"
)

// Op is the kind of an Edit.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Edit is a run of tokens with the same Op. Equal runs carry both sides;
// deletes carry only Old and inserts only New.
type Edit struct {
	Op  Op
	Old []lexer.Item
	New []lexer.Item
}

// Options controls comparison.
type Options struct {
	// IgnoreSpace drops inline whitespace and carriage returns before
	// comparing. Indentation is still compared.
	IgnoreSpace bool
}

// Stats counts tokens per Op.
type Stats struct {
	Equal    int
	Deleted  int
	Inserted int
}

// Changed reports whether any token was deleted or inserted.
func (s Stats) Changed() bool {
	return s.Deleted > 0 || s.Inserted > 0
}

// Sources tokenizes both texts and compares them. Tokenizer errors are
// returned alongside the edits for the tokens produced before the failure.
func Sources(a, b string, opts Options) ([]Edit, error) {
	itemsA, errA := lexer.Tokenize(a)
	itemsB, errB := lexer.Tokenize(b)
	edits := Diff(itemsA, itemsB, opts)
	if errA != nil {
		return edits, fmt.Errorf("tokenizing old source: %w", errA)
	}
	if errB != nil {
		return edits, fmt.Errorf("tokenizing new source: %w", errB)
	}
	return edits, nil
}

// Diff computes a minimal edit script from a to b. Tokens compare by value;
// spans are ignored.
func Diff(a, b []lexer.Item, opts Options) []Edit {
	if opts.IgnoreSpace {
		a = dropSpace(a)
		b = dropSpace(b)
	}

	// Map every distinct token to one rune so the diff runs over runes
	index := make(map[lexer.Token]rune)
	encode := func(items []lexer.Item) ([]rune, bool) {
		out := make([]rune, len(items))
		for i, it := range items {
			r, ok := index[it.Token]
			if !ok {
				if len(index) >= maxDistinct {
					return nil, false
				}
				r = runeFor(len(index))
				index[it.Token] = r
			}
			out[i] = r
		}
		return out, true
	}
	runesA, okA := encode(a)
	runesB, okB := encode(b)
	if !okA || !okB {
		return replaceAll(a, b)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(runesA, runesB, false)

	var edits []Edit
	i, j := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			edits = appendEdit(edits, Edit{Op: OpEqual, Old: a[i : i+n], New: b[j : j+n]})
			i += n
			j += n
		case diffmatchpatch.DiffDelete:
			edits = appendEdit(edits, Edit{Op: OpDelete, Old: a[i : i+n]})
			i += n
		case diffmatchpatch.DiffInsert:
			edits = appendEdit(edits, Edit{Op: OpInsert, New: b[j : j+n]})
			j += n
		}
	}
	return edits
}

// maxDistinct is the number of distinct tokens runeFor can encode: every
// valid rune from 1 to utf8.MaxRune except the surrogate range.
var maxDistinct = int(utf8.MaxRune) - 0x800

// runeFor returns a valid, distinct rune for the nth token, skipping the
// surrogate range. n must be below maxDistinct.
func runeFor(n int) rune {
	r := rune(n + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

// replaceAll is the edit script that deletes all of a and inserts all of b,
// used when the streams hold more distinct tokens than runeFor can encode.
func replaceAll(a, b []lexer.Item) []Edit {
	var edits []Edit
	if len(a) > 0 {
		edits = append(edits, Edit{Op: OpDelete, Old: a})
	}
	if len(b) > 0 {
		edits = append(edits, Edit{Op: OpInsert, New: b})
	}
	return edits
}

func appendEdit(edits []Edit, e Edit) []Edit {
	if n := len(edits); n > 0 && edits[n-1].Op == e.Op {
		last := &edits[n-1]
		last.Old = append(last.Old[:len(last.Old):len(last.Old)], e.Old...)
		last.New = append(last.New[:len(last.New):len(last.New)], e.New...)
		return edits
	}
	return append(edits, e)
}

func dropSpace(items []lexer.Item) []lexer.Item {
	out := make([]lexer.Item, 0, len(items))
	for _, it := range items {
		if it.Token.Kind == lexer.TokenSpace || it.Token.Kind == lexer.TokenCR {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Summarize counts the tokens in each Op.
func Summarize(edits []Edit) Stats {
	var s Stats
	for _, e := range edits {
		switch e.Op {
		case OpEqual:
			s.Equal += len(e.Old)
		case OpDelete:
			s.Deleted += len(e.Old)
		case OpInsert:
			s.Inserted += len(e.New)
		}
	}
	return s
}

// Diff line styles.
var (
	DeleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"})
	InsertStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"})
	ContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"})
)

// Render writes one line per token: "  " for equal, "- " for deleted and
// "+ " for inserted tokens, followed by the token and its span in its own
// source. With color set, lines are styled.
func Render(w io.Writer, edits []Edit, color bool) error {
	for _, e := range edits {
		var prefix string
		var items []lexer.Item
		var style lipgloss.Style
		switch e.Op {
		case OpEqual:
			prefix, items, style = "  ", e.New, ContextStyle
		case OpDelete:
			prefix, items, style = "- ", e.Old, DeleteStyle
		case OpInsert:
			prefix, items, style = "+ ", e.New, InsertStyle
		}
		for _, it := range items {
			line := fmt.Sprintf("%s%s %d:%d", prefix, it.Token, it.Span.Start, it.Span.End)
			if color {
				line = style.Render(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
