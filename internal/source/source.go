// Package source maps byte offsets in a source file to human positions.
//
// Three units are involved:
//
//  1. Bytes: what CharSpan offsets count.
//  2. Graphemes: what a reader counts as characters. Column is 1-based in
//     graphemes.
//  3. Display cells: where the character lands in a terminal. DisplayColumn
//     is 1-based in cells, with tabs expanded to the next multiple of 8 and
//     wide characters taking two cells.
package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const tabStop = 8

// Position is a resolved location in a File.
type Position struct {
	Name          string
	Offset        int
	Line          int
	Column        int
	DisplayColumn int
}

// String renders the position as name:line:col, the form editors jump to.
func (p Position) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Line, p.Column)
}

// File indexes the line starts of a source text.
type File struct {
	name  string
	src   string
	lines []int // byte offset of each line start
}

// New indexes src. The name only appears in rendered positions.
func New(name, src string) *File {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &File{name: name, src: src, lines: lines}
}

// Name returns the file name given to New.
func (f *File) Name() string { return f.name }

// Source returns the indexed text.
func (f *File) Source() string { return f.src }

// LineCount returns the number of lines. A trailing newline starts a final
// empty line.
func (f *File) LineCount() int { return len(f.lines) }

// Line returns the text of the 1-based line n without its newline.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	start := f.lines[n-1]
	end := len(f.src)
	if n < len(f.lines) {
		end = f.lines[n] - 1
	}
	return strings.TrimSuffix(f.src[start:end], "\r")
}

// Position resolves a byte offset. Offsets past the end clamp to the end;
// an offset inside a multi-byte character resolves to that character.
func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.src) {
		offset = len(f.src)
	}

	// Index of the last line start <= offset.
	idx := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	start := f.lines[idx]
	col, display := columns(f.src[start:], offset-start)

	return Position{
		Name:          f.name,
		Offset:        offset,
		Line:          idx + 1,
		Column:        col + 1,
		DisplayColumn: display + 1,
	}
}

// columns counts the graphemes and display cells of line before byte n.
func columns(line string, n int) (graphemes, cells int) {
	state := -1
	pos := 0
	for len(line) > 0 && pos < n {
		cluster, rest, _, newState := uniseg.StepString(line, state)
		if pos+len(cluster) > n {
			break
		}
		switch cluster {
		case "\t":
			cells = (cells/tabStop + 1) * tabStop
		default:
			cells += runewidth.StringWidth(cluster)
		}
		graphemes++
		pos += len(cluster)
		line = rest
		state = newState
	}
	return graphemes, cells
}

// Snippet renders the line holding offset with a caret under the display
// column, for error messages.
func (f *File) Snippet(offset int) string {
	pos := f.Position(offset)
	line := f.Line(pos.Line)
	var b strings.Builder
	b.WriteString(expandTabs(line))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", pos.DisplayColumn-1))
	b.WriteByte('^')
	return b.String()
}

// expandTabs replaces tabs with spaces up to the next tab stop so a caret
// line lines up under it.
func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	cells := 0
	state := -1
	for len(line) > 0 {
		cluster, rest, _, newState := uniseg.StepString(line, state)
		if cluster == "\t" {
			next := (cells/tabStop + 1) * tabStop
			b.WriteString(strings.Repeat(" ", next-cells))
			cells = next
		} else {
			b.WriteString(cluster)
			cells += runewidth.StringWidth(cluster)
		}
		line = rest
		state = newState
	}
	return b.String()
}
