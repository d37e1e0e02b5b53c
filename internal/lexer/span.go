package lexer

import (
	"fmt"
	"math"
)

// CharSpan is a half-open byte interval [Start, End) into the source.
type CharSpan struct {
	Start int
	End   int
}

// NoLoc returns the span used for values that have no source location.
// Both ends are math.MaxInt, so it never equals a real span, including the
// empty span at offset 0.
func NoLoc() CharSpan {
	return CharSpan{Start: math.MaxInt, End: math.MaxInt}
}

// IsNoLoc reports whether s is the no-location sentinel.
func (s CharSpan) IsNoLoc() bool {
	return s.Start == math.MaxInt && s.End == math.MaxInt
}

// Len returns the width of the span in bytes.
func (s CharSpan) Len() int {
	if s.IsNoLoc() {
		return 0
	}
	return s.End - s.Start
}

func (s CharSpan) String() string {
	if s.IsNoLoc() {
		return "CharSpan(.)"
	}
	return fmt.Sprintf("CharSpan(%d:%d)", s.Start, s.End)
}
