// Package retrie implements an ordered multi-pattern matcher for lexers.
//
// A Trie holds an ordered list of rules, each a regular expression paired
// with a constructor. Match finds the longest non-empty prefix of the input
// matched by any rule; when several rules match the same longest prefix the
// earliest registered rule wins. Registration order therefore only decides
// ties between matches of equal length.
//
// Rules whose pattern is a plain literal are stored in a byte trie and found
// with a single walk over the input. The remaining rules are compiled as
// anchored leftmost-longest expressions and indexed by the bytes they can
// start with, so each Match only runs the expressions that can apply.
package retrie

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
)

// Ctor builds a value from the matched text.
type Ctor[T any] func(matched string) T

type rule[T any] struct {
	pattern string
	ctor    Ctor[T]
	re      *regexp.Regexp // nil for literal rules
}

type node struct {
	children map[byte]*node
	rule     int // index of the earliest literal rule ending here, or -1
}

func newNode() *node {
	return &node{rule: -1}
}

// Builder collects rules in priority order.
type Builder[T any] struct {
	rules   []rule[T]
	root    *node
	byFirst [256][]int
}

// NewBuilder returns an empty Builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{root: newNode()}
}

// Push appends a rule. The pattern uses RE2 syntax and is always matched at
// the start of the input.
func (b *Builder[T]) Push(pattern string, ctor Ctor[T]) error {
	if ctor == nil {
		return errors.New("nil constructor")
	}
	if b.root == nil {
		b.root = newNode()
	}

	parsed, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return fmt.Errorf("parsing pattern %q: %w", pattern, err)
	}
	parsed = parsed.Simplify()
	idx := len(b.rules)

	if lit, ok := literalOf(parsed); ok {
		b.insertLiteral(lit, idx)
		b.rules = append(b.rules, rule[T]{pattern: pattern, ctor: ctor})
		return nil
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	re.Longest()

	first, ok := firstBytes(parsed)
	for c := 0; c < 256; c++ {
		if !ok || first[c] {
			b.byFirst[c] = append(b.byFirst[c], idx)
		}
	}
	b.rules = append(b.rules, rule[T]{pattern: pattern, ctor: ctor, re: re})
	return nil
}

// MustPush is like Push but panics on an invalid pattern. It is meant for
// static rule tables.
func (b *Builder[T]) MustPush(pattern string, ctor Ctor[T]) {
	if err := b.Push(pattern, ctor); err != nil {
		panic(fmt.Sprintf("retrie: %v", err))
	}
}

// Build freezes the collected rules into a Trie. The Builder is reset and
// may be reused to build an unrelated Trie.
func (b *Builder[T]) Build() *Trie[T] {
	t := &Trie[T]{
		rules:   b.rules,
		root:    b.root,
		byFirst: b.byFirst,
	}
	if t.root == nil {
		t.root = newNode()
	}
	*b = Builder[T]{root: newNode()}
	return t
}

func (b *Builder[T]) insertLiteral(lit string, idx int) {
	n := b.root
	for i := 0; i < len(lit); i++ {
		if n.children == nil {
			n.children = make(map[byte]*node)
		}
		next, ok := n.children[lit[i]]
		if !ok {
			next = newNode()
			n.children[lit[i]] = next
		}
		n = next
	}
	if n.rule < 0 {
		n.rule = idx
	}
}

// Trie is an immutable compiled rule set. It is safe for concurrent use.
type Trie[T any] struct {
	rules   []rule[T]
	root    *node
	byFirst [256][]int
}

// Len returns the number of rules.
func (t *Trie[T]) Len() int {
	return len(t.rules)
}

// Patterns returns the rule patterns in registration order.
func (t *Trie[T]) Patterns() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.pattern
	}
	return out
}

// Match returns the value built from the best rule matching a non-empty
// prefix of text, with the prefix length in bytes. ok is false when no rule
// matches.
func (t *Trie[T]) Match(text string) (value T, n int, ok bool) {
	if text == "" {
		return value, 0, false
	}

	best, bestLen := -1, 0
	cur := t.root
	for i := 0; i < len(text) && cur != nil; i++ {
		cur = cur.children[text[i]]
		if cur != nil && cur.rule >= 0 {
			best, bestLen = cur.rule, i+1
		}
	}

	for _, idx := range t.byFirst[text[0]] {
		loc := t.rules[idx].re.FindStringIndex(text)
		if loc == nil || loc[1] == 0 {
			continue
		}
		if loc[1] > bestLen || (loc[1] == bestLen && idx < best) {
			best, bestLen = idx, loc[1]
		}
	}

	if best < 0 {
		return value, 0, false
	}
	return t.rules[best].ctor(text[:bestLen]), bestLen, true
}

// literalOf reports whether re matches exactly one non-empty string.
func literalOf(re *syntax.Regexp) (string, bool) {
	if re.Op != syntax.OpLiteral || re.Flags&syntax.FoldCase != 0 || len(re.Rune) == 0 {
		return "", false
	}
	return string(re.Rune), true
}

// firstBytes computes the set of bytes a non-empty match of re can start
// with. ok is false when the set could not be determined, in which case the
// rule is tried for every input.
func firstBytes(re *syntax.Regexp) (set [256]bool, ok bool) {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 || re.Flags&syntax.FoldCase != 0 {
			return set, false
		}
		addRange(&set, re.Rune[0], re.Rune[0])
		return set, true
	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			addRange(&set, re.Rune[i], re.Rune[i+1])
		}
		return set, true
	case syntax.OpPlus, syntax.OpCapture:
		return firstBytes(re.Sub[0])
	case syntax.OpRepeat:
		if re.Min < 1 {
			return set, false
		}
		return firstBytes(re.Sub[0])
	case syntax.OpConcat:
		if len(re.Sub) == 0 || canBeEmpty(re.Sub[0]) {
			return set, false
		}
		return firstBytes(re.Sub[0])
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			s, ok := firstBytes(sub)
			if !ok {
				return set, false
			}
			for c := range s {
				set[c] = set[c] || s[c]
			}
		}
		return set, true
	default:
		return set, false
	}
}

func canBeEmpty(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpLiteral:
		return len(re.Rune) == 0
	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return false
	case syntax.OpPlus, syntax.OpCapture:
		return canBeEmpty(re.Sub[0])
	case syntax.OpRepeat:
		return re.Min == 0 || canBeEmpty(re.Sub[0])
	default:
		return true
	}
}

// addRange marks the first UTF-8 byte of every rune in [lo, hi].
func addRange(set *[256]bool, lo, hi rune) {
	for r := lo; r <= hi && r < 0x80; r++ {
		set[r] = true
	}
	if hi >= 0x80 {
		// Invalid UTF-8 decodes as U+FFFD, so continuation bytes can start a match too.
		for c := 0x80; c < 0x100; c++ {
			set[c] = true
		}
	}
}
