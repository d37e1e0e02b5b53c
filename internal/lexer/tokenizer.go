package lexer

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/zjrosen/clothespin/internal/log"
	"github.com/zjrosen/clothespin/internal/retrie"
	"github.com/zjrosen/clothespin/internal/strutil"
)

// tabStop is the indentation width a tab rounds up to.
const tabStop = 8

// ErrNoMatch is reported when the input at the cursor matches no rule.
var ErrNoMatch = errors.New("no token rule matches input")

// LexError records why a stream ended before the end of its input.
type LexError struct {
	Offset int // byte offset of the token that failed
	Err    error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %v", e.Offset, e.Err)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// Item is one element of a collected token stream.
type Item struct {
	Span  CharSpan
	Token Token
}

// Tokenizer produces (CharSpan, Token) pairs from a source string.
//
// A Tokenizer moves forward only and is not safe for concurrent use. Once
// it reaches the end of its input, or input it cannot tokenize, every call
// to Next returns the same zero-width span with an EOF token.
type Tokenizer struct {
	trie *retrie.Trie[Token]
	src  string
	off  int
	bol  bool

	done    bool
	eofSpan CharSpan
	err     error
}

// New returns a Tokenizer over src using DefaultTrie.
func New(src string) *Tokenizer {
	return NewWithTrie(DefaultTrie(), src)
}

// NewWithTrie returns a Tokenizer over src using a caller-supplied rule set.
// The trie is only read.
func NewWithTrie(trie *retrie.Trie[Token], src string) *Tokenizer {
	return &Tokenizer{
		trie: trie,
		src:  src,
		bol:  true,
	}
}

// Next returns the next token and its span.
func (t *Tokenizer) Next() (CharSpan, Token) {
	if t.done {
		return t.eofSpan, Tok(TokenEOF)
	}
	if t.off >= len(t.src) {
		return t.finish(nil)
	}

	rest := t.src[t.off:]
	c := rest[0]

	if t.bol {
		if c == ' ' || c == '\t' {
			return t.indent(rest)
		}
		t.bol = false
	}

	start := t.off
	var tok Token
	if c == '\'' || c == '"' {
		text, n, err := strutil.Unescape(rest, rune(c))
		if err != nil {
			return t.finish(err)
		}
		tok = Lit(text)
		t.off += n
	} else {
		m, n, ok := t.trie.Match(rest)
		if !ok {
			return t.finish(ErrNoMatch)
		}
		tok = m
		t.off += n
	}

	switch tok.Kind {
	case TokenNL:
		t.bol = true
	case TokenCommentNL:
		tail := t.src[t.off:]
		n := strings.IndexByte(tail, '\n')
		if n < 0 {
			n = len(tail)
		} else {
			t.bol = true
		}
		tok.Text = strutil.New(tail[:n])
		t.off += n
	}

	return CharSpan{Start: start, End: t.off}, tok
}

// indent consumes a run of spaces and tabs at the start of a line. The
// beginning-of-line flag stays set; the next call clears it.
func (t *Tokenizer) indent(rest string) (CharSpan, Token) {
	var width uint32
	n := 0
scan:
	for ; n < len(rest); n++ {
		switch rest[n] {
		case ' ':
			width++
		case '\t':
			width = (width/tabStop + 1) * tabStop
		default:
			break scan
		}
	}
	start := t.off
	t.off += n
	return CharSpan{Start: start, End: t.off}, Indent(width)
}

// finish moves the tokenizer into its terminal state at the current offset.
func (t *Tokenizer) finish(cause error) (CharSpan, Token) {
	t.done = true
	t.eofSpan = CharSpan{Start: t.off, End: t.off}
	if cause != nil {
		t.err = &LexError{Offset: t.off, Err: cause}
		log.Debug(log.CatLexer, "Token stream ended early", "offset", t.off, "reason", cause)
	}
	return t.eofSpan, Tok(TokenEOF)
}

// All yields pairs up to and including the first EOF token.
func (t *Tokenizer) All() iter.Seq2[CharSpan, Token] {
	return func(yield func(CharSpan, Token) bool) {
		for {
			span, tok := t.Next()
			if !yield(span, tok) || tok.IsEOF() {
				return
			}
		}
	}
}

// Err returns nil if the stream ended at the end of its input, or a
// *LexError if it stopped at input it could not tokenize. The token stream
// is the same in both cases.
func (t *Tokenizer) Err() error {
	return t.err
}

// Done reports whether the tokenizer has reached its terminal state.
func (t *Tokenizer) Done() bool {
	return t.done
}

// Offset returns the current cursor position in bytes.
func (t *Tokenizer) Offset() int {
	return t.off
}

// Tokenize collects every token of src before EOF. The error is the
// tokenizer's Err.
func Tokenize(src string) ([]Item, error) {
	return TokenizeWith(DefaultTrie(), src)
}

// TokenizeWith is Tokenize with a caller-supplied rule set.
func TokenizeWith(trie *retrie.Trie[Token], src string) ([]Item, error) {
	t := NewWithTrie(trie, src)
	var items []Item
	for span, tok := range t.All() {
		if tok.IsEOF() {
			break
		}
		items = append(items, Item{Span: span, Token: tok})
	}
	return items, t.Err()
}
