package lexer

import (
	"sync"

	"github.com/zjrosen/clothespin/internal/retrie"
)

// DefaultTrie returns the process-wide rule set. It is built on first use
// and shared read-only by every Tokenizer created with New.
var DefaultTrie = sync.OnceValue(NewTrie)

// punctuation lists fixed-spelling rules in registration order. Order only
// matters between lexemes of the same length.
var punctuation = []struct {
	pattern string
	kind    Kind
}{
	{`\\`, TokenBackslash},
	{`,`, TokenComma},
	{`\.\.\.`, TokenDotDotDot},
	{`\.`, TokenDot},
	{`;`, TokenSemi},
	{`:\~`, TokenLTilde},
	{`:\-`, TokenLDash},
	{`::`, TokenColonColon},
	{`:`, TokenColon},
	{`\-=`, TokenDashEq},
	{`\-:`, TokenRDash},
	{`\->`, TokenRArrow},
	{`\-`, TokenDash},
	{`\+=`, TokenPlusEq},
	{`\+`, TokenPlus},
	{`\*=`, TokenStarEq},
	{`\*\*`, TokenStarStar},
	{`\*`, TokenStar},
	{`/=`, TokenSlashEq},
	{`//`, TokenSlashSlash},
	{`/`, TokenSlash},
	{`%=`, TokenPercentEq},
	{`%`, TokenPercent},
	{`=>`, TokenREqArrow},
	{`==`, TokenEqEq},
	{`=`, TokenEqual},
	{`>>=`, TokenRShiftEq},
	{`>>`, TokenRShift},
	{`>=`, TokenGeq},
	{`>`, TokenGt},
	{`<\~`, TokenLTildeArrow},
	{`<\-`, TokenLArrow},
	{`<<=`, TokenLShiftEq},
	{`<<`, TokenLShift},
	{`<=`, TokenLeq},
	{`<`, TokenLt},
	{`\~>`, TokenRTildeArrow},
	{`\~:`, TokenRTilde},
	{`&=`, TokenAmpEq},
	{`\&`, TokenAmp},
	{`\|=`, TokenBarEq},
	{`\|`, TokenBar},
	{`\?\~`, TokenLQueryTilde},
	{`\?\-`, TokenLQueryDash},
	{`\?`, TokenQuery},
	{`!\~`, TokenLBangTilde},
	{`!=`, TokenNeq},
	{`!\-`, TokenLBangDash},
	{`!`, TokenBang},
	{`\^`, TokenCaret},
	{`\~`, TokenTilde},
	{`@`, TokenAt},
	{`\(`, TokenLParen},
	{`\)`, TokenRParen},
	{`\[`, TokenLBrack},
	{`\]`, TokenRBrack},
	{`\{`, TokenLCurly},
	{`\}`, TokenRCurly},
}

// keywords are registered before the identifier rule so that an exact
// keyword wins the same-length tie; longer identifiers still win by length.
var keywords = []Kind{
	TokenTrue, TokenFalse, TokenNone,
	TokenAnd, TokenAsync, TokenAssert, TokenAs, TokenAwait,
	TokenBreak, TokenCase, TokenClass, TokenContinue,
	TokenDef, TokenDel, TokenElif, TokenElse, TokenExcept,
	TokenFinally, TokenFrom, TokenFor, TokenGlobal, TokenImport,
	TokenIf, TokenIn, TokenIs, TokenLambda, TokenMatch, TokenNonlocal,
	TokenNot, TokenOr, TokenPass, TokenRaise, TokenReturn, TokenTry,
	TokenType, TokenWhere, TokenWhile, TokenWith, TokenYield,
}

// NewTrie builds a fresh copy of the default rule set.
func NewTrie() *retrie.Trie[Token] {
	b := retrie.NewBuilder[Token]()
	pushFixed := func(pattern string, kind Kind) {
		tok := Tok(kind)
		b.MustPush(pattern, func(string) Token { return tok })
	}

	pushFixed(`[ \t]+`, TokenSpace)
	pushFixed(`\#`, TokenCommentNL)
	pushFixed(`\n`, TokenNL)
	pushFixed(`\r`, TokenCR)
	for _, p := range punctuation {
		pushFixed(p.pattern, p.kind)
	}
	for _, kw := range keywords {
		pushFixed(kw.Lexeme(), kw)
	}
	b.MustPush(`[0-9]+`, Int)
	pushFixed(`_`, TokenPlace)
	b.MustPush(`[A-Za-z_][0-9A-Za-z_]*`, Ident)
	return b.Build()
}
