// Package lexer turns source text into a stream of spanned tokens.
package lexer

import (
	"cmp"
	"fmt"
	"strconv"

	"github.com/zjrosen/clothespin/internal/strutil"
)

// Kind identifies a token variant.
type Kind uint8

const (
	// Layout
	TokenSpace Kind = iota
	TokenNL
	TokenCR
	TokenIndentSpace // leading spaces/tabs, carries the width
	TokenCommentNL   // # ..., carries the text after '#'

	// Punctuation
	TokenComma       // ,
	TokenDot         // .
	TokenDotDotDot   // ...
	TokenSemi        // ;
	TokenSemiSemi    // ;; (reserved)
	TokenColon       // :
	TokenColonColon  // ::
	TokenQuery       // ?
	TokenBang        // !
	TokenDash        // -
	TokenDashEq      // -=
	TokenPlus        // +
	TokenPlusEq      // +=
	TokenStar        // *
	TokenStarStar    // **
	TokenStarEq      // *=
	TokenSlash       // /
	TokenSlashEq     // /=
	TokenSlashSlash  // //
	TokenBackslash   // \
	TokenPercent     // %
	TokenPercentEq   // %=
	TokenAmp         // &
	TokenAmpEq       // &=
	TokenBar         // |
	TokenBarEq       // |=
	TokenCaret       // ^
	TokenTilde       // ~
	TokenAt          // @
	TokenLShift      // <<
	TokenLShiftEq    // <<=
	TokenRShift      // >>
	TokenRShiftEq    // >>=
	TokenEqual       // =
	TokenEqEq        // ==
	TokenNeq         // !=
	TokenGeq         // >=
	TokenGt          // >
	TokenLeq         // <=
	TokenLt          // <
	TokenXNot        // reserved
	TokenXNeq        // reserved
	TokenLDash       // :-
	TokenRDash       // -:
	TokenLEqual      // reserved
	TokenREqual      // reserved
	TokenLTilde      // :~
	TokenRTilde      // ~:
	TokenLQueryDash  // ?-
	TokenLQueryTilde // ?~
	TokenLBangDash   // !-
	TokenLBangTilde  // !~
	TokenLArrow      // <-
	TokenRArrow      // ->
	TokenREqArrow    // =>
	TokenLTildeArrow // <~
	TokenRTildeArrow // ~>

	// Brackets
	TokenLParen // (
	TokenRParen // )
	TokenLBrack // [
	TokenRBrack // ]
	TokenLCurly // {
	TokenRCurly // }

	// Keywords
	TokenTrue
	TokenFalse
	TokenNone
	TokenAnd
	TokenAs
	TokenAssert
	TokenAsync
	TokenAwait
	TokenBreak
	TokenCase
	TokenClass
	TokenContinue
	TokenDef
	TokenDel
	TokenElif
	TokenElse
	TokenExcept
	TokenFinally
	TokenFor
	TokenFrom
	TokenGlobal
	TokenImport
	TokenIf
	TokenIn
	TokenIs
	TokenLambda
	TokenMatch
	TokenNonlocal
	TokenNot
	TokenOr
	TokenPass
	TokenRaise
	TokenReturn
	TokenTry
	TokenType
	TokenWhere
	TokenWhile
	TokenWith
	TokenYield
	TokenPlace // _

	// Literals
	TokenInt
	TokenLit
	TokenIdent

	// Sentinels
	TokenEOF
	TokenBot // never produced

	kindCount
)

// Class groups token types for rendering.
type Class uint8

const (
	ClassLayout Class = iota
	ClassPunct
	ClassBracket
	ClassKeyword
	ClassLiteral
	ClassSentinel
)

func (c Class) String() string {
	switch c {
	case ClassLayout:
		return "layout"
	case ClassPunct:
		return "punctuation"
	case ClassBracket:
		return "bracket"
	case ClassKeyword:
		return "keyword"
	case ClassLiteral:
		return "literal"
	case ClassSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

type kindInfo struct {
	name   string
	lexeme string // fixed spelling, empty for payload and reserved types
}

var kindInfos = [kindCount]kindInfo{
	TokenSpace:       {"Space", ""},
	TokenNL:          {"NL", ""},
	TokenCR:          {"CR", ""},
	TokenIndentSpace: {"IndentSpace", ""},
	TokenCommentNL:   {"CommentNL", ""},
	TokenComma:       {"Comma", ","},
	TokenDot:         {"Dot", "."},
	TokenDotDotDot:   {"DotDotDot", "..."},
	TokenSemi:        {"Semi", ";"},
	TokenSemiSemi:    {"SemiSemi", ""},
	TokenColon:       {"Colon", ":"},
	TokenColonColon:  {"ColonColon", "::"},
	TokenQuery:       {"Query", "?"},
	TokenBang:        {"Bang", "!"},
	TokenDash:        {"Dash", "-"},
	TokenDashEq:      {"DashEq", "-="},
	TokenPlus:        {"Plus", "+"},
	TokenPlusEq:      {"PlusEq", "+="},
	TokenStar:        {"Star", "*"},
	TokenStarStar:    {"StarStar", "**"},
	TokenStarEq:      {"StarEq", "*="},
	TokenSlash:       {"Slash", "/"},
	TokenSlashEq:     {"SlashEq", "/="},
	TokenSlashSlash:  {"SlashSlash", "//"},
	TokenBackslash:   {"Backslash", `\`},
	TokenPercent:     {"Percent", "%"},
	TokenPercentEq:   {"PercentEq", "%="},
	TokenAmp:         {"Amp", "&"},
	TokenAmpEq:       {"AmpEq", "&="},
	TokenBar:         {"Bar", "|"},
	TokenBarEq:       {"BarEq", "|="},
	TokenCaret:       {"Caret", "^"},
	TokenTilde:       {"Tilde", "~"},
	TokenAt:          {"At", "@"},
	TokenLShift:      {"LShift", "<<"},
	TokenLShiftEq:    {"LShiftEq", "<<="},
	TokenRShift:      {"RShift", ">>"},
	TokenRShiftEq:    {"RShiftEq", ">>="},
	TokenEqual:       {"Equal", "="},
	TokenEqEq:        {"EqEq", "=="},
	TokenNeq:         {"Neq", "!="},
	TokenGeq:         {"Geq", ">="},
	TokenGt:          {"Gt", ">"},
	TokenLeq:         {"Leq", "<="},
	TokenLt:          {"Lt", "<"},
	TokenXNot:        {"XNot", ""},
	TokenXNeq:        {"XNeq", ""},
	TokenLDash:       {"LDash", ":-"},
	TokenRDash:       {"RDash", "-:"},
	TokenLEqual:      {"LEqual", ""},
	TokenREqual:      {"REqual", ""},
	TokenLTilde:      {"LTilde", ":~"},
	TokenRTilde:      {"RTilde", "~:"},
	TokenLQueryDash:  {"LQueryDash", "?-"},
	TokenLQueryTilde: {"LQueryTilde", "?~"},
	TokenLBangDash:   {"LBangDash", "!-"},
	TokenLBangTilde:  {"LBangTilde", "!~"},
	TokenLArrow:      {"LArrow", "<-"},
	TokenRArrow:      {"RArrow", "->"},
	TokenREqArrow:    {"REqArrow", "=>"},
	TokenLTildeArrow: {"LTildeArrow", "<~"},
	TokenRTildeArrow: {"RTildeArrow", "~>"},
	TokenLParen:      {"LParen", "("},
	TokenRParen:      {"RParen", ")"},
	TokenLBrack:      {"LBrack", "["},
	TokenRBrack:      {"RBrack", "]"},
	TokenLCurly:      {"LCurly", "{"},
	TokenRCurly:      {"RCurly", "}"},
	TokenTrue:        {"True", "True"},
	TokenFalse:       {"False", "False"},
	TokenNone:        {"None", "None"},
	TokenAnd:         {"And", "and"},
	TokenAs:          {"As", "as"},
	TokenAssert:      {"Assert", "assert"},
	TokenAsync:       {"Async", "async"},
	TokenAwait:       {"Await", "await"},
	TokenBreak:       {"Break", "break"},
	TokenCase:        {"Case", "case"},
	TokenClass:       {"Class", "class"},
	TokenContinue:    {"Continue", "continue"},
	TokenDef:         {"Def", "def"},
	TokenDel:         {"Del", "del"},
	TokenElif:        {"Elif", "elif"},
	TokenElse:        {"Else", "else"},
	TokenExcept:      {"Except", "except"},
	TokenFinally:     {"Finally", "finally"},
	TokenFor:         {"For", "for"},
	TokenFrom:        {"From", "from"},
	TokenGlobal:      {"Global", "global"},
	TokenImport:      {"Import", "import"},
	TokenIf:          {"If", "if"},
	TokenIn:          {"In", "in"},
	TokenIs:          {"Is", "is"},
	TokenLambda:      {"Lambda", "lambda"},
	TokenMatch:       {"Match", "match"},
	TokenNonlocal:    {"Nonlocal", "nonlocal"},
	TokenNot:         {"Not", "not"},
	TokenOr:          {"Or", "or"},
	TokenPass:        {"Pass", "pass"},
	TokenRaise:       {"Raise", "raise"},
	TokenReturn:      {"Return", "return"},
	TokenTry:         {"Try", "try"},
	TokenType:        {"Type", "type"},
	TokenWhere:       {"Where", "where"},
	TokenWhile:       {"While", "while"},
	TokenWith:        {"With", "with"},
	TokenYield:       {"Yield", "yield"},
	TokenPlace:       {"Place", "_"},
	TokenInt:         {"Int", ""},
	TokenLit:         {"Lit", ""},
	TokenIdent:       {"Ident", ""},
	TokenEOF:         {"_Eof", ""},
	TokenBot:         {"_Bot", ""},
}

// String returns the variant name, e.g. "RArrow" or "Ident".
func (t Kind) String() string {
	if t < kindCount {
		return kindInfos[t].name
	}
	return "UNKNOWN"
}

// Lexeme returns the fixed source spelling of the type, or "" for layout,
// literal-bearing, sentinel and reserved types.
func (t Kind) Lexeme() string {
	if t < kindCount {
		return kindInfos[t].lexeme
	}
	return ""
}

// Class returns the rendering group of the type.
func (t Kind) Class() Class {
	switch {
	case t <= TokenCommentNL:
		return ClassLayout
	case t >= TokenLParen && t <= TokenRCurly:
		return ClassBracket
	case t >= TokenTrue && t <= TokenPlace:
		return ClassKeyword
	case t >= TokenInt && t <= TokenIdent:
		return ClassLiteral
	case t >= TokenEOF:
		return ClassSentinel
	default:
		return ClassPunct
	}
}

// HasText reports whether tokens of this type carry a text payload.
func (t Kind) HasText() bool {
	switch t {
	case TokenCommentNL, TokenInt, TokenLit, TokenIdent:
		return true
	}
	return false
}

// Reserved reports whether the type exists only for a later grammar and is
// never produced by the default rules.
func (t Kind) Reserved() bool {
	switch t {
	case TokenSemiSemi, TokenXNot, TokenXNeq, TokenLEqual, TokenREqual, TokenBot:
		return true
	}
	return false
}

// Kinds returns every token kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for t := Kind(0); t < kindCount; t++ {
		out = append(out, t)
	}
	return out
}

// Token is a single lexical unit. Indent is set only for IndentSpace and
// Text only for CommentNL, Int, Lit and Ident, so tokens compare with ==.
type Token struct {
	Kind   Kind
	Indent uint32
	Text   strutil.SafeStr
}

// Tok returns a payload-free token.
func Tok(t Kind) Token {
	return Token{Kind: t}
}

// Indent returns an IndentSpace token of the given width.
func Indent(width uint32) Token {
	return Token{Kind: TokenIndentSpace, Indent: width}
}

// Comment returns a CommentNL token.
func Comment(text string) Token {
	return Token{Kind: TokenCommentNL, Text: strutil.New(text)}
}

// Int returns an Int token.
func Int(text string) Token {
	return Token{Kind: TokenInt, Text: strutil.New(text)}
}

// Lit returns a Lit token holding decoded literal contents.
func Lit(text string) Token {
	return Token{Kind: TokenLit, Text: strutil.New(text)}
}

// Ident returns an Ident token.
func Ident(text string) Token {
	return Token{Kind: TokenIdent, Text: strutil.New(text)}
}

// IsEOF reports whether the token is the end-of-stream sentinel.
func (t Token) IsEOF() bool {
	return t.Kind == TokenEOF
}

// IsSpace reports whether the token is inline whitespace.
func (t Token) IsSpace() bool {
	return t.Kind == TokenSpace
}

// String renders the token for diagnostics. Text payloads are sanitized.
func (t Token) String() string {
	switch {
	case t.Kind == TokenIndentSpace:
		return t.Kind.String() + "(" + strconv.FormatUint(uint64(t.Indent), 10) + ")"
	case t.Kind.HasText():
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text.String())
	default:
		return t.Kind.String()
	}
}

// Compare orders tokens by type, then indent width, then raw text.
func Compare(a, b Token) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Indent, b.Indent); c != 0 {
		return c
	}
	return a.Text.Compare(b.Text)
}
