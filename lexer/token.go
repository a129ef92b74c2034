package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/ava12/lalg"
)

// Token classes assigned to lexemes that are not reserved words.
const (
	IdentifierClass        = "identifier"
	IdentifierTooLongClass = "identifier-too-long"
	InvalidIdentifierClass = "invalid-identifier"
	NaturalClass           = "natural-number"
	NaturalTooLongClass    = "natural-number-too-long"
	RealClass              = "real-number"
	MalformedRealClass     = "malformed-real-number"

	// EndClass is the class of end-of-input token appended by parser.
	EndClass = "$"
)

// NoSymbol is the SymbolIndex of a token not bound to symbol table.
const NoSymbol = -1

// Token is a classified lexeme. Row and Col are 0-based, Col is a rune index.
// Depth is the lexical nesting depth computed from program/procedure/begin/end structure.
type Token struct {
	Lexeme      string
	Class       string
	Row, Col    int
	SymbolIndex int
	Depth       int
}

// EndCol returns exclusive end column.
func (t *Token) EndCol() int {
	return t.Col + utf8.RuneCountInString(t.Lexeme)
}

// Span returns source span of the token.
func (t *Token) Span() lalg.Span {
	return lalg.LineSpan(t.Row, t.Col, t.EndCol())
}

func (t *Token) String() string {
	return fmt.Sprintf("%q (%s) at %d:%d", t.Lexeme, t.Class, t.Row+1, t.Col+1)
}

// EndToken returns end-of-input token positioned at the last token of the list.
func EndToken(tokens []Token) Token {
	t := Token{Lexeme: "$", Class: EndClass, SymbolIndex: NoSymbol}
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		t.Row, t.Col, t.Depth = last.Row, last.Col, last.Depth
	}
	return t
}

// Clone returns a copy of token slice.
func Clone(tokens []Token) []Token {
	return append([]Token(nil), tokens...)
}
