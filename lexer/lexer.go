// Package lexer defines lexical analyzer for languages described by langdef.Definition.
//
// Scan is a pure function: one immutable request in, one response out. Start runs it in a separate
// goroutine and ScanAll runs independent requests in parallel.
package lexer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/internal/bmap"
	"github.com/ava12/lalg/langdef"
)

// ReservedWord maps exact lexeme to token class.
type ReservedWord = langdef.ReservedWord

// Request contains everything lexer needs. Request is never modified by lexer.
type Request struct {
	Alphabet      []rune
	Dividers      []rune
	ReservedWords []ReservedWord

	// LineComment is a single character, two consecutive markers start a comment till the end of line.
	// Empty string disables line comments.
	LineComment string

	// MaxIdentifierLength and MaxNaturalLength default to langdef limits if zero.
	MaxIdentifierLength int
	MaxNaturalLength    int

	Code string
}

// Response contains tokens and lexical diagnostics in discovery order.
// Err is set only if scan was not performed, e.g. context was cancelled.
type Response struct {
	Tokens []Token
	Errors []*lalg.Error
	Err    error
}

// NewRequest creates request for a language definition.
func NewRequest(def *langdef.Definition, code string) Request {
	return Request{
		Alphabet:            def.AlphabetRunes(),
		Dividers:            def.DividerRunes(),
		ReservedWords:       append([]ReservedWord(nil), def.ReservedWords...),
		LineComment:         def.LineComment,
		MaxIdentifierLength: def.MaxIdentifierLength,
		MaxNaturalLength:    def.MaxNaturalLength,
		Code:                code,
	}
}

func (r Request) copy() Request {
	r.Alphabet = append([]rune(nil), r.Alphabet...)
	r.Dividers = append([]rune(nil), r.Dividers...)
	r.ReservedWords = append([]ReservedWord(nil), r.ReservedWords...)
	return r
}

var (
	malformedRealRe = regexp.MustCompile(`^(\.\d*|\d*\.)$`)
	realRe          = regexp.MustCompile(`^\d+\.\d+$`)
	naturalRe       = regexp.MustCompile(`^\d+$`)
	identifierRe    = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*$`)
)

var errorCodes = map[string]int{
	MalformedRealClass:     lalg.LexMalformedFloat,
	NaturalTooLongClass:    lalg.LexNumberTooBig,
	IdentifierTooLongClass: lalg.LexIdentifierTooBig,
	InvalidIdentifierClass: lalg.LexInvalidIdentifier,
}

var path = []string{"lexer"}

type classifier struct {
	words         *bmap.BMap[string]
	maxIdentifier int
	maxNatural    int
}

func newClassifier(req *Request) *classifier {
	c := &classifier{
		words:         bmap.New[string](len(req.ReservedWords)),
		maxIdentifier: req.MaxIdentifierLength,
		maxNatural:    req.MaxNaturalLength,
	}
	if c.maxIdentifier <= 0 {
		c.maxIdentifier = langdef.MaxIdentifierLength
	}
	if c.maxNatural <= 0 {
		c.maxNatural = langdef.MaxNaturalLength
	}
	for _, w := range req.ReservedWords {
		c.words.Add(w.Token, w.Class)
	}
	return c
}

// classify applies precedence: reserved word, malformed real, real, natural, identifier, invalid identifier.
func (c *classifier) classify(lexeme string) string {
	if class, found := c.words.Get(lexeme); found {
		return class
	}

	switch {
	case malformedRealRe.MatchString(lexeme):
		return MalformedRealClass
	case realRe.MatchString(lexeme):
		return RealClass
	case naturalRe.MatchString(lexeme):
		if len(lexeme) <= c.maxNatural {
			return NaturalClass
		}
		return NaturalTooLongClass
	case identifierRe.MatchString(lexeme):
		if len(lexeme) <= c.maxIdentifier {
			return IdentifierClass
		}
		return IdentifierTooLongClass
	}
	return InvalidIdentifierClass
}

// Classify returns token class of a lexeme using request reserved words and limits.
func Classify(req Request, lexeme string) string {
	return newClassifier(&req).classify(lexeme)
}

type scanner struct {
	*classifier
	alphabet map[rune]bool
	dividers map[rune]bool
	comment  rune

	tokens []Token
	errors []*lalg.Error

	depth     int
	blocks    []string
	awaitName bool

	row       int
	lexeme    []rune
	lexemeCol int
}

func newScanner(req *Request) *scanner {
	s := &scanner{
		classifier: newClassifier(req),
		alphabet:   make(map[rune]bool, len(req.Alphabet)),
		dividers:   make(map[rune]bool, len(req.Dividers)),
		depth:      -1,
	}
	for _, r := range req.Alphabet {
		s.alphabet[r] = true
	}
	for _, r := range req.Dividers {
		s.dividers[r] = true
	}
	if req.LineComment != "" {
		s.comment = []rune(req.LineComment)[0]
	}
	return s
}

func (s *scanner) inAlphabet(r rune) bool {
	return r == ' ' || r == '\t' || s.alphabet[r]
}

func (s *scanner) addError(code int, span lalg.Span, lexeme string) {
	s.errors = append(s.errors, lalg.FormatErrorSpan(span, path, code, "%q", lexeme))
}

func (s *scanner) emit(lexeme string, col int) {
	t := Token{
		Lexeme:      lexeme,
		Class:       s.classify(lexeme),
		Row:         s.row,
		Col:         col,
		SymbolIndex: NoSymbol,
		Depth:       s.depth,
	}
	if code, found := errorCodes[t.Class]; found {
		s.addError(code, t.Span(), lexeme)
	}

	if s.awaitName {
		s.awaitName = false
		t.Depth = s.depth - 1
	}
	s.tokens = append(s.tokens, t)
	s.trackDepth(lexeme)
}

func (s *scanner) trackDepth(lexeme string) {
	switch lexeme {
	case "program", "procedure", "begin":
		s.blocks = append(s.blocks, lexeme)
		if lexeme == "procedure" {
			s.awaitName = true
		}
		if lexeme != "begin" {
			s.depth++
		}

	case "end":
		s.popBlock()
		if len(s.blocks) == 0 || s.blocks[len(s.blocks)-1] != "begin" {
			s.depth--
			s.popBlock()
		}
	}
}

func (s *scanner) popBlock() {
	if len(s.blocks) > 0 {
		s.blocks = s.blocks[:len(s.blocks)-1]
	}
}

func (s *scanner) flush() {
	if len(s.lexeme) > 0 {
		s.emit(string(s.lexeme), s.lexemeCol)
		s.lexeme = s.lexeme[:0]
	}
}

func (s *scanner) accumulate(r rune, col int) {
	if len(s.lexeme) == 0 {
		s.lexemeCol = col
	}
	s.lexeme = append(s.lexeme, r)
}

func compound(r, next rune) bool {
	switch r {
	case ':', '>':
		return next == '='
	case '<':
		return next == '=' || next == '>'
	}
	return false
}

func (s *scanner) scanLine(line []rune, inComment bool) bool {
	for col := 0; col < len(line); col++ {
		r := line[col]
		if inComment {
			if r == '}' {
				inComment = false
			}
			continue
		}

		if r == '{' {
			s.flush()
			inComment = true
			continue
		}

		if s.comment != 0 && r == s.comment && col < len(line)-1 && line[col+1] == s.comment {
			break
		}

		if !s.inAlphabet(r) {
			s.flush()
			s.emit(string(r), col)
			s.addError(lalg.LexNotInAlphabet, lalg.LineSpan(s.row, col, col+1), string(r))
			continue
		}

		if s.dividers[r] {
			s.flush()
			if r == ' ' || r == '\t' {
				continue
			}

			if col < len(line)-1 && compound(r, line[col+1]) {
				s.emit(string(line[col:col+2]), col)
				col++
			} else {
				s.emit(string(r), col)
			}
			continue
		}

		if r == '.' && string(s.lexeme) == "end" {
			s.flush()
			s.emit(".", col)
			continue
		}

		s.accumulate(r, col)
	}
	s.flush()
	return inComment
}

// Scan splits code into tokens. Rows and columns are 0-based, columns count runes.
func Scan(req Request) Response {
	s := newScanner(&req)
	code := strings.ReplaceAll(req.Code, "\r", "")
	lines := strings.Split(code, "\n")
	inComment := false
	for row, line := range lines {
		s.row = row
		inComment = s.scanLine([]rune(line), inComment)
	}

	if inComment {
		last := len(lines) - 1
		s.errors = append(s.errors, lalg.NewError(lalg.LexUnexpectedEof, lalg.LineSpan(last, 0, 0), "", path...))
	}

	return Response{Tokens: s.tokens, Errors: s.errors}
}

// Dump returns human-readable token list, one token per line.
func Dump(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&sb, "%d:%d\t%d\t%-24s %s\n", t.Row+1, t.Col+1, t.Depth, t.Class, t.Lexeme)
	}
	return sb.String()
}
