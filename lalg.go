/*
Package lalg is the compilation core of a didactic compiler for LALG, a small Pascal-like language.

Consists of subpackages:
  - cmd/lalgc: console utility running the compiler stages and the MEPA machine;
  - source: source text and positions;
  - grammar: context-free grammar model and the LALG reference grammar;
  - langdef: language definition (alphabet, dividers, reserved words) and its JSON loader;
  - lexer: lexical analyzer running as a one-shot worker;
  - ll1: First and Follow sets and LL(1) parse table;
  - parser: table-driven predictive parser with panic-mode recovery;
  - tree: syntax tree produced by parser;
  - symbols: symbol table;
  - semantic: scope and declaration bookkeeping driven by parser hooks;
  - mepa: MEPA stack machine;
  - compiler: pipeline tying all stages together.

Typical usage is:

1. Create a compiler, optionally with a custom language definition or grammar.

2. Compile a source; inspect tokens, diagnostics, symbols, and syntax tree of the result,
or drive the parser one step at a time.

3. Load a MEPA program (generated or hand-written) and run it.

Diagnostics are never returned as Go errors: every stage appends them to an ErrorSink
and goes on, so that all defects are reported in a single pass.
*/
package lalg

import (
	"fmt"
	"strings"
)

// Error classes used by subpackages, each class contains up to 100 error codes:
const (
	LexicalErrors  = 100 // used by lexer
	SyntaxErrors   = 200 // used by parser
	SemanticErrors = 300 // used by semantic
	MachineErrors  = 400 // used by mepa
)

// Error is the diagnostic type used by lalg subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including description, detail, and position.
	Message string

	// Detail contains free-text detail or empty string.
	Detail string

	// StartRow, StartCol, EndRow, and EndCol define 0-based error span, end column is exclusive.
	// All are -1 if the error has no position.
	StartRow, StartCol, EndRow, EndCol int

	// Path contains diagnostic provenance, e.g. ["compiler", "parser"].
	Path []string
}

// Span is a 0-based source range, EndCol is exclusive.
type Span struct {
	StartRow, StartCol, EndRow, EndCol int
}

// NoSpan is used for errors having no source position.
var NoSpan = Span{-1, -1, -1, -1}

// LineSpan returns a single-line span.
func LineSpan(row, startCol, endCol int) Span {
	return Span{row, startCol, row, endCol}
}

// NewError creates new Error structure.
// Position is added to error message if span is not NoSpan.
func NewError(code int, span Span, detail string, path ...string) *Error {
	msg := fmt.Sprintf("(%d) %s", code, Description(code))
	if detail != "" {
		msg += " " + detail
	}
	if span.StartRow >= 0 {
		msg += fmt.Sprintf(" at line %d col %d", span.StartRow+1, span.StartCol+1)
	}
	if len(path) > 0 {
		path = append([]string(nil), path...)
	}
	return &Error{code, msg, detail, span.StartRow, span.StartCol, span.EndRow, span.EndCol, path}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error having the same code.
// This lets errors.Is match diagnostics against sentinel values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Span returns error span.
func (e *Error) Span() Span {
	return Span{e.StartRow, e.StartCol, e.EndRow, e.EndCol}
}

// Class returns error class, e.g. LexicalErrors.
func (e *Error) Class() int {
	return e.Code - e.Code%100
}

// Source returns dotted provenance path.
func (e *Error) Source() string {
	return strings.Join(e.Path, ".")
}

// FormatError creates Error structure with no position information.
// params will be added to detail using fmt.Sprintf function.
func FormatError(code int, detail string, params ...any) *Error {
	if len(params) > 0 {
		detail = fmt.Sprintf(detail, params...)
	}
	return NewError(code, NoSpan, detail)
}

// FormatErrorSpan creates Error structure with position information.
// params will be added to detail using fmt.Sprintf function.
func FormatErrorSpan(span Span, path []string, code int, detail string, params ...any) *Error {
	if len(params) > 0 {
		detail = fmt.Sprintf(detail, params...)
	}
	return NewError(code, span, detail, path...)
}
