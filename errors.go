package lalg

import (
	"sort"
	"sync"
)

// Lexical error codes.
const (
	LexNotInAlphabet = LexicalErrors + iota
	LexMalformedFloat
	LexNumberTooBig
	LexIdentifierTooBig
	LexInvalidIdentifier
	LexUnexpectedEof
)

// Syntax error codes.
const (
	SynValueExpected = SyntaxErrors + iota
	SynNumberExpected
	SynUnexpectedToken
	SynUnexpectedEof
)

// Semantic error codes.
const (
	SemVariableNotDeclared = SemanticErrors + iota
	SemVariableNotUsed
)

var descriptions = map[int]string{
	LexNotInAlphabet:     "character is not in the alphabet",
	LexMalformedFloat:    "malformed real number",
	LexNumberTooBig:      "number exceeds maximum length",
	LexIdentifierTooBig:  "identifier exceeds maximum length",
	LexInvalidIdentifier: "invalid identifier",
	LexUnexpectedEof:     "unexpected end of file, a closing } may be missing",

	SynValueExpected:   "valid identifier or value expected",
	SynNumberExpected:  "number expected",
	SynUnexpectedToken: "unexpected token",
	SynUnexpectedEof:   "unexpected end of file, expected token not found",

	SemVariableNotDeclared: "identifier used before its declaration in this scope:",
	SemVariableNotUsed:     "identifier declared but never used:",
}

var descriptionsMu sync.RWMutex

// Description returns stable human-readable description for error code or empty string.
func Description(code int) string {
	descriptionsMu.RLock()
	defer descriptionsMu.RUnlock()
	return descriptions[code]
}

// RegisterDescription sets description for error code; used by subpackages defining their own codes.
func RegisterDescription(code int, desc string) {
	descriptionsMu.Lock()
	descriptions[code] = desc
	descriptionsMu.Unlock()
}

// ErrorSink receives diagnostics in discovery order.
type ErrorSink interface {
	AddError(e *Error)
}

// ErrorList is the default ErrorSink, it keeps every diagnostic it receives.
// ErrorList is not safe for concurrent use.
type ErrorList struct {
	items []*Error
}

// NewErrorList creates empty list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// AddError appends e to the list.
func (l *ErrorList) AddError(e *Error) {
	l.items = append(l.items, e)
}

// Append appends all errors in order.
func (l *ErrorList) Append(es ...*Error) {
	l.items = append(l.items, es...)
}

// Errors returns a copy of collected errors.
func (l *ErrorList) Errors() []*Error {
	return append([]*Error(nil), l.items...)
}

// Len returns the number of collected errors.
func (l *ErrorList) Len() int {
	return len(l.items)
}

// Class returns errors of given class (e.g. SyntaxErrors) in discovery order.
func (l *ErrorList) Class(class int) []*Error {
	var res []*Error
	for _, e := range l.items {
		if e.Class() == class {
			res = append(res, e)
		}
	}
	return res
}

// Codes returns error codes in discovery order.
func (l *ErrorList) Codes() []int {
	res := make([]int, len(l.items))
	for i, e := range l.items {
		res[i] = e.Code
	}
	return res
}

// Reset removes all errors.
func (l *ErrorList) Reset() {
	l.items = nil
}

// Sorted returns a copy of collected errors ordered by position, errors without position go last.
func (l *ErrorList) Sorted() []*Error {
	res := l.Errors()
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if (a.StartRow < 0) != (b.StartRow < 0) {
			return b.StartRow < 0
		}
		if a.StartRow != b.StartRow {
			return a.StartRow < b.StartRow
		}
		return a.StartCol < b.StartCol
	})
	return res
}

// SinkFunc adapts a function to ErrorSink.
type SinkFunc func(e *Error)

// AddError calls f(e).
func (f SinkFunc) AddError(e *Error) {
	f(e)
}
