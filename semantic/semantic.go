// Package semantic implements declaration and scope bookkeeping driven by parser events.
//
// Analyzer keeps a stack of open scopes and a declaration mode. Identifiers seen while
// declaring are collected into a pending batch and consolidated once their common type
// (and passing mode for formal parameters) is known; any other identifier is checked
// against accessible declarations.
package semantic

import (
	"log/slog"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/internal/queue"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/parser"
	"github.com/ava12/lalg/symbols"
)

// Mode tells how the next identifier is interpreted.
type Mode int

const (
	None Mode = iota
	VariableDeclaration
	ProgramName
	ProcedureDeclaration
	FormalParameters
)

var modeNames = [...]string{"none", "variable-declaration", "program-name", "procedure-declaration", "formal-parameters"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Keywords the analyzer reacts to.
const (
	programWord   = "program"
	procedureWord = "procedure"
	beginWord     = "begin"
	endWord       = "end"
	varWord       = "var"
	separator     = ";"
	openParen     = "("
	closeParen    = ")"
)

// Config names the special identifier non-terminal and the type keywords.
type Config struct {
	Identifier string
	Types      []string
}

// DefaultConfig matches the LALG grammar.
func DefaultConfig() Config {
	return Config{
		Identifier: parser.DefaultConfig().Identifier,
		Types:      []string{symbols.IntType, symbols.BooleanType},
	}
}

// Analyzer implements parser.Hooks. Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg     Config
	types   map[string]bool
	base    *symbols.Table
	table   *symbols.Table
	sink    lalg.ErrorSink
	errors  lalg.ErrorList
	log     lalg.Logger
	scopes  []string
	blocks  []string
	mode    Mode
	typ     string
	passing symbols.Passing
	pending *queue.Queue[int]
	params  bool
	done    bool
}

var path = []string{"semantic"}

// New creates analyzer working on a copy of base table.
// sink may be nil, logger may be nil to disable logging.
func New(base *symbols.Table, sink lalg.ErrorSink, logger *slog.Logger) *Analyzer {
	return NewWithConfig(base, DefaultConfig(), sink, logger)
}

// NewWithConfig is New with custom configuration.
func NewWithConfig(base *symbols.Table, cfg Config, sink lalg.ErrorSink, logger *slog.Logger) *Analyzer {
	d := DefaultConfig()
	if cfg.Identifier == "" {
		cfg.Identifier = d.Identifier
	}
	if len(cfg.Types) == 0 {
		cfg.Types = d.Types
	}

	a := &Analyzer{
		cfg:     cfg,
		types:   make(map[string]bool, len(cfg.Types)),
		base:    base.Clone(),
		sink:    sink,
		log:     lalg.NewLogger(logger, "semantic"),
		pending: queue.New[int](),
	}
	for _, t := range cfg.Types {
		a.types[t] = true
	}
	a.Reset()
	return a
}

// Reset restores initial state and a fresh copy of base table.
func (a *Analyzer) Reset() {
	a.table = a.base.Clone()
	a.errors.Reset()
	a.scopes = append(a.scopes[:0], symbols.GlobalScope)
	a.blocks = a.blocks[:0]
	a.mode = None
	a.typ = ""
	a.passing = symbols.ByValue
	a.pending.Reset()
	a.params = false
	a.done = false
}

// Table returns current symbol table.
func (a *Analyzer) Table() *symbols.Table {
	return a.table
}

// Errors returns semantic errors reported since creation or last reset.
func (a *Analyzer) Errors() []*lalg.Error {
	return a.errors.Errors()
}

// Mode returns current declaration mode.
func (a *Analyzer) Mode() Mode {
	return a.mode
}

// Scope returns innermost scope name.
func (a *Analyzer) Scope() string {
	return a.scopes[len(a.scopes)-1]
}

// Scopes returns a copy of scope stack, innermost last.
func (a *Analyzer) Scopes() []string {
	return append([]string(nil), a.scopes...)
}

func (a *Analyzer) setMode(m Mode) {
	if a.mode != m {
		a.log.Debug("mode", slog.String("from", a.mode.String()), slog.String("to", m.String()))
	}
	a.mode = m
}

func (a *Analyzer) report(code int, s symbols.Symbol) {
	span := lalg.NoSpan
	if s.Row >= 0 {
		span = lalg.LineSpan(s.Row, s.Col, s.Col+len([]rune(s.Lexeme)))
	}
	e := lalg.FormatErrorSpan(span, path, code, "%s", s.Lexeme)
	a.errors.AddError(e)
	if a.sink != nil {
		a.sink.AddError(e)
	}
	a.log.Warn("semantic error", slog.Int("code", code), slog.String("message", e.Message))
}

// Resolved handles parser event.
func (a *Analyzer) Resolved(e parser.Event) {
	if e.Symbol == a.cfg.Identifier {
		a.identifier(e)
		return
	}

	switch lexeme := e.Token.Lexeme; {
	case lexeme == programWord:
		a.blocks = append(a.blocks, programWord)
		a.setMode(ProgramName)

	case lexeme == procedureWord:
		a.consolidate()
		a.blocks = append(a.blocks, procedureWord)
		a.setMode(ProcedureDeclaration)

	case lexeme == beginWord:
		a.consolidate()
		a.setMode(None)
		a.blocks = append(a.blocks, beginWord)

	case lexeme == endWord:
		a.closeBlock()

	case lexeme == varWord && a.mode == FormalParameters:
		a.passing = symbols.ByReference

	case lexeme == openParen && a.mode == FormalParameters:
		a.params = true

	case lexeme == closeParen && a.mode == FormalParameters:
		a.consolidate()
		a.params = false

	case a.types[lexeme]:
		switch a.mode {
		case None, VariableDeclaration:
			a.typ = lexeme
			a.setMode(VariableDeclaration)
		case FormalParameters:
			a.typ = lexeme
			a.consolidate()
		}

	case lexeme == separator:
		switch a.mode {
		case VariableDeclaration:
			a.consolidate()
			a.setMode(None)
		case FormalParameters, ProcedureDeclaration:
			if !a.params {
				a.consolidate()
				a.setMode(None)
			}
		}
	}
}

func (a *Analyzer) closeBlock() {
	if len(a.blocks) == 0 {
		return
	}

	closed := a.blocks[len(a.blocks)-1]
	a.blocks = a.blocks[:len(a.blocks)-1]
	if closed == beginWord && len(a.blocks) > 0 && a.blocks[len(a.blocks)-1] != beginWord {
		a.blocks = a.blocks[:len(a.blocks)-1]
		if len(a.scopes) > 1 {
			a.log.Debug("scope closed", slog.String("scope", a.Scope()))
			a.scopes = a.scopes[:len(a.scopes)-1]
		}
	}
}

func (a *Analyzer) row(e parser.Event) int {
	if e.Token.SymbolIndex != lexer.NoSymbol {
		return e.Token.SymbolIndex
	}
	return a.table.Add(symbols.Symbol{
		Lexeme: e.Token.Lexeme,
		Level:  e.Token.Depth,
		Row:    e.Token.Row,
		Col:    e.Token.Col,
		Token:  e.Index,
		Ref:    symbols.NoRow,
	})
}

func (a *Analyzer) identifier(e parser.Event) {
	i := a.row(e)

	switch a.mode {
	case ProgramName:
		a.declare(i, symbols.Program, "", symbols.NotPassed)
		a.table.Update(i, func(s *symbols.Symbol) { s.Used = true })
		a.pushScope(e.Token.Lexeme)
		a.setMode(None)

	case ProcedureDeclaration:
		a.declare(i, symbols.Procedure, "", symbols.NotPassed)
		a.pushScope(a.Scope() + "." + e.Token.Lexeme)
		a.passing = symbols.ByValue
		a.setMode(FormalParameters)

	case VariableDeclaration, FormalParameters:
		a.pending.Append(i)

	default:
		a.CheckIdentifier(i)
	}
}

func (a *Analyzer) pushScope(name string) {
	a.scopes = append(a.scopes, name)
	a.log.Debug("scope opened", slog.String("scope", name))
}

func (a *Analyzer) declare(i int, c symbols.Category, typ string, passing symbols.Passing) {
	scope := a.Scope()
	s, _ := a.table.Get(i)
	if prev := a.table.Find(s.Lexeme, scope); prev != symbols.NoRow && prev != i {
		a.log.Warn("redeclaration", slog.String("lexeme", s.Lexeme), slog.String("scope", scope))
	}

	a.table.Update(i, func(s *symbols.Symbol) {
		s.Category = c
		s.Type = typ
		s.Scope = scope
		s.PassedAs = passing
		s.Declared = true
		s.Level = len(a.scopes) - 2
		if s.Level < 0 {
			s.Level = 0
		}
	})
	a.log.Debug("declared", slog.String("lexeme", s.Lexeme), slog.String("scope", scope), slog.String("category", string(c)))
}

// consolidate declares all pending identifiers with current type.
func (a *Analyzer) consolidate() {
	if a.pending.IsEmpty() {
		return
	}

	c, passing := symbols.Variable, symbols.NotPassed
	if a.mode == FormalParameters {
		c, passing = symbols.FormalParameter, a.passing
	}
	for _, i := range a.pending.Drain() {
		a.declare(i, c, a.typ, passing)
	}
	a.typ = ""
	a.passing = symbols.ByValue
}

// CheckIdentifier resolves identifier row against accessible declarations, innermost scope first.
// Undeclared identifier is reported, otherwise both the row and the declaration are marked used.
func (a *Analyzer) CheckIdentifier(i int) {
	s, found := a.table.Get(i)
	if !found {
		return
	}
	if s.Declared {
		a.table.Update(i, func(s *symbols.Symbol) { s.Used = true })
		return
	}

	scope := a.Scope()
	for j := len(a.scopes) - 1; j >= 0; j-- {
		d := a.table.Find(s.Lexeme, a.scopes[j])
		if d == symbols.NoRow {
			continue
		}

		decl, _ := a.table.Get(d)
		a.table.Update(d, func(s *symbols.Symbol) { s.Used = true })
		a.table.Update(i, func(s *symbols.Symbol) {
			s.Category = symbols.Reference
			s.Type = decl.Type
			s.Scope = scope
			s.Used = true
			s.Ref = d
		})
		return
	}

	a.table.Update(i, func(s *symbols.Symbol) {
		s.Category = symbols.Reference
		s.Scope = scope
	})
	a.report(lalg.SemVariableNotDeclared, s)
}

// Finish reports declared symbols that were never used, in table order.
// Subsequent calls do nothing until Reset.
func (a *Analyzer) Finish() {
	if a.done {
		return
	}

	a.done = true
	a.consolidate()
	for _, i := range a.table.Declarations() {
		s, _ := a.table.Get(i)
		if !s.Used && !s.Builtin {
			a.report(lalg.SemVariableNotUsed, s)
		}
	}
	a.log.Info("semantic analysis finished", slog.Int("symbols", a.table.Len()), slog.Int("errors", a.errors.Len()))
}
