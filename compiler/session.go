package compiler

import (
	"log/slog"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/parser"
	"github.com/ava12/lalg/semantic"
	"github.com/ava12/lalg/source"
)

// Session is a step-by-step compilation of a single source. Session is not safe for concurrent use.
type Session struct {
	compiler  *Compiler
	src       *source.Source
	tokens    []lexer.Token
	lexErrors []*lalg.Error
	errors    *lalg.ErrorList
	analyzer  *semantic.Analyzer
	parse     *parser.Session
	finished  bool
}

// Source returns compiled source.
func (s *Session) Source() *source.Source {
	return s.src
}

// Parser returns underlying parse session for stack and tree inspection.
func (s *Session) Parser() *parser.Session {
	return s.parse
}

// Analyzer returns semantic analyzer attached to parser.
func (s *Session) Analyzer() *semantic.Analyzer {
	return s.analyzer
}

// Errors returns all diagnostics collected so far.
func (s *Session) Errors() []*lalg.Error {
	return s.errors.Errors()
}

// Step performs one parser step. When parsing is over, unused declarations are reported
// unless parsing failed.
func (s *Session) Step() parser.State {
	st := s.parse.State()
	if !st.Done() {
		st = s.parse.Step()
	}
	if st.Done() {
		s.finish(st)
	}
	return st
}

// Run steps until parsing is over.
func (s *Session) Run() parser.State {
	for !s.Step().Done() {
	}
	return s.parse.State()
}

// Restart reruns compilation on the same tokens, only lexical diagnostics are kept.
func (s *Session) Restart() {
	s.errors.Reset()
	s.errors.Append(s.lexErrors...)
	s.finished = false
	s.parse.Restart()
}

func (s *Session) finish(st parser.State) {
	if s.finished {
		return
	}

	s.finished = true
	if st != parser.Failed {
		s.analyzer.Finish()
	}
	s.compiler.log.Info("compile finished",
		slog.String("source", s.src.Name()),
		slog.String("state", st.String()),
		slog.Int("errors", s.errors.Len()))
}

// Result returns compilation results. Tokens do not include end-of-input token.
func (s *Session) Result() *Result {
	return &Result{
		Name:      s.src.Name(),
		Tokens:    lexer.Clone(s.tokens),
		Errors:    s.errors,
		Symbols:   s.analyzer.Table(),
		Tree:      s.parse.Tree(),
		State:     s.parse.State(),
		LineCount: s.src.LineCount(),
	}
}
