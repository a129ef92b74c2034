package parser

import (
	"log/slog"
	"strings"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/grammar"
	"github.com/ava12/lalg/internal/queue"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/ll1"
	"github.com/ava12/lalg/tree"
)

// State is parse session state.
type State int

const (
	Running State = iota
	Accepted
	AcceptedWithErrors
	Failed
)

var stateNames = [...]string{"running", "accepted", "accepted with errors", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Done reports whether s is a terminal state.
func (s State) Done() bool {
	return s != Running
}

// StackItem is parse stack element. Node is the tree node created for the symbol.
type StackItem struct {
	Symbol string
	Node   int
}

// Session is a single parse run over a token slice. Session is not safe for concurrent use.
type Session struct {
	parser *Parser
	tokens []lexer.Token
	input  *queue.Queue[int]
	stack  []StackItem
	tree   *tree.Tree
	hooks  Hooks
	sink   lalg.ErrorSink
	errors lalg.ErrorList
	log    lalg.Logger
	state  State
	steps  int
}

var path = []string{"parser"}

func (s *Session) init() {
	indexes := make([]int, len(s.tokens))
	for i := range indexes {
		indexes[i] = i
	}
	s.input.Reset(indexes...)

	start := s.parser.analysis.Start()
	root := s.tree.Add(tree.NoNode, start, false)
	s.stack = append(s.stack[:0], StackItem{grammar.EndMarker, tree.NoNode}, StackItem{start, root})
	s.state = Running
	s.steps = 0
	s.log.Info("parse started", slog.Int("tokens", len(s.tokens)-1), slog.String("start", start))
}

// Restart resets the session to its initial state reusing the same tokens.
// Hooks are reset, the tree and collected errors are discarded.
func (s *Session) Restart() {
	s.hooks.Reset()
	s.tree.Reset()
	s.errors.Reset()
	s.init()
}

// State returns current session state.
func (s *Session) State() State {
	return s.state
}

// Tree returns syntax tree built so far.
func (s *Session) Tree() *tree.Tree {
	return s.tree
}

// Stack returns a copy of parse stack, the top is the last element.
func (s *Session) Stack() []StackItem {
	return append([]StackItem(nil), s.stack...)
}

// Tokens returns a copy of input tokens including end-of-input token.
func (s *Session) Tokens() []lexer.Token {
	return lexer.Clone(s.tokens)
}

// Current returns the current input token.
func (s *Session) Current() lexer.Token {
	i, _ := s.input.Peek()
	return s.tokens[i]
}

// Remaining returns the number of unconsumed tokens including end-of-input token.
func (s *Session) Remaining() int {
	return s.input.Len()
}

// Errors returns syntax errors reported by the session since its start or last restart.
func (s *Session) Errors() []*lalg.Error {
	return s.errors.Errors()
}

// Steps returns the number of executed steps.
func (s *Session) Steps() int {
	return s.steps
}

// Run executes steps until a terminal state is reached.
func (s *Session) Run() State {
	for s.state == Running {
		s.Step()
	}
	return s.state
}

func (s *Session) top() StackItem {
	return s.stack[len(s.stack)-1]
}

func (s *Session) pop() StackItem {
	item := s.top()
	s.stack = s.stack[:len(s.stack)-1]
	return item
}

func (s *Session) consume() {
	s.input.First()
}

func (s *Session) report(code int, t *lexer.Token, detail string, params ...any) {
	e := lalg.FormatErrorSpan(t.Span(), path, code, detail, params...)
	s.errors.AddError(e)
	if s.sink != nil {
		s.sink.AddError(e)
	}
	s.log.Warn("syntax error", slog.Int("code", code), slog.String("message", e.Message))
}

func (s *Session) fail(code int, t *lexer.Token, detail string, params ...any) State {
	s.report(code, t, detail, params...)
	s.state = Failed
	s.log.Info("parse failed", slog.Int("steps", s.steps), slog.Int("errors", s.errors.Len()))
	return s.state
}

func (s *Session) parentLabel(node int) string {
	n, _ := s.tree.Node(node)
	p, found := s.tree.Node(n.Parent)
	if !found {
		return ""
	}
	return p.Label
}

// resolve binds token to node and notifies hooks.
func (s *Session) resolve(item StackItem, index int) {
	s.tree.SetToken(item.Node, index)
	s.hooks.Resolved(Event{
		Symbol: item.Symbol,
		Parent: s.parentLabel(item.Node),
		Token:  s.tokens[index],
		Index:  index,
		Node:   item.Node,
	})
}

func (s *Session) narrate(action string, x string, t *lexer.Token) {
	if s.log.Enabled(slog.LevelDebug) {
		s.log.Debug(action,
			slog.Int("step", s.steps),
			slog.String("top", x),
			slog.String("token", t.Lexeme),
			slog.Int("depth", len(s.stack)),
		)
	}
}

// Step executes a single parser transition and returns resulting state.
// Calling Step in a terminal state does nothing.
func (s *Session) Step() State {
	if s.state != Running {
		return s.state
	}

	s.steps++
	p := s.parser
	x := s.top()
	index, _ := s.input.Peek()
	t := &s.tokens[index]
	atEnd := t.Class == lexer.EndClass

	switch {
	case x.Symbol == grammar.EndMarker:
		if !atEnd {
			return s.fail(lalg.SynUnexpectedToken, t, "%q after end of program", t.Lexeme)
		}
		s.state = Accepted
		if s.errors.Len() > 0 {
			s.state = AcceptedWithErrors
		}
		s.narrate("accept", x.Symbol, t)
		s.log.Info("parse finished", slog.String("state", s.state.String()),
			slog.Int("steps", s.steps), slog.Int("errors", s.errors.Len()))

	case atEnd && (p.isSpecial(x.Symbol) || !p.analysis.IsNonTerminal(x.Symbol)):
		return s.fail(lalg.SynUnexpectedEof, t, "%s expected", x.Symbol)

	case x.Symbol == p.cfg.Identifier:
		s.matchClass(x, index, p.idClasses, lalg.SynValueExpected)

	case x.Symbol == p.cfg.Number:
		s.matchClass(x, index, p.numClasses, lalg.SynNumberExpected)

	case p.analysis.IsNonTerminal(x.Symbol):
		return s.expand(x, t)

	case t.Lexeme == x.Symbol:
		s.narrate("match", x.Symbol, t)
		s.tree.SetToken(x.Node, index)
		s.pop()
		s.consume()
		s.resolve(x, index)

	default:
		s.narrate("mismatch", x.Symbol, t)
		s.report(lalg.SynUnexpectedToken, t, "%q expected, got %q", x.Symbol, t.Lexeme)
		s.pop()
	}

	return s.state
}

func (s *Session) matchClass(x StackItem, index int, classes map[string]bool, code int) {
	t := &s.tokens[index]
	s.pop()
	s.consume()
	if !classes[t.Class] {
		s.narrate("discard", x.Symbol, t)
		s.report(code, t, "%q", t.Lexeme)
		return
	}

	s.narrate("match", x.Symbol, t)
	leaf := s.tree.Add(x.Node, t.Lexeme, true)
	s.tree.SetToken(leaf, index)
	s.resolve(x, index)
}

func (s *Session) expand(x StackItem, t *lexer.Token) State {
	key := s.parser.key(t)
	atEnd := t.Class == lexer.EndClass
	cell, found := s.parser.table.Lookup(x.Symbol, key)

	switch {
	case !found:
		if atEnd {
			return s.fail(lalg.SynUnexpectedEof, t, "expected one of: %s", strings.Join(s.parser.analysis.Expected(x.Symbol), " "))
		}
		s.narrate("skip", x.Symbol, t)
		s.report(lalg.SynUnexpectedToken, t, "%q, expected one of: %s", t.Lexeme, strings.Join(s.parser.analysis.Expected(x.Symbol), " "))
		s.consume()

	case cell.Kind == ll1.Sync:
		if atEnd {
			return s.fail(lalg.SynUnexpectedEof, t, "%s expected", x.Symbol)
		}
		s.narrate("sync", x.Symbol, t)
		s.report(lalg.SynUnexpectedToken, t, "%q, %s expected", t.Lexeme, x.Symbol)
		s.pop()

	case cell.Kind == ll1.Epsilon:
		s.narrate("epsilon", x.Symbol, t)
		s.pop()
		s.tree.Add(x.Node, grammar.Epsilon, true)

	default:
		s.narrate("derive", x.Symbol, t)
		s.pop()
		nodes := make([]int, len(cell.Symbols))
		for i, sym := range cell.Symbols {
			terminal := !s.parser.analysis.IsNonTerminal(sym) && !s.parser.isSpecial(sym)
			nodes[i] = s.tree.Add(x.Node, sym, terminal)
		}
		for i := len(cell.Symbols) - 1; i >= 0; i-- {
			s.stack = append(s.stack, StackItem{cell.Symbols[i], nodes[i]})
		}
	}

	return s.state
}
