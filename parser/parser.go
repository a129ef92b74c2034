// Package parser implements table-driven predictive parser with panic-mode error recovery.
//
// Parser is built once from grammar analysis and may be shared by any number of sessions.
// Each Session owns its input cursor, parse stack, and syntax tree; a session is driven
// either one step at a time (Step) or to completion (Run), both giving identical results.
package parser

import (
	"log/slog"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/grammar"
	"github.com/ava12/lalg/internal/queue"
	"github.com/ava12/lalg/langdef"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/ll1"
	"github.com/ava12/lalg/tree"
)

// Config names special non-terminals validated directly against token classes.
// Empty fields are replaced with DefaultConfig values.
type Config struct {
	Identifier        string
	Number            string
	IdentifierClasses []string
	NumberClasses     []string
}

// DefaultConfig returns configuration matching the LALG grammar and default language definition.
func DefaultConfig() Config {
	return Config{
		Identifier:        grammar.Identifier,
		Number:            grammar.Number,
		IdentifierClasses: []string{lexer.IdentifierClass, langdef.TrueClass, langdef.FalseClass},
		NumberClasses:     []string{lexer.NaturalClass, lexer.RealClass},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Identifier == "" {
		c.Identifier = d.Identifier
	}
	if c.Number == "" {
		c.Number = d.Number
	}
	if len(c.IdentifierClasses) == 0 {
		c.IdentifierClasses = d.IdentifierClasses
	}
	if len(c.NumberClasses) == 0 {
		c.NumberClasses = d.NumberClasses
	}
	return c
}

// Event describes a resolved terminal, identifier, or number.
// Symbol is the resolved stack symbol, Parent is the non-terminal whose derivation contains it.
type Event struct {
	Symbol string
	Parent string
	Token  lexer.Token
	Index  int
	Node   int
}

// Hooks receive parser events. Resolved is called after every successful match,
// Reset is called when a session restarts.
type Hooks interface {
	Resolved(e Event)
	Reset()
}

// NoHooks ignores all events.
type NoHooks struct{}

func (NoHooks) Resolved(Event) {}
func (NoHooks) Reset()         {}

// HookList broadcasts events to all hooks in order.
type HookList []Hooks

func (hl HookList) Resolved(e Event) {
	for _, h := range hl {
		h.Resolved(e)
	}
}

func (hl HookList) Reset() {
	for _, h := range hl {
		h.Reset()
	}
}

// Parser holds read-only parse table and configuration.
type Parser struct {
	analysis   *ll1.Analysis
	table      *ll1.Table
	cfg        Config
	idClasses  map[string]bool
	numClasses map[string]bool
}

// New creates a parser for analyzed grammar.
func New(a *ll1.Analysis, cfg Config) *Parser {
	cfg = cfg.withDefaults()
	p := &Parser{
		analysis:   a,
		table:      a.Table(),
		cfg:        cfg,
		idClasses:  make(map[string]bool, len(cfg.IdentifierClasses)),
		numClasses: make(map[string]bool, len(cfg.NumberClasses)),
	}
	for _, c := range cfg.IdentifierClasses {
		p.idClasses[c] = true
	}
	for _, c := range cfg.NumberClasses {
		p.numClasses[c] = true
	}
	return p
}

// Analysis returns grammar analysis the parser is built from.
func (p *Parser) Analysis() *ll1.Analysis {
	return p.analysis
}

// Config returns effective configuration.
func (p *Parser) Config() Config {
	return p.cfg
}

// key maps token to the terminal alphabet of the parse table.
func (p *Parser) key(t *lexer.Token) string {
	switch {
	case t.Class == lexer.EndClass:
		return grammar.EndMarker
	case t.Lexeme == grammar.EndMarker:
		// stray "$" in source matches no column
		return ""
	case p.idClasses[t.Class]:
		return p.cfg.Identifier
	case p.numClasses[t.Class]:
		return p.cfg.Number
	}
	return t.Lexeme
}

func (p *Parser) isSpecial(symbol string) bool {
	return symbol == p.cfg.Identifier || symbol == p.cfg.Number
}

// Start creates a parse session. Tokens are copied and end-of-input token is appended.
// hooks and sink may be nil, logger may be nil to disable step narration.
func (p *Parser) Start(tokens []lexer.Token, hooks Hooks, sink lalg.ErrorSink, logger *slog.Logger) *Session {
	if hooks == nil {
		hooks = NoHooks{}
	}
	ts := make([]lexer.Token, len(tokens), len(tokens)+1)
	copy(ts, tokens)
	ts = append(ts, lexer.EndToken(tokens))

	s := &Session{
		parser: p,
		tokens: ts,
		input:  queue.New[int](),
		tree:   tree.New(),
		hooks:  hooks,
		sink:   sink,
		log:    lalg.NewLogger(logger, "parser"),
	}
	s.init()
	return s
}

// Parse runs a session to completion.
func (p *Parser) Parse(tokens []lexer.Token, hooks Hooks, sink lalg.ErrorSink, logger *slog.Logger) *Session {
	s := p.Start(tokens, hooks, sink, logger)
	s.Run()
	return s
}
