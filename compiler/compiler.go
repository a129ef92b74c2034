// Package compiler ties lalg stages into a pipeline:
// source text is scanned by a lexer worker, identifier tokens are registered in a fresh symbol table,
// and the token list is parsed with the semantic analyzer attached as parser hooks.
//
// Every compilation builds its own tokens, symbol table, and syntax tree, so a single Compiler
// may serve concurrent calls.
package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/grammar"
	"github.com/ava12/lalg/langdef"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/ll1"
	"github.com/ava12/lalg/parser"
	"github.com/ava12/lalg/semantic"
	"github.com/ava12/lalg/source"
	"github.com/ava12/lalg/symbols"
	"github.com/ava12/lalg/tree"
)

// Option configures Compiler.
type Option func(*Compiler)

// WithDefinition sets language definition used by lexer, default is langdef.Default().
func WithDefinition(d *langdef.Definition) Option {
	return func(c *Compiler) {
		c.def = d
	}
}

// WithGrammar sets grammar used by parser, default is grammar.LALG().
func WithGrammar(g *grammar.Grammar) Option {
	return func(c *Compiler) {
		c.grammar = g
	}
}

// WithLogger enables logging of all stages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = l
	}
}

// WithLimit caps the number of sources compiled at once by CompileAll, non-positive means no cap.
func WithLimit(n int) Option {
	return func(c *Compiler) {
		c.limit = n
	}
}

// Compiler holds immutable stage configuration: language definition and analyzed grammar.
type Compiler struct {
	def      *langdef.Definition
	grammar  *grammar.Grammar
	analysis *ll1.Analysis
	parser   *parser.Parser
	logger   *slog.Logger
	log      lalg.Logger
	limit    int
}

// New analyzes grammar and creates compiler.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{}
	for _, o := range opts {
		o(c)
	}
	if c.def == nil {
		c.def = langdef.Default()
	}
	if c.grammar == nil {
		c.grammar = grammar.LALG()
	}
	c.log = lalg.NewLogger(c.logger, "compiler")

	var e error
	c.analysis, e = ll1.Analyze(c.grammar, ll1.WithLogger(c.logger))
	if e != nil {
		return nil, fmt.Errorf("compiler: %w", e)
	}
	if cs := c.analysis.Table().Conflicts(); len(cs) > 0 {
		c.log.Debug("table conflicts", slog.Int("count", len(cs)))
	}
	c.parser = parser.New(c.analysis, parser.Config{})
	return c, nil
}

// Definition returns language definition.
func (c *Compiler) Definition() *langdef.Definition {
	return c.def
}

// Analysis returns grammar analysis.
func (c *Compiler) Analysis() *ll1.Analysis {
	return c.analysis
}

// Result holds everything produced by compilation.
// Errors contains lexical, syntax, and semantic diagnostics in discovery order.
type Result struct {
	Name      string
	Tokens    []lexer.Token
	Errors    *lalg.ErrorList
	Symbols   *symbols.Table
	Tree      *tree.Tree
	State     parser.State
	LineCount int
}

// Ok reports whether source was accepted without diagnostics.
func (r *Result) Ok() bool {
	return r.State == parser.Accepted && r.Errors.Len() == 0
}

// Step scans source and returns a session ready to parse it step by step.
func (c *Compiler) Step(ctx context.Context, src *source.Source) (*Session, error) {
	var resp lexer.Response
	select {
	case resp = <-lexer.Start(ctx, lexer.NewRequest(c.def, src.Text())):
	case <-ctx.Done():
		return nil, fmt.Errorf("compiler: scanning %s: %w", src.Name(), ctx.Err())
	}
	if resp.Err != nil {
		return nil, fmt.Errorf("compiler: scanning %s: %w", src.Name(), resp.Err)
	}

	c.log.Info("compile started", slog.String("source", src.Name()), slog.Int("bytes", src.Len()), slog.Int("tokens", len(resp.Tokens)))
	base := symbols.New()
	symbols.Register(base, resp.Tokens)

	s := &Session{
		compiler:  c,
		src:       src,
		tokens:    resp.Tokens,
		lexErrors: resp.Errors,
		errors:    lalg.NewErrorList(),
	}
	s.errors.Append(resp.Errors...)
	s.analyzer = semantic.New(base, s.errors, c.logger)
	s.parse = c.parser.Start(resp.Tokens, s.analyzer, s.errors, c.logger)
	return s, nil
}

// Compile runs all stages on source.
// Returned error is not nil only if compilation could not be performed, e.g. ctx is done.
func (c *Compiler) Compile(ctx context.Context, src *source.Source) (*Result, error) {
	s, e := c.Step(ctx, src)
	if e != nil {
		return nil, e
	}

	for !s.Step().Done() {
		if e = ctx.Err(); e != nil {
			return nil, fmt.Errorf("compiler: parsing %s: %w", src.Name(), e)
		}
	}
	return s.Result(), nil
}

// CompileAll compiles independent sources concurrently. Results are in source order.
func (c *Compiler) CompileAll(ctx context.Context, srcs []*source.Source) ([]*Result, error) {
	res := make([]*Result, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}

	for i, src := range srcs {
		g.Go(func() error {
			r, e := c.Compile(ctx, src)
			res[i] = r
			return e
		})
	}

	if e := g.Wait(); e != nil {
		return nil, e
	}
	return res, nil
}
