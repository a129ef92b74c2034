package semantic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/grammar"
	. "github.com/ava12/lalg/internal/test"
	"github.com/ava12/lalg/langdef"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/ll1"
	"github.com/ava12/lalg/parser"
	"github.com/ava12/lalg/symbols"
)

type fixture struct {
	tokens   []lexer.Token
	analyzer *Analyzer
	session  *parser.Session
	sink     *lalg.ErrorList
}

func run(t *testing.T, src string) *fixture {
	a, e := ll1.Analyze(grammar.LALG())
	require.NoError(t, e)

	f := &fixture{sink: lalg.NewErrorList()}
	f.tokens = lexer.Scan(lexer.NewRequest(langdef.Default(), src)).Tokens
	base := symbols.New()
	symbols.Register(base, f.tokens)
	f.analyzer = New(base, f.sink, nil)
	f.session = parser.New(a, parser.Config{}).Start(f.tokens, f.analyzer, nil, nil)
	require.Equal(t, parser.Accepted, f.session.Run(), "source: %s", src)
	f.analyzer.Finish()
	return f
}

func (f *fixture) symbol(t *testing.T, token int) symbols.Symbol {
	s, found := f.analyzer.Table().Get(f.tokens[token].SymbolIndex)
	require.True(t, found, "token #%d %q", token, f.tokens[token].Lexeme)
	return s
}

func TestDeclaredAndUsed(t *testing.T) {
	f := run(t, "program p; int x; begin x := 1 end.")
	assert.Empty(t, f.analyzer.Errors())
	assert.Equal(t, 0, f.sink.Len())

	prog := f.symbol(t, 1)
	assert.Equal(t, symbols.Program, prog.Category)
	assert.Equal(t, symbols.GlobalScope, prog.Scope)
	assert.True(t, prog.Used)

	decl := f.symbol(t, 4)
	assert.Equal(t, symbols.Variable, decl.Category)
	assert.Equal(t, symbols.IntType, decl.Type)
	assert.Equal(t, "p", decl.Scope)
	assert.True(t, decl.Declared)
	assert.True(t, decl.Used)

	ref := f.symbol(t, 7)
	assert.Equal(t, symbols.Reference, ref.Category)
	assert.Equal(t, symbols.IntType, ref.Type)
	assert.Equal(t, f.tokens[4].SymbolIndex, ref.Ref)
	assert.False(t, ref.Declared)
	assert.True(t, ref.Used)

	assert.Equal(t, []string{symbols.GlobalScope}, f.analyzer.Scopes())
	assert.Equal(t, None, f.analyzer.Mode())
}

func TestNotDeclared(t *testing.T) {
	f := run(t, "program p;\nbegin y := true end.")
	errs := f.analyzer.Errors()
	ExpectCodes(t, []int{lalg.SemVariableNotDeclared}, errs)
	assert.Equal(t, lalg.LineSpan(1, 6, 7), errs[0].Span())
	assert.Equal(t, "y", errs[0].Detail)
	assert.Equal(t, []string{"semantic"}, errs[0].Path)
	ExpectCodes(t, []int{lalg.SemVariableNotDeclared}, f.sink.Errors())

	y := f.symbol(t, 4)
	assert.Equal(t, symbols.Reference, y.Category)
	assert.Equal(t, symbols.NoRow, y.Ref)
	assert.False(t, y.Used)
}

func TestNotUsed(t *testing.T) {
	f := run(t, "program p; int a, b; boolean c; procedure q; begin end; begin a := 1 end.")
	errs := f.analyzer.Errors()
	ExpectCodes(t, []int{lalg.SemVariableNotUsed, lalg.SemVariableNotUsed, lalg.SemVariableNotUsed}, errs)
	assert.Equal(t, []string{"b", "c", "q"}, []string{errs[0].Detail, errs[1].Detail, errs[2].Detail})

	f.analyzer.Finish()
	assert.Len(t, f.analyzer.Errors(), 3)
}

func TestProcedure(t *testing.T) {
	src := "program p; int x; procedure q(a: int; var b: boolean); int c; " +
		"begin c := a; b := true end; begin q(x, false) end."
	f := run(t, src)
	assert.Empty(t, f.analyzer.Errors())

	rows := map[string]symbols.Symbol{}
	for _, s := range f.analyzer.Table().Rows() {
		if s.Declared && !s.Builtin {
			rows[s.Lexeme] = s
		}
	}

	expected := map[string]symbols.Symbol{
		"p": {Category: symbols.Program, Scope: symbols.GlobalScope, Level: 0},
		"x": {Category: symbols.Variable, Type: symbols.IntType, Scope: "p", Level: 0},
		"q": {Category: symbols.Procedure, Scope: "p", Level: 0},
		"a": {Category: symbols.FormalParameter, Type: symbols.IntType, Scope: "p.q", Level: 1, PassedAs: symbols.ByValue},
		"b": {Category: symbols.FormalParameter, Type: symbols.BooleanType, Scope: "p.q", Level: 1, PassedAs: symbols.ByReference},
		"c": {Category: symbols.Variable, Type: symbols.IntType, Scope: "p.q", Level: 1},
	}
	require.Len(t, rows, len(expected))
	for name, e := range expected {
		got := rows[name]
		assert.Equal(t, e.Category, got.Category, name)
		assert.Equal(t, e.Type, got.Type, name)
		assert.Equal(t, e.Scope, got.Scope, name)
		assert.Equal(t, e.Level, got.Level, name)
		assert.Equal(t, e.PassedAs, got.PassedAs, name)
		assert.True(t, got.Used, name)
	}
}

func TestShadowing(t *testing.T) {
	f := run(t, "program p; int x; procedure q; int x; begin x := 1 end; begin x := 2; q end.")
	assert.Empty(t, f.analyzer.Errors())

	outer, inner := f.tokens[4].SymbolIndex, f.tokens[10].SymbolIndex
	assert.Equal(t, "p.q", f.symbol(t, 10).Scope)
	assert.Equal(t, inner, f.symbol(t, 13).Ref)
	assert.Equal(t, "p.q", f.symbol(t, 13).Scope)
	assert.Equal(t, outer, f.symbol(t, 19).Ref)
	assert.Equal(t, "p", f.symbol(t, 19).Scope)
}

func TestOuterScopeVisible(t *testing.T) {
	f := run(t, "program p; int g; procedure q; begin g := 1; q end; begin q end.")
	assert.Empty(t, f.analyzer.Errors())
	assert.Equal(t, f.tokens[4].SymbolIndex, f.symbol(t, 10).Ref)
}

func TestInnerScopeHidden(t *testing.T) {
	f := run(t, "program p; procedure q; int z; begin z := 1 end; begin z := 2; q end.")
	errs := f.analyzer.Errors()
	ExpectCodes(t, []int{lalg.SemVariableNotDeclared}, errs)
	assert.Equal(t, "z", errs[0].Detail)
}

func TestIdempotence(t *testing.T) {
	f := run(t, "program p; int a, b; procedure q(var x: int); begin x := y end; begin q(a) end.")
	first := f.analyzer.Table().Rows()
	codes := f.sink.Codes()
	ExpectCodes(t, []int{lalg.SemVariableNotDeclared, lalg.SemVariableNotUsed}, f.analyzer.Errors())

	f.session.Restart()
	assert.Equal(t, parser.Accepted, f.session.Run())
	f.analyzer.Finish()

	if diff := cmp.Diff(first, f.analyzer.Table().Rows()); diff != "" {
		t.Errorf("symbol table differs after restart:\n%s", diff)
	}
	assert.Equal(t, len(codes), len(f.analyzer.Errors()))
	assert.Equal(t, append(codes, codes...), f.sink.Codes())
}

func TestReset(t *testing.T) {
	base := symbols.New()
	a := New(base, nil, nil)
	a.Resolved(parser.Event{Symbol: "program", Token: lexer.Token{Lexeme: "program"}})
	assert.Equal(t, ProgramName, a.Mode())

	tok := lexer.Token{Lexeme: "p", Class: lexer.IdentifierClass, SymbolIndex: lexer.NoSymbol}
	a.Resolved(parser.Event{Symbol: grammar.Identifier, Token: tok, Index: 1})
	assert.Equal(t, []string{symbols.GlobalScope, "p"}, a.Scopes())
	assert.Equal(t, 5, a.Table().Len())

	a.Resolved(parser.Event{Symbol: "int", Token: lexer.Token{Lexeme: "int"}})
	assert.Equal(t, VariableDeclaration, a.Mode())

	a.Reset()
	assert.Equal(t, None, a.Mode())
	assert.Equal(t, "global", a.Scope())
	assert.Equal(t, base.Rows(), a.Table().Rows())
	assert.Equal(t, "formal-parameters", FormalParameters.String())
}
