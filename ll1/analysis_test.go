package ll1

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/lalg/grammar"
)

func p(left string, alts ...[]string) grammar.Production {
	return grammar.MustProduction(left, alts...)
}

func alt(symbols ...string) []string {
	return symbols
}

var eps = alt(grammar.Epsilon)

func expressionGrammar() *grammar.Grammar {
	return grammar.New("expr",
		p("<e>", alt("<t>", "<e'>")),
		p("<e'>", alt("+", "<t>", "<e'>"), eps),
		p("<t>", alt("<f>", "<t'>")),
		p("<t'>", alt("*", "<f>", "<t'>"), eps),
		p("<f>", alt("(", "<e>", ")"), alt("id")),
	)
}

func lalgAnalysis(t *testing.T) *Analysis {
	a, e := Analyze(grammar.LALG())
	require.NoError(t, e)
	return a
}

func TestExpressionSets(t *testing.T) {
	a, e := Analyze(expressionGrammar())
	require.NoError(t, e)

	firsts := map[string][]string{
		"<e>":  {"(", "id"},
		"<e'>": {"+", grammar.Epsilon},
		"<t>":  {"(", "id"},
		"<t'>": {"*", grammar.Epsilon},
		"<f>":  {"(", "id"},
		"id":   {"id"},
	}
	for nt, expected := range firsts {
		assert.Equal(t, expected, a.Firsts(nt), "First(%s)", nt)
	}

	follows := map[string][]string{
		"<e>":  {"$", ")"},
		"<e'>": {"$", ")"},
		"<t>":  {"$", ")", "+"},
		"<t'>": {"$", ")", "+"},
		"<f>":  {"$", ")", "*", "+"},
	}
	for nt, expected := range follows {
		assert.Equal(t, expected, a.Follows(nt), "Follow(%s)", nt)
	}

	assert.Nil(t, a.Follows("id"))
	assert.Nil(t, a.Firsts("<unknown>"))
	assert.Equal(t, grammar.EndMarker, a.Terminals()[len(a.Terminals())-1])
	assert.ElementsMatch(t, []string{"+", "*", "(", ")", "id", "$"}, a.Terminals())
	assert.Equal(t, []string{"<e>", "<e'>", "<t>", "<t'>", "<f>"}, a.NonTerminals())
	assert.Equal(t, []string{"*", "+", grammar.Epsilon}, a.SequenceFirsts([]string{"<e'>", "<t'>"}))
	assert.Equal(t, []string{"(", "*", "id"}, a.SequenceFirsts([]string{"<t'>", "<f>"}))
}

func TestExpressionTable(t *testing.T) {
	a, e := Analyze(expressionGrammar())
	require.NoError(t, e)
	table := a.Table()

	samples := []struct {
		nt, t string
		cell  Cell
	}{
		{"<e>", "id", Cell{Derive, []string{"<t>", "<e'>"}}},
		{"<e>", "(", Cell{Derive, []string{"<t>", "<e'>"}}},
		{"<e>", ")", Cell{Kind: Sync}},
		{"<e>", "$", Cell{Kind: Sync}},
		{"<e'>", "+", Cell{Derive, []string{"+", "<t>", "<e'>"}}},
		{"<e'>", ")", Cell{Kind: Epsilon}},
		{"<e'>", "$", Cell{Kind: Epsilon}},
		{"<t'>", "+", Cell{Kind: Epsilon}},
		{"<f>", "id", Cell{Derive, []string{"id"}}},
		{"<f>", "+", Cell{Kind: Sync}},
		{"<f>", "*", Cell{Kind: Sync}},
	}
	for _, s := range samples {
		c, found := table.Lookup(s.nt, s.t)
		if assert.True(t, found, "[%s, %s]", s.nt, s.t) {
			assert.Equal(t, s.cell, c, "[%s, %s]", s.nt, s.t)
		}
	}

	_, found := table.Lookup("<e>", "+")
	assert.False(t, found)
	_, found = table.Lookup("<f>", "(")
	assert.True(t, found)
	assert.Empty(t, table.Conflicts())
	assert.Len(t, table.Row("<t'>"), 4)
	assert.Equal(t, []string{"+", ")"}, filter(a.Expected("<e'>"), "+", ")"))
}

func filter(items []string, keep ...string) []string {
	var res []string
	for _, i := range items {
		for _, k := range keep {
			if i == k {
				res = append(res, i)
			}
		}
	}
	return res
}

func TestLALGFirstsAreTerminal(t *testing.T) {
	a := lalgAnalysis(t)
	for _, nt := range a.NonTerminals() {
		first := a.Firsts(nt)
		assert.NotEmpty(t, first, nt)
		for _, s := range first {
			assert.False(t, a.IsNonTerminal(s), "First(%s) contains %s", nt, s)
		}
	}
}

func TestLALGSets(t *testing.T) {
	a := lalgAnalysis(t)
	assert.Equal(t, "<program>", a.Start())
	assert.Contains(t, a.Follows(a.Start()), grammar.EndMarker)

	assert.Equal(t, []string{"(", grammar.Identifier, grammar.Number, "not"}, a.Firsts("<factor>"))
	assert.Equal(t, []string{grammar.Identifier, "begin", "if", "while", grammar.Epsilon}, a.Firsts("<command>"))
	assert.Equal(t, []string{";", "else", "end"}, a.Follows("<command>"))
	assert.Equal(t, []string{grammar.Identifier}, a.Firsts(grammar.Identifier))
	assert.False(t, a.IsNonTerminal(grammar.Identifier))
	assert.True(t, a.IsNonTerminal("<block>"))
	assert.Contains(t, a.Terminals(), grammar.Number)
	assert.NotContains(t, a.Terminals(), grammar.Epsilon)
}

func TestLALGTable(t *testing.T) {
	table := lalgAnalysis(t).Table()

	c, found := table.Lookup("<program>", "program")
	require.True(t, found)
	assert.Equal(t, Derive, c.Kind)
	assert.Equal(t, []string{"program", grammar.Identifier, ";", "<block>", "."}, c.Symbols)

	c, _ = table.Lookup("<program>", grammar.EndMarker)
	assert.Equal(t, Sync, c.Kind)
	c, _ = table.Lookup("<command>", "end")
	assert.Equal(t, Epsilon, c.Kind)
	c, _ = table.Lookup("<command>", grammar.Identifier)
	assert.Equal(t, []string{grammar.Identifier, "<command'>"}, c.Symbols)
	c, _ = table.Lookup("<else>", "else")
	assert.Equal(t, Derive, c.Kind)

	conflicts := table.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "<else>", conflicts[0].NonTerminal)
	assert.Equal(t, "else", conflicts[0].Terminal)
	assert.Equal(t, Epsilon, conflicts[0].Discarded.Kind)
	assert.Equal(t, Derive, conflicts[0].Kept.Kind)
}

func TestOverwriteConflict(t *testing.T) {
	a, e := Analyze(grammar.New("amb", p("<s>", alt("a", "b"), alt("a", "c"))))
	require.NoError(t, e)

	c, found := a.Table().Lookup("<s>", "a")
	require.True(t, found)
	assert.Equal(t, []string{"a", "c"}, c.Symbols)
	conflicts := a.Table().Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"a", "b"}, conflicts[0].Discarded.Symbols)
	assert.Equal(t, "[<s>, a]: a c over a b", conflicts[0].String())
}

func TestRecursiveGrammars(t *testing.T) {
	samples := []*grammar.Grammar{
		grammar.New("left", p("<a>", alt("<a>", "x"), alt("y"))),
		grammar.New("cycle", p("<a>", alt("<b>")), p("<b>", alt("<a>"), alt("z"))),
		grammar.New("nullable", p("<a>", alt("<b>", "<a>"), eps), p("<b>", alt("<a>"), eps)),
	}
	for _, g := range samples {
		a, e := Analyze(g)
		require.NoError(t, e, g.Name)
		assert.NotNil(t, a.Table(), g.Name)
		assert.Contains(t, a.Follows("<a>"), grammar.EndMarker, g.Name)
	}
}

func TestAnalyzeInvalid(t *testing.T) {
	_, e := Analyze(grammar.New("bad", p("<a>", alt("<b>"))))
	assert.ErrorIs(t, e, grammar.ErrUndefined)
}

func TestExport(t *testing.T) {
	x := lalgAnalysis(t).Export()
	assert.Equal(t, "LALG", x.Grammar)
	assert.Equal(t, "<program>", x.Start)
	assert.Len(t, x.Conflicts, 1)
	assert.NotEmpty(t, x.Table)
	assert.Contains(t, x.Follows["<program>"], grammar.EndMarker)

	for _, f := range []Format{JSON, CBOR} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, x, f))
		y, e := Decode(&buf, f)
		require.NoError(t, e)
		if diff := cmp.Diff(x, y); diff != "" {
			t.Errorf("format %d: decoded export differs (-want +got):\n%s", f, diff)
		}
	}

	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, x, CBOR))
	require.NoError(t, Encode(&b, lalgAnalysis(t).Export(), CBOR))
	assert.Equal(t, a.Bytes(), b.Bytes())

	f, e := ParseFormat("CBOR")
	require.NoError(t, e)
	assert.Equal(t, CBOR, f)
	_, e = ParseFormat("xml")
	assert.Error(t, e)
}
