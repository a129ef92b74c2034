package symbols

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/lalg/langdef"
	"github.com/ava12/lalg/lexer"
)

func TestBuiltins(t *testing.T) {
	tab := New()
	require.Equal(t, 4, tab.Len())

	for _, name := range []string{"true", "false", "read", "write"} {
		i := tab.Find(name, GlobalScope)
		require.NotEqual(t, NoRow, i, name)
		s, _ := tab.Get(i)
		assert.True(t, s.Used, name)
		assert.True(t, s.Builtin, name)
		assert.True(t, s.IsDeclaration(), name)
	}

	s, _ := tab.Get(tab.Find("false", GlobalScope))
	assert.Equal(t, BooleanType, s.Type)
	s, _ = tab.Get(tab.Find("write", GlobalScope))
	assert.Equal(t, Procedure, s.Category)
	assert.Equal(t, NoRow, tab.Find("write", "p"))
}

func TestRegister(t *testing.T) {
	tokens := lexer.Scan(lexer.NewRequest(langdef.Default(), "program p;\nbegin x := true end.")).Tokens
	tab := New()
	Register(tab, tokens)

	var bound []string
	for _, tok := range tokens {
		if tok.SymbolIndex != lexer.NoSymbol {
			s, found := tab.Get(tok.SymbolIndex)
			require.True(t, found)
			assert.Equal(t, tok.Lexeme, s.Lexeme)
			bound = append(bound, tok.Lexeme)
		}
	}
	assert.Equal(t, []string{"p", "x", "true"}, bound)
	assert.Equal(t, 6, tab.Len())

	x, _ := tab.Get(5)
	assert.Equal(t, Symbol{Lexeme: "x", Row: 1, Col: 6, Token: 4, Ref: NoRow}, x)
	assert.Equal(t, tab.Find("true", GlobalScope), tokens[6].SymbolIndex)
}

func TestCloneUpdate(t *testing.T) {
	tab := New()
	i := tab.Add(Symbol{Lexeme: "a", Scope: "p", Declared: true, Category: Variable, Type: IntType, Ref: NoRow})
	c := tab.Clone()

	assert.True(t, tab.Update(i, func(s *Symbol) { s.Used = true }))
	assert.False(t, tab.Update(100, func(s *Symbol) {}))

	orig, _ := c.Get(i)
	assert.False(t, orig.Used)
	assert.Equal(t, i, c.Find("a", "p"))
	if diff := cmp.Diff(tab.Rows()[:4], c.Rows()[:4]); diff != "" {
		t.Errorf("built-ins differ:\n%s", diff)
	}

	_, found := tab.Get(-1)
	assert.False(t, found)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, tab.Declarations())
}

func TestFindLatest(t *testing.T) {
	tab := New()
	tab.Add(Symbol{Lexeme: "a", Scope: "p", Declared: true})
	second := tab.Add(Symbol{Lexeme: "a", Scope: "p", Declared: true})
	tab.Add(Symbol{Lexeme: "a", Scope: "p", Category: Reference})
	assert.Equal(t, second, tab.Find("a", "p"))
}

func TestWrite(t *testing.T) {
	tab := New()
	tab.Add(Symbol{Lexeme: "x", Type: IntType, Scope: "p", Category: Variable, Declared: true, Row: 2, Col: 4})

	var buf bytes.Buffer
	require.NoError(t, tab.Write(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[5], "variable")
	assert.Contains(t, lines[5], "3:5")
	assert.Contains(t, lines[1], "global")
}
