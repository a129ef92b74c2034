package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduction(t *testing.T) {
	_, e := NewProduction("")
	assert.ErrorIs(t, e, ErrEmptyLeft)

	_, e = NewProduction("<a>")
	assert.ErrorIs(t, e, ErrNoAlternatives)

	_, e = NewProduction("<a>", []string{"x"}, []string{})
	assert.ErrorIs(t, e, ErrEmptyAlternative)

	p, e := NewProduction("begin", []string{"x"})
	require.NoError(t, e)
	assert.Empty(t, p.Right)

	alt := []string{"x", "<b>"}
	p, e = NewProduction("<a>", alt, []string{Epsilon})
	require.NoError(t, e)
	alt[0] = "y"
	assert.Equal(t, "<a> ::= x <b> | ε", p.String())

	p, e = NewFinal(Number, "[0-9]+")
	require.NoError(t, e)
	assert.True(t, p.Final)
}

func TestIsNonTerminal(t *testing.T) {
	samples := map[string]bool{
		"<a>":          true,
		"<identifier>": true,
		"<>":           false,
		"<":            false,
		"<=":           false,
		"a":            false,
		"":             false,
		Epsilon:        false,
		EndMarker:      false,
	}
	for s, expected := range samples {
		assert.Equal(t, expected, IsNonTerminal(s), "symbol %q", s)
	}
}

func TestValidate(t *testing.T) {
	samples := []struct {
		g   *Grammar
		err error
	}{
		{New("empty"), ErrEmptyGrammar},
		{New("dup", MustProduction("<a>", []string{"x"}), MustProduction("<a>", []string{"y"})), ErrDuplicate},
		{New("undef", MustProduction("<a>", []string{"<b>"})), ErrUndefined},
		{New("bare", Production{Left: "<a>"}), ErrNoAlternatives},
		{New("ok", MustProduction("<a>", []string{"x", "<b>"}), MustProduction("<b>", []string{Epsilon})), nil},
	}

	for i, s := range samples {
		e := s.g.Validate()
		if s.err == nil {
			assert.NoError(t, e, "sample #%d", i)
		} else if !errors.Is(e, s.err) {
			t.Errorf("sample #%d: expecting %v, got %v", i, s.err, e)
		}
	}
}

func TestLALG(t *testing.T) {
	g := LALG()
	require.NoError(t, g.Validate())
	assert.Equal(t, "<program>", g.Start())

	id, found := g.Production(Identifier)
	require.True(t, found)
	assert.True(t, id.Final)
	assert.Equal(t, "[a-zA-Z_][a-zA-Z_0-9]*", id.Right[0][0])

	g.Productions[0].Right[0][0] = "changed"
	assert.Equal(t, "program", LALG().Productions[0].Right[0][0])
}
