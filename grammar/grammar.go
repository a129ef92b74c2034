// Package grammar defines context-free grammar model consumed by ll1 analyzer and parser.
//
// Non-terminal names are enclosed in angle brackets, e.g. "<program>"; any other symbol is a terminal
// matched by token lexeme. First production of a grammar defines the start symbol.
package grammar

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Epsilon denotes empty alternative.
	Epsilon = "ε"
	// EndMarker denotes end of input.
	EndMarker = "$"
)

var (
	ErrEmptyLeft        = errors.New("production left side is empty")
	ErrNoAlternatives   = errors.New("non-terminal production has no alternatives")
	ErrEmptyAlternative = errors.New("empty alternative, use epsilon instead")
	ErrDuplicate        = errors.New("duplicate production")
	ErrUndefined        = errors.New("undefined non-terminal")
	ErrEmptyGrammar     = errors.New("grammar has no productions")
)

// IsNonTerminal reports whether symbol is enclosed in angle brackets.
func IsNonTerminal(symbol string) bool {
	return len(symbol) > 2 && symbol[0] == '<' && symbol[len(symbol)-1] == '>'
}

// Production is a left side with ordered alternatives.
// Final production is treated as a terminal by the analyzer: its right side holds the matching pattern
// (e.g. identifier regexp) instead of further derivations.
type Production struct {
	Left  string
	Right [][]string
	Final bool
}

// NewProduction creates validated production. A terminal left side gets no alternatives.
func NewProduction(left string, right ...[]string) (Production, error) {
	if left == "" {
		return Production{}, ErrEmptyLeft
	}

	if !IsNonTerminal(left) {
		return Production{Left: left}, nil
	}

	if len(right) == 0 {
		return Production{}, fmt.Errorf("%s: %w", left, ErrNoAlternatives)
	}

	alts := make([][]string, len(right))
	for i, alt := range right {
		if len(alt) == 0 {
			return Production{}, fmt.Errorf("%s, alternative #%d: %w", left, i+1, ErrEmptyAlternative)
		}
		alts[i] = append([]string(nil), alt...)
	}
	return Production{Left: left, Right: alts}, nil
}

// NewFinal creates convert-to-final production matched by pattern.
func NewFinal(left, pattern string) (Production, error) {
	p, e := NewProduction(left, []string{pattern})
	if e != nil {
		return p, e
	}

	p.Final = true
	return p, nil
}

// MustProduction is like NewProduction but panics on error. Intended for static grammars.
func MustProduction(left string, right ...[]string) Production {
	p, e := NewProduction(left, right...)
	if e != nil {
		panic(e)
	}
	return p
}

func (p Production) String() string {
	alts := make([]string, len(p.Right))
	for i, alt := range p.Right {
		alts[i] = strings.Join(alt, " ")
	}
	return p.Left + " ::= " + strings.Join(alts, " | ")
}

// Grammar is a named ordered list of productions.
type Grammar struct {
	Name        string
	Productions []Production
}

// New creates a grammar. Use Validate to check it.
func New(name string, productions ...Production) *Grammar {
	return &Grammar{name, productions}
}

// Start returns left side of the first production or empty string.
func (g *Grammar) Start() string {
	if len(g.Productions) == 0 {
		return ""
	}
	return g.Productions[0].Left
}

// Production returns production for non-terminal.
func (g *Grammar) Production(nt string) (Production, bool) {
	for _, p := range g.Productions {
		if p.Left == nt {
			return p, true
		}
	}
	return Production{}, false
}

// Validate checks that productions are well-formed, unique, and every non-terminal used is defined.
func (g *Grammar) Validate() error {
	if len(g.Productions) == 0 {
		return ErrEmptyGrammar
	}

	defined := make(map[string]bool, len(g.Productions))
	for _, p := range g.Productions {
		if p.Left == "" {
			return ErrEmptyLeft
		}
		if defined[p.Left] {
			return fmt.Errorf("%s: %w", p.Left, ErrDuplicate)
		}
		defined[p.Left] = true
		if IsNonTerminal(p.Left) && len(p.Right) == 0 {
			return fmt.Errorf("%s: %w", p.Left, ErrNoAlternatives)
		}
	}

	for _, p := range g.Productions {
		if p.Final {
			continue
		}
		for _, alt := range p.Right {
			for _, s := range alt {
				if IsNonTerminal(s) && !defined[s] {
					return fmt.Errorf("%s, used in %s: %w", s, p.Left, ErrUndefined)
				}
			}
		}
	}
	return nil
}

// Copy returns a deep copy.
func (g *Grammar) Copy() *Grammar {
	res := &Grammar{Name: g.Name, Productions: make([]Production, len(g.Productions))}
	for i, p := range g.Productions {
		res.Productions[i] = Production{Left: p.Left, Final: p.Final, Right: make([][]string, len(p.Right))}
		for j, alt := range p.Right {
			res.Productions[i].Right[j] = append([]string(nil), alt...)
		}
	}
	return res
}

func (g *Grammar) String() string {
	lines := make([]string, len(g.Productions))
	for i, p := range g.Productions {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}
