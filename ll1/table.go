package ll1

import (
	"strings"

	"github.com/ava12/lalg/grammar"
)

// Kind is parse table cell kind.
type Kind int

const (
	// Derive cell replaces non-terminal with an alternative.
	Derive Kind = iota + 1
	// Epsilon cell pops non-terminal deriving empty string.
	Epsilon
	// Sync cell pops non-terminal during panic-mode recovery.
	Sync
)

var kindNames = map[Kind]string{
	Derive:  "derive",
	Epsilon: "epsilon",
	Sync:    "sync",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Cell is a parse table entry. Symbols is the alternative for Derive cells and nil otherwise.
type Cell struct {
	Kind    Kind
	Symbols []string
}

func (c Cell) String() string {
	switch c.Kind {
	case Derive:
		return strings.Join(c.Symbols, " ")
	case Epsilon:
		return grammar.Epsilon
	case Sync:
		return "SYNC"
	}
	return ""
}

func (c Cell) equal(d Cell) bool {
	if c.Kind != d.Kind || len(c.Symbols) != len(d.Symbols) {
		return false
	}
	for i, s := range c.Symbols {
		if d.Symbols[i] != s {
			return false
		}
	}
	return true
}

// Conflict describes a cell claimed by more than one alternative.
// Kept is the cell content after table construction.
type Conflict struct {
	NonTerminal, Terminal string
	Discarded, Kept       Cell
}

func (c Conflict) String() string {
	return "[" + c.NonTerminal + ", " + c.Terminal + "]: " + c.Kept.String() + " over " + c.Discarded.String()
}

type cellKey struct {
	nt, t string
}

// Table is LL(1) parse table. Table is read-only after construction.
type Table struct {
	nonTerminals []string
	terminals    []string
	cells        map[cellKey]Cell
	conflicts    []Conflict
}

// Lookup returns cell for non-terminal and terminal.
func (t *Table) Lookup(nt, terminal string) (Cell, bool) {
	c, found := t.cells[cellKey{nt, terminal}]
	return c, found
}

// Row returns non-empty cells of a non-terminal keyed by terminal.
func (t *Table) Row(nt string) map[string]Cell {
	res := make(map[string]Cell)
	for _, term := range t.terminals {
		if c, found := t.cells[cellKey{nt, term}]; found {
			res[term] = c
		}
	}
	return res
}

// Len returns the number of filled cells.
func (t *Table) Len() int {
	return len(t.cells)
}

// Conflicts returns cells claimed by more than one alternative in construction order.
func (t *Table) Conflicts() []Conflict {
	return append([]Conflict(nil), t.conflicts...)
}

func (t *Table) NonTerminals() []string {
	return append([]string(nil), t.nonTerminals...)
}

func (t *Table) Terminals() []string {
	return append([]string(nil), t.terminals...)
}

func (t *Table) set(nt, term string, c Cell) {
	key := cellKey{nt, term}
	if prev, found := t.cells[key]; found && !prev.equal(c) {
		t.conflicts = append(t.conflicts, Conflict{nt, term, prev, c})
	}
	t.cells[key] = c
}

// buildTable fills derivation cells of each alternative in order, overwriting earlier ones,
// then epsilon cells for unassigned Follow terminals, then sync cells for the rest of Follow.
func (a *Analysis) buildTable() *Table {
	t := &Table{
		nonTerminals: a.NonTerminals(),
		terminals:    a.Terminals(),
		cells:        make(map[cellKey]Cell),
	}

	for _, nt := range a.nonTerminals {
		name := a.symbols[nt]
		follow := a.names(a.follows[nt])
		for _, alt := range a.productions[nt].Right {
			first := a.sequenceFirst(alt)
			derive := Cell{Derive, append([]string(nil), alt...)}
			first.Each(func(i int) {
				if i != a.epsilon {
					t.set(name, a.symbols[i], derive)
				}
			})

			if !first.Contains(a.epsilon) {
				continue
			}

			for _, b := range follow {
				key := cellKey{name, b}
				if prev, found := t.cells[key]; !found {
					t.cells[key] = Cell{Kind: Epsilon}
				} else if prev.Kind == Derive {
					t.conflicts = append(t.conflicts, Conflict{name, b, Cell{Kind: Epsilon}, prev})
				}
			}
		}

		for _, b := range follow {
			key := cellKey{name, b}
			if _, found := t.cells[key]; !found {
				t.cells[key] = Cell{Kind: Sync}
			}
		}
	}
	return t
}
