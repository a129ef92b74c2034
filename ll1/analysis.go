// Package ll1 computes First and Follow sets of a grammar and builds LL(1) parse table
// with synchronization cells used by panic-mode error recovery.
//
// Final (convert-to-final) non-terminals are treated as terminals everywhere.
// A non-LL(1) grammar is not rejected: later derivations overwrite earlier table cells
// and every such case is reported by Table.Conflicts.
package ll1

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/grammar"
	"github.com/ava12/lalg/internal/ints"
)

// Analysis contains First and Follow sets and parse table of a grammar. Analysis is immutable.
type Analysis struct {
	grammar *grammar.Grammar

	symbols []string
	index   map[string]int
	epsilon int
	end     int

	nonTerminals []int
	terminals    []int
	productions  map[int]grammar.Production

	firsts  map[int]*ints.Set
	follows map[int]*ints.Set
	table   *Table
}

// Option configures Analyze.
type Option func(*options)

type options struct {
	logger lalg.Logger
}

// WithLogger sets logger reporting phase boundaries and table conflicts.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = lalg.NewLogger(l, "ll1")
	}
}

// Analyze validates grammar and computes its First and Follow sets and parse table.
func Analyze(g *grammar.Grammar, opts ...Option) (*Analysis, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if e := g.Validate(); e != nil {
		return nil, fmt.Errorf("grammar %q: %w", g.Name, e)
	}

	a := &Analysis{
		grammar:     g.Copy(),
		index:       make(map[string]int),
		productions: make(map[int]grammar.Production),
		firsts:      make(map[int]*ints.Set),
		follows:     make(map[int]*ints.Set),
	}
	a.collectSymbols()
	a.computeFirsts()
	a.computeFollows()
	a.table = a.buildTable()

	o.logger.Info("grammar analyzed",
		slog.String("grammar", g.Name),
		slog.Int("non-terminals", len(a.nonTerminals)),
		slog.Int("terminals", len(a.terminals)),
		slog.Int("conflicts", len(a.table.conflicts)),
	)
	for _, c := range a.table.conflicts {
		o.logger.Warn("table conflict", slog.String("cell", c.String()))
	}
	return a, nil
}

func (a *Analysis) symbol(name string) int {
	if i, found := a.index[name]; found {
		return i
	}

	i := len(a.symbols)
	a.symbols = append(a.symbols, name)
	a.index[name] = i
	return i
}

func (a *Analysis) isTerminal(i int) bool {
	_, isNt := a.productions[i]
	return !isNt && i != a.epsilon
}

func (a *Analysis) collectSymbols() {
	a.epsilon = a.symbol(grammar.Epsilon)
	a.end = a.symbol(grammar.EndMarker)

	for _, p := range a.grammar.Productions {
		i := a.symbol(p.Left)
		if !p.Final && grammar.IsNonTerminal(p.Left) {
			a.productions[i] = p
			a.nonTerminals = append(a.nonTerminals, i)
		}
	}

	for _, p := range a.grammar.Productions {
		if p.Final {
			continue
		}
		for _, alt := range p.Right {
			for _, s := range alt {
				a.symbol(s)
			}
		}
	}

	for i := range a.symbols {
		if a.isTerminal(i) && i != a.end {
			a.terminals = append(a.terminals, i)
		}
	}
	a.terminals = append(a.terminals, a.end)
}

func (a *Analysis) first(i int) *ints.Set {
	if s, found := a.firsts[i]; found {
		return s
	}
	return ints.NewSet(i)
}

// sequenceFirst returns First of a symbol sequence using current sets.
func (a *Analysis) sequenceFirst(seq []string) *ints.Set {
	res := ints.NewSet()
	for _, s := range seq {
		f := a.first(a.index[s])
		res.Union(f)
		if !f.Contains(a.epsilon) {
			res.Remove(a.epsilon)
			return res
		}
	}
	res.Add(a.epsilon)
	return res
}

func (a *Analysis) computeFirsts() {
	for _, nt := range a.nonTerminals {
		a.firsts[nt] = ints.NewSet()
	}

	for changed := true; changed; {
		changed = false
		for _, nt := range a.nonTerminals {
			for _, alt := range a.productions[nt].Right {
				if a.firsts[nt].AddSet(a.sequenceFirst(alt)) {
					changed = true
				}
			}
		}
	}
}

func (a *Analysis) computeFollows() {
	for _, nt := range a.nonTerminals {
		a.follows[nt] = ints.NewSet()
	}
	if f, found := a.follows[a.index[a.grammar.Start()]]; found {
		f.Add(a.end)
	}

	for changed := true; changed; {
		changed = false
		for _, nt := range a.nonTerminals {
			for _, alt := range a.productions[nt].Right {
				for pos, s := range alt {
					b := a.index[s]
					follow, isNt := a.follows[b]
					if !isNt {
						continue
					}

					rest := a.sequenceFirst(alt[pos+1:])
					hasEpsilon := rest.Contains(a.epsilon)
					rest.Remove(a.epsilon)
					if follow.AddSet(rest) {
						changed = true
					}
					if hasEpsilon && b != nt && follow.AddSet(a.follows[nt]) {
						changed = true
					}
				}
			}
		}
	}
}

func (a *Analysis) names(s *ints.Set) []string {
	res := make([]string, 0, s.Len())
	s.Each(func(i int) {
		res = append(res, a.symbols[i])
	})
	return res
}

func (a *Analysis) sortedNames(s *ints.Set) []string {
	res := a.names(s)
	sort.Strings(res)
	return res
}

// Grammar returns a copy of analyzed grammar.
func (a *Analysis) Grammar() *grammar.Grammar {
	return a.grammar.Copy()
}

// Start returns start symbol.
func (a *Analysis) Start() string {
	return a.grammar.Start()
}

// NonTerminals returns non-final non-terminals in grammar order.
func (a *Analysis) NonTerminals() []string {
	res := make([]string, len(a.nonTerminals))
	for i, nt := range a.nonTerminals {
		res[i] = a.symbols[nt]
	}
	return res
}

// Terminals returns terminals (including final non-terminals) in order of first appearance, EndMarker last.
func (a *Analysis) Terminals() []string {
	res := make([]string, len(a.terminals))
	for i, t := range a.terminals {
		res[i] = a.symbols[t]
	}
	return res
}

// IsNonTerminal reports whether symbol is a non-final non-terminal of analyzed grammar.
func (a *Analysis) IsNonTerminal(symbol string) bool {
	i, found := a.index[symbol]
	if !found {
		return false
	}
	_, found = a.productions[i]
	return found
}

// Firsts returns sorted First set of a symbol, may contain Epsilon.
// For a terminal (or final non-terminal) the set contains the symbol itself.
// Returns nil for unknown symbol.
func (a *Analysis) Firsts(symbol string) []string {
	i, found := a.index[symbol]
	if !found {
		return nil
	}
	return a.sortedNames(a.first(i))
}

// SequenceFirsts returns sorted First set of a symbol sequence.
func (a *Analysis) SequenceFirsts(seq []string) []string {
	for _, s := range seq {
		if _, found := a.index[s]; !found {
			return nil
		}
	}
	return a.sortedNames(a.sequenceFirst(seq))
}

// Follows returns sorted Follow set of a non-terminal or nil if symbol is not a non-final non-terminal.
func (a *Analysis) Follows(nt string) []string {
	i, found := a.index[nt]
	if !found {
		return nil
	}
	s, found := a.follows[i]
	if !found {
		return nil
	}
	return a.sortedNames(s)
}

// Table returns parse table.
func (a *Analysis) Table() *Table {
	return a.table
}

// Expected returns terminals having derivation or epsilon cells for non-terminal, except EndMarker.
// Used in diagnostics.
func (a *Analysis) Expected(nt string) []string {
	var res []string
	for _, t := range a.table.terminals {
		c, found := a.table.Lookup(nt, t)
		if found && c.Kind != Sync && t != grammar.EndMarker {
			res = append(res, t)
		}
	}
	return res
}
