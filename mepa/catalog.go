package mepa

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// paramKind restricts parameter values checked at load time.
type paramKind int

const (
	anyValue paramKind = iota
	count              // non-negative
	level              // display index
	label              // program address
)

type instruction struct {
	name   string
	params []paramKind
	exec   func(m *Machine, p []int) error
}

func binary(f func(a, b int) int) func(*Machine, []int) error {
	return func(m *Machine, _ []int) error {
		b, e := m.pop()
		if e != nil {
			return e
		}
		a, e := m.pop()
		if e != nil {
			return e
		}
		return m.push(f(a, b))
	}
}

func unary(f func(a int) int) func(*Machine, []int) error {
	return func(m *Machine, _ []int) error {
		a, e := m.pop()
		if e != nil {
			return e
		}
		return m.push(f(a))
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

var instructions = []*instruction{
	{"INPP", nil, (*Machine).inpp},
	{"AMEM", []paramKind{count}, (*Machine).amem},
	{"DMEM", []paramKind{count}, (*Machine).dmem},
	{"CRCT", []paramKind{anyValue}, func(m *Machine, p []int) error { return m.push(p[0]) }},
	{"CRVL", []paramKind{level, anyValue}, (*Machine).crvl},
	{"ARMZ", []paramKind{level, anyValue}, (*Machine).armz},
	{"CREN", []paramKind{level, anyValue}, (*Machine).cren},
	{"CRVI", []paramKind{level, anyValue}, (*Machine).crvi},
	{"ARMI", []paramKind{level, anyValue}, (*Machine).armi},
	{"IPVL", []paramKind{count, count}, (*Machine).ipvl},

	{"SOMA", nil, binary(func(a, b int) int { return a + b })},
	{"SUBT", nil, binary(func(a, b int) int { return a - b })},
	{"MULT", nil, binary(func(a, b int) int { return a * b })},
	{"DIVI", nil, (*Machine).divi},

	{"CMIG", nil, binary(func(a, b int) int { return flag(a == b) })},
	{"CMDG", nil, binary(func(a, b int) int { return flag(a != b) })},
	{"CMMA", nil, binary(func(a, b int) int { return flag(a > b) })},
	{"CMME", nil, binary(func(a, b int) int { return flag(a < b) })},
	{"CMAG", nil, binary(func(a, b int) int { return flag(a >= b) })},
	{"CMEG", nil, binary(func(a, b int) int { return flag(a <= b) })},

	{"CONJ", nil, binary(func(a, b int) int { return flag(a == 1 && b == 1) })},
	{"DISJ", nil, binary(func(a, b int) int { return flag(a == 1 || b == 1) })},
	{"NEGA", nil, unary(func(a int) int { return 1 - a })},
	{"INVR", nil, unary(func(a int) int { return -a })},

	{"DSVS", []paramKind{label}, func(m *Machine, p []int) error { m.next = p[0]; return nil }},
	{"DSVF", []paramKind{label}, (*Machine).dsvf},
	{"CHPR", []paramKind{label, level}, (*Machine).chpr},
	{"ENPR", []paramKind{level}, (*Machine).enpr},
	{"RTPR", []paramKind{count}, (*Machine).rtpr},

	{"IMPR", nil, (*Machine).impr},
	{"LEIT", nil, (*Machine).leit},
	{"NADA", nil, func(*Machine, []int) error { return nil }},
	{"PARA", nil, func(m *Machine, _ []int) error { m.halted = true; return nil }},
}

var (
	catalog = make(map[string]*instruction, len(instructions))
	names   = make([]string, len(instructions))
)

func init() {
	for i, ins := range instructions {
		catalog[ins.name] = ins
		names[i] = ins.name
	}
}

// maxSuggestDistance limits edit distance of "did you mean" suggestions.
const maxSuggestDistance = 2

// Instructions returns known instruction names in catalog order.
func Instructions() []string {
	return append([]string(nil), names...)
}

// Arity returns the number of parameters of named instruction, ok is false for unknown name.
func Arity(name string) (n int, ok bool) {
	ins := catalog[strings.ToUpper(name)]
	if ins == nil {
		return 0, false
	}
	return len(ins.params), true
}

// Suggest returns the known instruction name closest to name or empty string.
// Abbreviations are matched first, then misspellings.
func Suggest(name string) string {
	if name == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	upper := strings.ToUpper(name)
	best, dist := "", maxSuggestDistance+1
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(upper, n); d < dist {
			best, dist = n, d
		}
	}
	return best
}
