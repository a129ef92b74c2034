// Package symbols implements symbol table shared by semantic analysis and inspection tools.
//
// Table rows are created for every identifier token before parsing (see Register)
// and later turned into declarations or references by semantic analyzer.
package symbols

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ava12/lalg/langdef"
	"github.com/ava12/lalg/lexer"
)

// Category tells how an identifier is used.
type Category string

const (
	Unresolved      Category = ""
	Variable        Category = "variable"
	FormalParameter Category = "formal-parameter"
	Procedure       Category = "procedure"
	Program         Category = "program"
	Reference       Category = "reference"
)

// Passing is formal parameter passing mode.
type Passing string

const (
	NotPassed   Passing = ""
	ByValue     Passing = "value"
	ByReference Passing = "reference"
)

// GlobalScope holds built-in symbols and program name.
const GlobalScope = "global"

// Built-in types.
const (
	IntType     = "int"
	BooleanType = "boolean"
)

// NoRow is returned by failed lookups.
const NoRow = -1

// Symbol is a symbol table row.
// Token is the index of the token the row was created for, Ref is the declaration row of a reference.
type Symbol struct {
	Lexeme   string
	Type     string
	Scope    string
	Level    int
	Category Category
	PassedAs Passing
	Used     bool
	Declared bool
	Builtin  bool
	Row, Col int
	Token    int
	Ref      int
}

// IsDeclaration reports whether s declares a name.
func (s Symbol) IsDeclaration() bool {
	return s.Declared
}

// Table is ordered list of symbols. Table is not safe for concurrent modification.
type Table struct {
	rows []Symbol
}

func builtin(lexeme, typ string, c Category) Symbol {
	return Symbol{
		Lexeme:   lexeme,
		Type:     typ,
		Scope:    GlobalScope,
		Category: c,
		Used:     true,
		Declared: true,
		Builtin:  true,
		Row:      -1,
		Col:      -1,
		Token:    -1,
		Ref:      NoRow,
	}
}

// New creates a table holding built-in symbols: true, false, read, and write.
func New() *Table {
	return &Table{rows: []Symbol{
		builtin("true", BooleanType, Variable),
		builtin("false", BooleanType, Variable),
		builtin("read", "", Procedure),
		builtin("write", "", Procedure),
	}}
}

// Add appends a row and returns its index.
func (t *Table) Add(s Symbol) int {
	t.rows = append(t.rows, s)
	return len(t.rows) - 1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Get returns row by index.
func (t *Table) Get(i int) (Symbol, bool) {
	if i < 0 || i >= len(t.rows) {
		return Symbol{Token: -1, Ref: NoRow}, false
	}
	return t.rows[i], true
}

// Update modifies row in place, returns false if there is no such row.
func (t *Table) Update(i int, f func(s *Symbol)) bool {
	if i < 0 || i >= len(t.rows) {
		return false
	}
	f(&t.rows[i])
	return true
}

// Rows returns a copy of all rows in table order.
func (t *Table) Rows() []Symbol {
	return append([]Symbol(nil), t.rows...)
}

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	return &Table{rows: t.Rows()}
}

// Find returns the latest declaration of lexeme in given scope or NoRow.
func (t *Table) Find(lexeme, scope string) int {
	for i := len(t.rows) - 1; i >= 0; i-- {
		r := &t.rows[i]
		if r.Declared && r.Lexeme == lexeme && r.Scope == scope {
			return i
		}
	}
	return NoRow
}

// Declarations returns indexes of declaration rows in table order.
func (t *Table) Declarations() []int {
	var res []int
	for i, r := range t.rows {
		if r.Declared {
			res = append(res, i)
		}
	}
	return res
}

// Register adds a row for each identifier token and sets token SymbolIndex.
// Boolean literals are bound to built-in rows when such rows exist.
func Register(t *Table, tokens []lexer.Token) {
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Class {
		case langdef.TrueClass, langdef.FalseClass:
			if idx := t.Find(tok.Lexeme, GlobalScope); idx != NoRow {
				tok.SymbolIndex = idx
				continue
			}
		case lexer.IdentifierClass:
		default:
			continue
		}

		tok.SymbolIndex = t.Add(Symbol{
			Lexeme: tok.Lexeme,
			Level:  tok.Depth,
			Row:    tok.Row,
			Col:    tok.Col,
			Token:  i,
			Ref:    NoRow,
		})
	}
}

// Write prints table rows as aligned text columns.
func (t *Table) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tlexeme\ttype\tscope\tlevel\tcategory\tpassed as\tused\tposition")
	for i, r := range t.rows {
		pos := "-"
		if r.Row >= 0 {
			pos = fmt.Sprintf("%d:%d", r.Row+1, r.Col+1)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%t\t%s\n",
			i, r.Lexeme, dash(r.Type), dash(r.Scope), r.Level, dash(string(r.Category)), dash(string(r.PassedAs)), r.Used, pos)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
