package ll1

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format is export encoding.
type Format int

const (
	JSON Format = iota
	CBOR
)

// ParseFormat converts format name ("json" or "cbor") to Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}
	return JSON, fmt.Errorf("unknown export format %q", name)
}

// ExportCell is a filled parse table cell.
type ExportCell struct {
	NonTerminal string   `json:"nonTerminal" cbor:"1,keyasint"`
	Terminal    string   `json:"terminal" cbor:"2,keyasint"`
	Kind        string   `json:"kind" cbor:"3,keyasint"`
	Symbols     []string `json:"symbols,omitempty" cbor:"4,keyasint,omitempty"`
}

// ExportConflict is a conflicting cell.
type ExportConflict struct {
	NonTerminal string `json:"nonTerminal" cbor:"1,keyasint"`
	Terminal    string `json:"terminal" cbor:"2,keyasint"`
	Kept        string `json:"kept" cbor:"3,keyasint"`
	Discarded   string `json:"discarded" cbor:"4,keyasint"`
}

// Export is a plain representation of analysis results, suitable for encoding.
type Export struct {
	Grammar      string              `json:"grammar" cbor:"1,keyasint"`
	Start        string              `json:"start" cbor:"2,keyasint"`
	NonTerminals []string            `json:"nonTerminals" cbor:"3,keyasint"`
	Terminals    []string            `json:"terminals" cbor:"4,keyasint"`
	Firsts       map[string][]string `json:"firsts" cbor:"5,keyasint"`
	Follows      map[string][]string `json:"follows" cbor:"6,keyasint"`
	Table        []ExportCell        `json:"table" cbor:"7,keyasint"`
	Conflicts    []ExportConflict    `json:"conflicts,omitempty" cbor:"8,keyasint,omitempty"`
}

// Export returns plain analysis data. Table cells are ordered by non-terminal, then by terminal.
func (a *Analysis) Export() *Export {
	x := &Export{
		Grammar:      a.grammar.Name,
		Start:        a.Start(),
		NonTerminals: a.NonTerminals(),
		Terminals:    a.Terminals(),
		Firsts:       make(map[string][]string, len(a.nonTerminals)),
		Follows:      make(map[string][]string, len(a.nonTerminals)),
	}

	for _, nt := range x.NonTerminals {
		x.Firsts[nt] = a.Firsts(nt)
		x.Follows[nt] = a.Follows(nt)
		for _, t := range x.Terminals {
			if c, found := a.table.Lookup(nt, t); found {
				x.Table = append(x.Table, ExportCell{nt, t, c.Kind.String(), c.Symbols})
			}
		}
	}

	for _, c := range a.table.conflicts {
		x.Conflicts = append(x.Conflicts, ExportConflict{c.NonTerminal, c.Terminal, c.Kept.String(), c.Discarded.String()})
	}
	return x
}

var cborMode cbor.EncMode

func init() {
	var e error
	cborMode, e = cbor.CoreDetEncOptions().EncMode()
	if e != nil {
		panic(e)
	}
}

// Encode writes export in given format. CBOR output is deterministic.
func Encode(w io.Writer, x *Export, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(x)
	case CBOR:
		return cborMode.NewEncoder(w).Encode(x)
	}
	return fmt.Errorf("unknown export format %d", f)
}

// Decode reads export encoded by Encode.
func Decode(r io.Reader, f Format) (*Export, error) {
	x := &Export{}
	var e error
	switch f {
	case JSON:
		e = json.NewDecoder(r).Decode(x)
	case CBOR:
		e = cbor.NewDecoder(r).Decode(x)
	default:
		e = fmt.Errorf("unknown export format %d", f)
	}
	if e != nil {
		return nil, e
	}
	return x, nil
}
