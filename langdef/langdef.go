/*
Package langdef describes lexical structure of a language: alphabet, dividers, reserved words,
and comment marker. Definitions are loaded from JSON documents validated against embedded JSON Schema.

Definition JSON looks like:

	{
	  "name": "LALG",
	  "alphabet": ["a-z", "A-Z", "0-9", "_", ".", "{", "}"],
	  "dividers": [" ", ";", ":", "(", ")"],
	  "reservedWords": [{"token": "program", "class": "reserved-word"}],
	  "lineComment": "/",
	  "maxIdentifierLength": 15,
	  "maxNaturalLength": 8
	}

Alphabet entries are either single characters or inclusive ranges like "a-z".
Dividers are added to alphabet implicitly.
*/
package langdef

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Default limits.
const (
	MaxIdentifierLength = 15
	MaxNaturalLength    = 8
)

// Classes of LALG reserved words used by Default definition.
const (
	ReservedClass       = "reserved-word"
	TypeClass           = "type"
	TrueClass           = "boolean-true"
	FalseClass          = "boolean-false"
	AssignClass         = "assignment"
	RelationalClass     = "relational-operator"
	AdditiveClass       = "additive-operator"
	MultiplicativeClass = "multiplicative-operator"
	NegationClass       = "negation"
	SeparatorClass      = "statement-separator"
	DelimiterClass      = "delimiter"
)

//go:embed schema.json
var schemaText string

const schemaURL = "lalg://langdef.json"

var ErrInvalid = errors.New("invalid language definition")

// ReservedWord maps exact lexeme to token class.
type ReservedWord struct {
	Token string `json:"token"`
	Class string `json:"class"`
}

// Definition is a language definition consumed by lexer.
type Definition struct {
	Name                string         `json:"name"`
	Alphabet            []string       `json:"alphabet"`
	Dividers            []string       `json:"dividers"`
	ReservedWords       []ReservedWord `json:"reservedWords"`
	LineComment         string         `json:"lineComment,omitempty"`
	MaxIdentifierLength int            `json:"maxIdentifierLength,omitempty"`
	MaxNaturalLength    int            `json:"maxNaturalLength,omitempty"`
}

func isChar(s string) bool {
	return s != "" && utf8.RuneCountInString(s) == 1
}

func isCharset(s string) bool {
	if isChar(s) {
		return true
	}

	rs := []rune(s)
	return len(rs) == 3 && rs[1] == '-' && rs[0] <= rs[2]
}

func stringFormat(f func(string) bool) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return true
		}
		return f(s)
	}
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(any) bool)
	}
	compiler.Formats["char"] = stringFormat(isChar)
	compiler.Formats["charset"] = stringFormat(isCharset)

	if e := compiler.AddResource(schemaURL, strings.NewReader(schemaText)); e != nil {
		return nil, e
	}
	return compiler.Compile(schemaURL)
}

// Load reads, validates, and decodes JSON definition. Missing limits get default values.
func Load(r io.Reader) (*Definition, error) {
	data, e := io.ReadAll(r)
	if e != nil {
		return nil, fmt.Errorf("reading language definition: %w", e)
	}

	var doc any
	if e = json.Unmarshal(data, &doc); e != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, e)
	}

	schema, e := compileSchema()
	if e != nil {
		return nil, fmt.Errorf("compiling language definition schema: %w", e)
	}

	if e = schema.Validate(doc); e != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, e)
	}

	def := &Definition{}
	if e = json.Unmarshal(data, def); e != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, e)
	}

	def.fillDefaults()
	if e = def.Validate(); e != nil {
		return nil, e
	}
	return def, nil
}

// LoadFile loads definition from a file.
func LoadFile(name string) (*Definition, error) {
	f, e := os.Open(name)
	if e != nil {
		return nil, e
	}
	defer f.Close()

	def, e := Load(f)
	if e != nil {
		return nil, fmt.Errorf("%s: %w", name, e)
	}
	return def, nil
}

func (d *Definition) fillDefaults() {
	if d.MaxIdentifierLength == 0 {
		d.MaxIdentifierLength = MaxIdentifierLength
	}
	if d.MaxNaturalLength == 0 {
		d.MaxNaturalLength = MaxNaturalLength
	}
}

// Validate checks constraints that schema cannot express.
func (d *Definition) Validate() error {
	seen := make(map[string]bool, len(d.ReservedWords))
	for _, rw := range d.ReservedWords {
		if seen[rw.Token] {
			return fmt.Errorf("%w: duplicate reserved word %q", ErrInvalid, rw.Token)
		}
		seen[rw.Token] = true
	}

	for _, c := range d.Alphabet {
		if !isCharset(c) {
			return fmt.Errorf("%w: bad alphabet entry %q", ErrInvalid, c)
		}
	}
	for _, c := range d.Dividers {
		if !isChar(c) {
			return fmt.Errorf("%w: bad divider %q", ErrInvalid, c)
		}
	}
	if d.LineComment != "" && !isChar(d.LineComment) {
		return fmt.Errorf("%w: bad line comment marker %q", ErrInvalid, d.LineComment)
	}
	return nil
}

// AlphabetRunes returns expanded alphabet including dividers, in definition order without duplicates.
func (d *Definition) AlphabetRunes() []rune {
	var res []rune
	seen := make(map[rune]bool)
	add := func(r rune) {
		if !seen[r] {
			seen[r] = true
			res = append(res, r)
		}
	}

	for _, c := range d.Alphabet {
		rs := []rune(c)
		if len(rs) == 3 && rs[1] == '-' {
			for r := rs[0]; r <= rs[2]; r++ {
				add(r)
			}
		} else if len(rs) > 0 {
			add(rs[0])
		}
	}
	for _, r := range d.DividerRunes() {
		add(r)
	}
	return res
}

// DividerRunes returns dividers as runes.
func (d *Definition) DividerRunes() []rune {
	res := make([]rune, 0, len(d.Dividers))
	for _, c := range d.Dividers {
		r, _ := utf8.DecodeRuneInString(c)
		res = append(res, r)
	}
	return res
}

// Class returns class of reserved word.
func (d *Definition) Class(token string) (string, bool) {
	for _, rw := range d.ReservedWords {
		if rw.Token == token {
			return rw.Class, true
		}
	}
	return "", false
}

// Copy returns a deep copy.
func (d *Definition) Copy() *Definition {
	res := *d
	res.Alphabet = append([]string(nil), d.Alphabet...)
	res.Dividers = append([]string(nil), d.Dividers...)
	res.ReservedWords = append([]ReservedWord(nil), d.ReservedWords...)
	return &res
}

// MarshalIndent encodes definition as JSON accepted by Load.
func (d *Definition) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Default returns a fresh LALG definition.
// Built-in procedures read and write are ordinary identifiers, not reserved words.
func Default() *Definition {
	rw := func(class string, tokens ...string) []ReservedWord {
		res := make([]ReservedWord, len(tokens))
		for i, t := range tokens {
			res[i] = ReservedWord{t, class}
		}
		return res
	}

	var words []ReservedWord
	words = append(words, rw(ReservedClass, "program", "procedure", "var", "begin", "end", "if", "then", "else", "while", "do")...)
	words = append(words, rw(TypeClass, "int", "boolean")...)
	words = append(words, rw(TrueClass, "true")...)
	words = append(words, rw(FalseClass, "false")...)
	words = append(words, rw(AssignClass, ":=")...)
	words = append(words, rw(RelationalClass, "=", "<>", "<", "<=", ">=", ">")...)
	words = append(words, rw(AdditiveClass, "+", "-", "or")...)
	words = append(words, rw(MultiplicativeClass, "*", "div", "and")...)
	words = append(words, rw(NegationClass, "not")...)
	words = append(words, rw(SeparatorClass, ";")...)
	words = append(words, rw(DelimiterClass, ",", ".", ":", "(", ")", "[", "]")...)

	return &Definition{
		Name:                "LALG",
		Alphabet:            []string{"a-z", "A-Z", "0-9", "_", ".", "{", "}"},
		Dividers:            []string{" ", "\t", ";", ",", "(", ")", "[", "]", ":", "+", "-", "*", "=", "<", ">"},
		ReservedWords:       words,
		LineComment:         "/",
		MaxIdentifierLength: MaxIdentifierLength,
		MaxNaturalLength:    MaxNaturalLength,
	}
}
