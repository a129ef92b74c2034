package mepa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ava12/lalg"
)

// maxParams is the largest number of parameters accepted by text loader.
const maxParams = 3

// Load validates and loads program, restarting the machine.
// All load errors are joined in the result; on error the machine is left with no program.
func (m *Machine) Load(program []Command) error {
	spans := make([]lalg.Span, len(program))
	for i := range spans {
		spans[i] = lalg.NoSpan
	}
	return m.install(program, spans, nil)
}

// LoadText reads one instruction per line ("NAME [p1 [p2 [p3]]]") and loads them.
// Leading blank lines are skipped, the first blank line after an instruction ends the program.
func (m *Machine) LoadText(r io.Reader) error {
	var (
		program []Command
		spans   []lalg.Span
		errs    []error
	)

	sc := bufio.NewScanner(r)
	for row := 0; sc.Scan(); row++ {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			if len(program) > 0 {
				break
			}
			continue
		}

		span := lalg.LineSpan(row, 0, len([]rune(line)))
		c := Command{Name: fields[0]}
		if len(fields) > maxParams+1 {
			errs = append(errs, lalg.FormatErrorSpan(span, path, LoadParamCount, "at most %d parameters allowed", maxParams))
		}
		for _, f := range fields[1:] {
			v, e := strconv.Atoi(f)
			if e != nil {
				errs = append(errs, lalg.FormatErrorSpan(span, path, LoadBadParam, "%q is not an integer", f))
			}
			c.Params = append(c.Params, v)
		}
		program = append(program, c)
		spans = append(spans, span)
	}
	if e := sc.Err(); e != nil {
		return fmt.Errorf("mepa: reading program: %w", e)
	}

	return m.install(program, spans, errs)
}

func (m *Machine) install(program []Command, spans []lalg.Span, errs []error) error {
	m.Reset()
	p := make([]Command, len(program))
	code := make([]*instruction, len(program))
	for i, c := range program {
		p[i] = Command{strings.ToUpper(c.Name), append([]int(nil), c.Params...)}
		ins, e := m.resolve(i, len(program), p[i], spans[i])
		if e != nil {
			errs = append(errs, e)
		}
		code[i] = ins
	}

	if len(errs) > 0 {
		m.log.Warn("program rejected", slog.Int("errors", len(errs)))
		return errors.Join(errs...)
	}

	m.program, m.code = p, code
	m.log.Info("program loaded", slog.Int("commands", len(p)))
	return nil
}

func (m *Machine) resolve(i, size int, c Command, span lalg.Span) (*instruction, error) {
	ins := catalog[c.Name]
	if ins == nil {
		if s := Suggest(c.Name); s != "" {
			return nil, lalg.FormatErrorSpan(span, path, LoadUnknownInstruction, "%q at %d, did you mean %s?", c.Name, i, s)
		}
		return nil, lalg.FormatErrorSpan(span, path, LoadUnknownInstruction, "%q at %d", c.Name, i)
	}

	if len(c.Params) != len(ins.params) {
		return nil, lalg.FormatErrorSpan(span, path, LoadParamCount, "%s at %d takes %d, got %d", c.Name, i, len(ins.params), len(c.Params))
	}

	for j, kind := range ins.params {
		v := c.Params[j]
		var ok bool
		switch kind {
		case count:
			ok = v >= 0
		case level:
			ok = v >= 0 && v < m.cfg.Levels
		case label:
			ok = v >= 0 && v < size
		default:
			ok = true
		}
		if !ok {
			return nil, lalg.FormatErrorSpan(span, path, LoadBadParam, "%s at %d: parameter %d = %d", c.Name, i, j+1, v)
		}
	}
	return ins, nil
}
