// Package mepa implements MEPA, the stack machine LALG programs are translated to.
//
// Machine memory M is a fixed-capacity stack with top index s, D is the display
// of frame base addresses indexed by lexical level, k is the current level and
// i is the program counter. Faults (underflow, out-of-range addresses, reads of
// unset slots, division by zero) are reported as traps and halt the machine.
package mepa

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ava12/lalg"
)

// Config sets machine capacities, zero fields get defaults.
type Config struct {
	MemorySize int
	Levels     int
}

// Default capacities.
const (
	DefaultMemorySize = 1024
	DefaultLevels     = 16
)

// DefaultConfig returns default capacities.
func DefaultConfig() Config {
	return Config{MemorySize: DefaultMemorySize, Levels: DefaultLevels}
}

func (c Config) withDefaults() Config {
	if c.MemorySize <= 0 {
		c.MemorySize = DefaultMemorySize
	}
	if c.Levels <= 0 {
		c.Levels = DefaultLevels
	}
	return c
}

// Command is a single program instruction.
type Command struct {
	Name   string
	Params []int
}

func (c Command) String() string {
	res := c.Name
	for _, p := range c.Params {
		res += fmt.Sprintf(" %d", p)
	}
	return res
}

// State is a snapshot of machine registers and memory.
// Memory holds slots 0 to S, unset slots are zeros.
type State struct {
	Memory  []int
	Display []int
	S, K, I int
	Halted  bool
	Steps   int
}

// Machine is a MEPA interpreter. Machine is not safe for concurrent use.
type Machine struct {
	cfg     Config
	console Console
	log     lalg.Logger

	program []Command
	code    []*instruction

	m      []int
	set    []bool
	d      []int
	s      int
	k      int
	i      int
	next   int
	halted bool
	steps  int
}

// New creates a machine with empty program. console may be nil if the program does no I/O.
func New(cfg Config, console Console) *Machine {
	cfg = cfg.withDefaults()
	m := &Machine{
		cfg:     cfg,
		console: console,
		m:       make([]int, cfg.MemorySize),
		set:     make([]bool, cfg.MemorySize),
		d:       make([]int, cfg.Levels),
	}
	m.Restart()
	return m
}

// SetLogger enables instruction tracing at Debug level, nil disables logging.
func (m *Machine) SetLogger(l *slog.Logger) {
	m.log = lalg.NewLogger(l, "mepa")
}

// Config returns effective configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// Program returns a copy of loaded program.
func (m *Machine) Program() []Command {
	res := make([]Command, len(m.program))
	for i, c := range m.program {
		res[i] = Command{c.Name, append([]int(nil), c.Params...)}
	}
	return res
}

// Restart clears memory and registers keeping loaded program.
func (m *Machine) Restart() {
	clear(m.m)
	clear(m.set)
	clear(m.d)
	m.s = -1
	m.k = 0
	m.i = 0
	m.halted = false
	m.steps = 0
}

// Reset restarts the machine and unloads program.
func (m *Machine) Reset() {
	m.program = nil
	m.code = nil
	m.Restart()
}

// Halted reports whether the machine stopped on PARA or on a trap.
func (m *Machine) Halted() bool {
	return m.halted
}

// State returns a snapshot of registers and memory.
func (m *Machine) State() State {
	mem := make([]int, m.s+1)
	copy(mem, m.m)
	return State{
		Memory:  mem,
		Display: append([]int(nil), m.d...),
		S:       m.s,
		K:       m.k,
		I:       m.i,
		Halted:  m.halted,
		Steps:   m.steps,
	}
}

// Run executes one instruction at i.
// Once the machine has halted it returns ErrHalted until Restart or Reset.
// A trap halts the machine, the program counter is left at the faulting instruction.
func (m *Machine) Run() (halted bool, err error) {
	if m.halted {
		return true, ErrHalted
	}
	if m.i < 0 || m.i >= len(m.code) {
		return true, m.fail(m.trap(TrapAddressRange, "program counter %d", m.i))
	}

	ins, c := m.code[m.i], &m.program[m.i]
	if m.log.Enabled(slog.LevelDebug) {
		m.log.Debug("exec", slog.Int("i", m.i), slog.String("command", c.String()), slog.Int("s", m.s))
	}

	m.next = m.i + 1
	m.steps++
	if e := ins.exec(m, c.Params); e != nil {
		return true, m.fail(e)
	}

	m.i = m.next
	if m.halted {
		m.log.Info("halted", slog.Int("steps", m.steps), slog.Int("s", m.s))
	}
	return m.halted, nil
}

// RunAll runs the program until it halts. limit caps the number of executed
// instructions, non-positive limit means no cap.
func (m *Machine) RunAll(limit int) (steps int, err error) {
	for limit <= 0 || steps < limit {
		halted, e := m.Run()
		if errors.Is(e, ErrHalted) {
			return steps, nil
		}
		steps++
		if e != nil || halted {
			return steps, e
		}
	}
	return steps, fmt.Errorf("%w: %d", ErrStepLimit, limit)
}

func (m *Machine) fail(e error) error {
	m.halted = true
	m.log.Warn("trap", slog.Int("i", m.i), slog.String("error", e.Error()))
	return e
}

func (m *Machine) trap(code int, detail string, params ...any) *lalg.Error {
	if len(params) > 0 {
		detail = fmt.Sprintf(detail, params...)
	}
	if detail == "" {
		return lalg.FormatErrorSpan(lalg.NoSpan, path, code, "at %d", m.i)
	}
	return lalg.FormatErrorSpan(lalg.NoSpan, path, code, "%s at %d", detail, m.i)
}

func (m *Machine) push(v int) error {
	if m.s+1 >= len(m.m) {
		return m.trap(TrapAddressRange, "stack overflow")
	}
	m.s++
	m.m[m.s] = v
	m.set[m.s] = true
	return nil
}

func (m *Machine) pop() (int, error) {
	if m.s < 0 {
		return 0, m.trap(TrapStackUnderflow, "")
	}
	v, e := m.load(m.s)
	if e != nil {
		return 0, e
	}
	m.release(m.s - 1)
	return v, nil
}

// release lowers stack top to s, freed slots become unset.
func (m *Machine) release(s int) error {
	if s < -1 {
		return m.trap(TrapStackUnderflow, "")
	}
	for j := s + 1; j <= m.s; j++ {
		m.set[j] = false
	}
	m.s = s
	return nil
}

func (m *Machine) load(addr int) (int, error) {
	if addr < 0 || addr >= len(m.m) {
		return 0, m.trap(TrapAddressRange, "address %d", addr)
	}
	if !m.set[addr] {
		return 0, m.trap(TrapUnsetSlot, "address %d", addr)
	}
	return m.m[addr], nil
}

func (m *Machine) store(addr, v int) error {
	if addr < 0 || addr >= len(m.m) {
		return m.trap(TrapAddressRange, "address %d", addr)
	}
	m.m[addr] = v
	m.set[addr] = true
	return nil
}

func (m *Machine) checkLevel(l int) error {
	if l < 0 || l >= len(m.d) {
		return m.trap(TrapLevelRange, "level %d", l)
	}
	return nil
}

// addr returns D[l] + offset.
func (m *Machine) addr(l, offset int) (int, error) {
	if e := m.checkLevel(l); e != nil {
		return 0, e
	}
	return m.d[l] + offset, nil
}

func (m *Machine) inpp(_ []int) error {
	m.release(-1)
	m.k = 0
	m.d[0] = 0
	return nil
}

func (m *Machine) amem(p []int) error {
	if m.s+p[0] >= len(m.m) {
		return m.trap(TrapAddressRange, "stack overflow")
	}
	m.s += p[0]
	return nil
}

func (m *Machine) dmem(p []int) error {
	return m.release(m.s - p[0])
}

func (m *Machine) crvl(p []int) error {
	a, e := m.addr(p[0], p[1])
	if e != nil {
		return e
	}
	v, e := m.load(a)
	if e != nil {
		return e
	}
	return m.push(v)
}

func (m *Machine) armz(p []int) error {
	a, e := m.addr(p[0], p[1])
	if e != nil {
		return e
	}
	v, e := m.pop()
	if e != nil {
		return e
	}
	return m.store(a, v)
}

func (m *Machine) cren(p []int) error {
	a, e := m.addr(p[0], p[1])
	if e != nil {
		return e
	}
	return m.push(a)
}

// indirect returns M[D[l] + offset].
func (m *Machine) indirect(p []int) (int, error) {
	a, e := m.addr(p[0], p[1])
	if e != nil {
		return 0, e
	}
	return m.load(a)
}

func (m *Machine) crvi(p []int) error {
	a, e := m.indirect(p)
	if e != nil {
		return e
	}
	v, e := m.load(a)
	if e != nil {
		return e
	}
	return m.push(v)
}

func (m *Machine) armi(p []int) error {
	a, e := m.indirect(p)
	if e != nil {
		return e
	}
	v, e := m.pop()
	if e != nil {
		return e
	}
	return m.store(a, v)
}

func (m *Machine) divi(_ []int) error {
	b, e := m.pop()
	if e != nil {
		return e
	}
	a, e := m.pop()
	if e != nil {
		return e
	}
	if b == 0 {
		return m.trap(TrapDivisionByZero, "")
	}
	return m.push(a / b)
}

func (m *Machine) dsvf(p []int) error {
	v, e := m.pop()
	if e != nil {
		return e
	}
	if v == 0 {
		m.next = p[0]
	}
	return nil
}

// chpr pushes return address, D[k] and k, then enters level p[1] at address p[0].
func (m *Machine) chpr(p []int) error {
	if e := m.checkLevel(p[1]); e != nil {
		return e
	}
	for _, v := range []int{m.i + 1, m.d[m.k], m.k} {
		if e := m.push(v); e != nil {
			return e
		}
	}
	m.k = p[1]
	m.next = p[0]
	return nil
}

// enpr saves D[p[0]] and points it to the first local slot.
func (m *Machine) enpr(p []int) error {
	if e := m.checkLevel(p[0]); e != nil {
		return e
	}
	if e := m.push(m.d[p[0]]); e != nil {
		return e
	}
	m.d[p[0]] = m.s + 1
	return nil
}

// rtpr unwinds the frame built by chpr and enpr, dropping p[0] parameters.
// Locals must be already released, so s points to the slot saved by enpr.
func (m *Machine) rtpr(p []int) error {
	var saved [4]int // D[k], k, caller's D[k], return address
	for j := range saved {
		v, e := m.load(m.s - j)
		if e != nil {
			return e
		}
		saved[j] = v
	}
	if e := m.checkLevel(saved[1]); e != nil {
		return e
	}
	top := m.s - p[0] - 4
	if top < -1 {
		return m.trap(TrapStackUnderflow, "")
	}

	m.d[m.k] = saved[0]
	m.k = saved[1]
	m.d[m.k] = saved[2]
	m.next = saved[3]
	return m.release(top)
}

// ipvl swaps p[1] words starting at address p[0] with the top p[1] stack words.
func (m *Machine) ipvl(p []int) error {
	base, n := p[0], p[1]
	if n == 0 {
		return nil
	}
	top := m.s - n + 1
	if top < 0 {
		return m.trap(TrapStackUnderflow, "")
	}
	if base+n-1 > m.s {
		return m.trap(TrapAddressRange, "address %d", base+n-1)
	}

	for j := 0; j < n; j++ {
		a, b := base+j, top+j
		m.m[a], m.m[b] = m.m[b], m.m[a]
		m.set[a], m.set[b] = m.set[b], m.set[a]
	}
	return nil
}

func (m *Machine) impr(_ []int) error {
	v, e := m.pop()
	if e != nil {
		return e
	}
	if m.console == nil {
		return m.trap(TrapConsole, "no console")
	}
	if e := m.console.Print(v); e != nil {
		return fmt.Errorf("%w: %w", m.trap(TrapConsole, "print"), e)
	}
	return nil
}

func (m *Machine) leit(_ []int) error {
	if m.console == nil {
		return m.trap(TrapConsole, "no console")
	}
	v, e := m.console.Read()
	if e != nil {
		return fmt.Errorf("%w: %w", m.trap(TrapConsole, "read"), e)
	}
	return m.push(v)
}
