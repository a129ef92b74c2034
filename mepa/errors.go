package mepa

import (
	"errors"

	"github.com/ava12/lalg"
)

// Load error codes.
const (
	LoadUnknownInstruction = lalg.MachineErrors + iota
	LoadParamCount
	LoadBadParam
)

// Runtime trap codes.
const (
	TrapHalted = lalg.MachineErrors + 10 + iota
	TrapStackUnderflow
	TrapAddressRange
	TrapUnsetSlot
	TrapDivisionByZero
	TrapConsole
	TrapLevelRange
)

var path = []string{"mepa"}

func sentinel(code int, desc string) *lalg.Error {
	lalg.RegisterDescription(code, desc)
	return lalg.NewError(code, lalg.NoSpan, "", path...)
}

// Sentinel values matching load errors and traps of the same code with errors.Is.
var (
	ErrUnknownInstruction = sentinel(LoadUnknownInstruction, "unknown instruction")
	ErrParamCount         = sentinel(LoadParamCount, "wrong number of parameters")
	ErrBadParam           = sentinel(LoadBadParam, "invalid parameter")

	ErrHalted         = sentinel(TrapHalted, "machine is halted")
	ErrStackUnderflow = sentinel(TrapStackUnderflow, "stack underflow")
	ErrAddressRange   = sentinel(TrapAddressRange, "address out of range")
	ErrUnsetSlot      = sentinel(TrapUnsetSlot, "read of unset memory slot")
	ErrDivisionByZero = sentinel(TrapDivisionByZero, "division by zero")
	ErrConsole        = sentinel(TrapConsole, "console failure")
	ErrLevelRange     = sentinel(TrapLevelRange, "lexical level out of range")
)

// ErrStepLimit is returned by RunAll when the machine is still running after the limit.
var ErrStepLimit = errors.New("mepa: step limit exceeded")

// IsTrap reports whether err is a runtime trap.
func IsTrap(err error) bool {
	var e *lalg.Error
	return errors.As(err, &e) && e.Code >= TrapHalted && e.Code < lalg.MachineErrors+100
}
