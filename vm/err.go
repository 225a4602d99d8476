package vm

import (
	"errors"

	"github.com/aryanA101a/lulu/internal/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageTruncated = errors.New(f("image truncated"))
	ErrImageTooLarge  = errors.New(f("image exceeds memory"))

	// ErrFatalDecode matches every instruction the engine refuses to execute.
	ErrFatalDecode = errors.New(f("fatal decode"))
)

// ErrIllegalOpcode reports an RTI or reserved instruction.
type ErrIllegalOpcode struct {
	Address     uint16 // Address the instruction was fetched from.
	Instruction uint16 // Raw instruction word.
}

func (err ErrIllegalOpcode) Error() string {
	return f("illegal opcode %v at 0x%04x (instruction 0x%04x)", Decode(err.Instruction).Op, err.Address, err.Instruction)
}

func (err ErrIllegalOpcode) Is(target error) bool {
	if target == ErrFatalDecode {
		return true
	}
	_, ok := target.(ErrIllegalOpcode)
	return ok
}

// ErrIllegalTrap reports a TRAP with a vector outside the dispatch table.
type ErrIllegalTrap struct {
	Address     uint16
	Instruction uint16
}

func (err ErrIllegalTrap) Error() string {
	return f("unknown trap vector 0x%02x at 0x%04x (instruction 0x%04x)", err.Instruction&0xFF, err.Address, err.Instruction)
}

func (err ErrIllegalTrap) Is(target error) bool {
	if target == ErrFatalDecode {
		return true
	}
	_, ok := target.(ErrIllegalTrap)
	return ok
}

// ErrLoad indicates which image failed to load.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
