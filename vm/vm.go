// Package vm emulates the LC-3: a 16-bit machine with eight general purpose
// registers, 65,536 words of memory, a memory mapped keyboard and a small
// table of trap routines for console I/O.
package vm

import (
	"context"

	"github.com/sirupsen/logrus"
)

type VM struct {
	memory memory
	cpu    cpu
}

// New creates a VM attached to console, reset to start at UserSpaceStart.
// A nil console is replaced by an empty BufferedConsole.
func New(console Console) *VM {
	if console == nil {
		console = NewBufferedConsole(nil)
	}

	vm := &VM{}
	vm.memory.console = console
	vm.cpu.memory = &vm.memory
	vm.cpu.console = console
	vm.cpu.log = logrus.NewEntry(logrus.StandardLogger())
	vm.cpu.reset(UserSpaceStart)
	return vm
}

// SetLogger replaces the log entry used for tracing and fatal errors.
func (vm *VM) SetLogger(log *logrus.Entry) {
	vm.cpu.log = log
}

// Reset clears the registers and sets the program counter to pc. Memory is
// left alone so that images loaded beforehand survive.
func (vm *VM) Reset(pc uint16) {
	vm.cpu.reset(pc)
}

// ClearMemory zeroes all of memory.
func (vm *VM) ClearMemory() {
	vm.memory.clear()
}

// Step executes a single instruction. Once the VM has halted, by HALT or
// by an error, Step does nothing and reports halted.
func (vm *VM) Step() (halted bool, err error) {
	if vm.cpu.state == StateHalted {
		return true, nil
	}
	err = vm.cpu.step()
	return vm.cpu.state == StateHalted, err
}

// Run steps until the VM halts, an instruction fails, or ctx is done.
func (vm *VM) Run(ctx context.Context) error {
	for vm.cpu.state == StateRunning {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) State() State {
	return vm.cpu.state
}

func (vm *VM) Halted() bool {
	return vm.cpu.state == StateHalted
}

// Cycles is the number of instructions fetched since the last Reset.
func (vm *VM) Cycles() uint64 {
	return vm.cpu.cycles
}

func (vm *VM) Registers() Registers {
	return vm.cpu.registers()
}

// SetRegister sets general purpose register r (0-7).
func (vm *VM) SetRegister(r uint8, value uint16) {
	vm.cpu.generalPurposeRegisters[r&0b111] = value
}

// ReadMemory returns the stored word at addr without servicing devices.
func (vm *VM) ReadMemory(addr uint16) uint16 {
	return vm.memory.peek(addr)
}

// WriteMemory stores value at addr with the same rules as a store
// instruction.
func (vm *VM) WriteMemory(addr, value uint16) {
	vm.memory.write(addr, value)
}

func (vm *VM) String() string {
	return vm.cpu.String()
}
