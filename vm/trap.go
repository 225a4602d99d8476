package vm

import (
	"fmt"
)

// TrapVector selects a system routine for the TRAP instruction.
type TrapVector uint8

const (
	TrapGETC  TrapVector = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TrapOUT   TrapVector = 0x21 /* output a character */
	TrapPUTS  TrapVector = 0x22 /* output a word string */
	TrapIN    TrapVector = 0x23 /* get character from keyboard, echoed onto the terminal */
	TrapPUTSP TrapVector = 0x24 /* output a byte string */
	TrapHALT  TrapVector = 0x25 /* halt the program */
)

// InPrompt is written by the IN trap before it waits for a key.
const InPrompt = "Enter a character: "

func (tv TrapVector) String() string {
	switch tv {
	case TrapGETC:
		return "GETC"
	case TrapOUT:
		return "OUT"
	case TrapPUTS:
		return "PUTS"
	case TrapIN:
		return "IN"
	case TrapPUTSP:
		return "PUTSP"
	case TrapHALT:
		return "HALT"
	}
	return fmt.Sprintf("TrapVector(0x%02x)", uint8(tv))
}

// Valid reports whether tv has a routine.
func (tv TrapVector) Valid() bool {
	_, ok := trapRoutines[tv]
	return ok
}

type trapRoutine func(cpu *cpu) error

var trapRoutines = map[TrapVector]trapRoutine{
	TrapGETC:  (*cpu).trapGetc,
	TrapOUT:   (*cpu).trapOut,
	TrapPUTS:  (*cpu).trapPuts,
	TrapIN:    (*cpu).trapIn,
	TrapPUTSP: (*cpu).trapPutsp,
	TrapHALT:  (*cpu).trapHalt,
}

func (cpu *cpu) trapGetc() error {
	c, err := cpu.console.ReadChar()
	if err != nil {
		return fmt.Errorf("trap GETC: %w", err)
	}
	cpu.generalPurposeRegisters[R0] = uint16(c)
	cpu.updateFlags(R0)
	return nil
}

func (cpu *cpu) trapOut() error {
	if err := cpu.console.WriteChar(byte(cpu.generalPurposeRegisters[R0])); err != nil {
		return fmt.Errorf("trap OUT: %w", err)
	}
	return nil
}

func (cpu *cpu) trapPuts() error {
	addr := cpu.generalPurposeRegisters[R0]

	for i := 0; i < MemorySize; i++ {
		c := cpu.memory.peek(addr)
		if c == 0 {
			break
		}
		if err := cpu.console.WriteChar(byte(c)); err != nil {
			return fmt.Errorf("trap PUTS: %w", err)
		}
		addr++
	}
	return nil
}

func (cpu *cpu) trapIn() error {
	for i := 0; i < len(InPrompt); i++ {
		if err := cpu.console.WriteChar(InPrompt[i]); err != nil {
			return fmt.Errorf("trap IN: %w", err)
		}
	}
	if err := cpu.console.Flush(); err != nil {
		return fmt.Errorf("trap IN: %w", err)
	}

	c, err := cpu.console.ReadChar()
	if err != nil {
		return fmt.Errorf("trap IN: %w", err)
	}
	if err := cpu.console.WriteChar(c); err != nil {
		return fmt.Errorf("trap IN: %w", err)
	}

	cpu.generalPurposeRegisters[R0] = uint16(c)
	cpu.updateFlags(R0)
	return nil
}

// trapPutsp writes two characters per word, low byte first. A zero byte
// ends the string.
func (cpu *cpu) trapPutsp() error {
	addr := cpu.generalPurposeRegisters[R0]

	for i := 0; i < MemorySize; i++ {
		w := cpu.memory.peek(addr)
		lo, hi := byte(w), byte(w>>8)
		if lo == 0 {
			break
		}
		if err := cpu.console.WriteChar(lo); err != nil {
			return fmt.Errorf("trap PUTSP: %w", err)
		}
		if hi == 0 {
			break
		}
		if err := cpu.console.WriteChar(hi); err != nil {
			return fmt.Errorf("trap PUTSP: %w", err)
		}
		addr++
	}
	return nil
}

func (cpu *cpu) trapHalt() error {
	cpu.state = StateHalted
	cpu.log.WithField("cycles", cpu.cycles).Info("HALT")
	if err := cpu.console.Flush(); err != nil {
		return fmt.Errorf("trap HALT: %w", err)
	}
	return nil
}
