package vm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// general purpose registers
const (
	R0 = 0b000
	R1 = 0b001
	R2 = 0b010
	R3 = 0b011
	R4 = 0b100
	R5 = 0b101
	R6 = 0b110
	R7 = 0b111
)

// Flag is the condition code. Exactly one flag is set at any time.
type Flag uint16

// flags
const (
	FlagPos Flag = 0b001
	FlagZro Flag = 0b010
	FlagNeg Flag = 0b100
)

func (fl Flag) String() string {
	switch fl {
	case FlagPos:
		return "P"
	case FlagZro:
		return "Z"
	case FlagNeg:
		return "N"
	}
	return fmt.Sprintf("Flag(%03b)", uint16(fl))
}

// State of the execution engine.
type State int

const (
	StateRunning State = iota
	StateHalted
)

func (st State) String() string {
	if st == StateHalted {
		return "halted"
	}
	return "running"
}

// Registers is a snapshot of the register file.
type Registers struct {
	R    [8]uint16
	PC   uint16
	Cond Flag
}

type cpu struct {
	state             State
	memory            *memory
	console           Console
	log               *logrus.Entry
	cycles            uint64
	internalRegisters struct {
		pc   uint16
		cond Flag
	}
	generalPurposeRegisters [8]uint16
}

func (cpu *cpu) reset(pc uint16) {
	cpu.state = StateRunning
	cpu.cycles = 0
	cpu.generalPurposeRegisters = [8]uint16{}
	cpu.internalRegisters.pc = pc
	cpu.internalRegisters.cond = FlagZro
}

// step runs one fetch-decode-execute cycle. Any error other than a
// cancelled read halts the machine.
func (cpu *cpu) step() error {
	err := cpu.cycle()
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		cpu.log.WithError(err).Info("execution interrupted")
	default:
		cpu.state = StateHalted
		cpu.log.WithError(err).WithField("registers", cpu.String()).Error("execution stopped")
	}
	return err
}

func (cpu *cpu) cycle() error {
	addr := cpu.internalRegisters.pc
	instruction, err := cpu.memory.read(addr)
	if err != nil {
		return fmt.Errorf("fetch 0x%04x: %w", addr, err)
	}
	cpu.internalRegisters.pc++
	cpu.cycles++

	in := Decode(instruction)
	if cpu.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		cpu.log.WithFields(logrus.Fields{
			"pc":    fmt.Sprintf("0x%04x", addr),
			"instr": fmt.Sprintf("0x%04x", instruction),
			"op":    in.Op,
		}).Debug("step")
	}

	return cpu.execute(addr, in)
}

// execute applies in, fetched from addr, to the registers and memory. The
// program counter has already been advanced past addr.
func (cpu *cpu) execute(addr uint16, in Instruction) error {
	reg := &cpu.generalPurposeRegisters
	pc := &cpu.internalRegisters.pc

	switch in.Op {
	case OpADD:
		operand := reg[in.SR2]
		if in.Immediate {
			operand = SignExtend(in.Imm5, 5)
		}
		reg[in.DR] = reg[in.SR1] + operand
		cpu.updateFlags(in.DR)

	case OpAND:
		operand := reg[in.SR2]
		if in.Immediate {
			operand = in.Imm5
		}
		reg[in.DR] = reg[in.SR1] & operand
		cpu.updateFlags(in.DR)

	case OpNOT:
		reg[in.DR] = ^reg[in.SR1]
		cpu.updateFlags(in.DR)

	case OpBR:
		if in.NZP&uint16(cpu.internalRegisters.cond) != 0 {
			*pc += SignExtend(in.PCOffset9, 9)
		}

	case OpJMP:
		*pc = reg[in.BaseR]

	case OpJSR:
		target := reg[in.BaseR]
		if in.Long {
			target = *pc + SignExtend(in.PCOffset11, 11)
		}
		reg[R7] = *pc
		*pc = target

	case OpLD:
		value, err := cpu.memory.read(*pc + SignExtend(in.PCOffset9, 9))
		if err != nil {
			return err
		}
		reg[in.DR] = value
		cpu.updateFlags(in.DR)

	case OpLDI:
		indirect, err := cpu.memory.read(*pc + SignExtend(in.PCOffset9, 9))
		if err != nil {
			return err
		}
		value, err := cpu.memory.read(indirect)
		if err != nil {
			return err
		}
		reg[in.DR] = value
		cpu.updateFlags(in.DR)

	case OpLDR:
		value, err := cpu.memory.read(reg[in.BaseR] + SignExtend(in.Offset6, 6))
		if err != nil {
			return err
		}
		reg[in.DR] = value
		cpu.updateFlags(in.DR)

	case OpLEA:
		reg[in.DR] = *pc + SignExtend(in.PCOffset9, 9)
		cpu.updateFlags(in.DR)

	case OpST:
		cpu.memory.write(*pc+SignExtend(in.PCOffset9, 9), reg[in.DR])

	case OpSTI:
		indirect, err := cpu.memory.read(*pc + SignExtend(in.PCOffset9, 9))
		if err != nil {
			return err
		}
		cpu.memory.write(indirect, reg[in.DR])

	case OpSTR:
		cpu.memory.write(reg[in.BaseR]+SignExtend(in.Offset6, 6), reg[in.DR])

	case OpTRAP:
		routine, ok := trapRoutines[in.Vector]
		if !ok {
			return ErrIllegalTrap{Address: addr, Instruction: in.Raw}
		}
		reg[R7] = *pc
		return routine(cpu)

	case OpRTI, OpRES:
		return ErrIllegalOpcode{Address: addr, Instruction: in.Raw}
	}

	return nil
}

func (cpu *cpu) updateFlags(r uint8) {
	if cpu.generalPurposeRegisters[r] == 0 {
		cpu.internalRegisters.cond = FlagZro
	} else if cpu.generalPurposeRegisters[r]>>15 != 0 {
		cpu.internalRegisters.cond = FlagNeg
	} else {
		cpu.internalRegisters.cond = FlagPos
	}
}

func (cpu *cpu) registers() Registers {
	return Registers{
		R:    cpu.generalPurposeRegisters,
		PC:   cpu.internalRegisters.pc,
		Cond: cpu.internalRegisters.cond,
	}
}

func (cpu *cpu) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC=0x%04x COND=%v", cpu.internalRegisters.pc, cpu.internalRegisters.cond)
	for i, r := range cpu.generalPurposeRegisters {
		fmt.Fprintf(&sb, " R%d=0x%04x", i, r)
	}
	return sb.String()
}
