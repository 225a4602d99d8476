package vm

// Opcode is the top four bits of an instruction word.
type Opcode uint8

// opcodes
const (
	OpBR Opcode = iota
	OpADD
	OpLD
	OpST
	OpJSR
	OpAND
	OpLDR
	OpSTR
	OpRTI
	OpNOT
	OpLDI
	OpSTI
	OpJMP
	OpRES
	OpLEA
	OpTRAP
)

var opcodeNames = [...]string{
	OpBR:   "BR",
	OpADD:  "ADD",
	OpLD:   "LD",
	OpST:   "ST",
	OpJSR:  "JSR",
	OpAND:  "AND",
	OpLDR:  "LDR",
	OpSTR:  "STR",
	OpRTI:  "RTI",
	OpNOT:  "NOT",
	OpLDI:  "LDI",
	OpSTI:  "STI",
	OpJMP:  "JMP",
	OpRES:  "RES",
	OpLEA:  "LEA",
	OpTRAP: "TRAP",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "Opcode(?)"
}

// Instruction is a decoded instruction word. Offsets and immediates are the
// raw bit fields; callers sign extend them where the ISA requires it.
type Instruction struct {
	Raw uint16
	Op  Opcode

	DR    uint8 // bits 11-9: destination, or source for ST/STI/STR
	SR1   uint8 // bits 8-6: first source, or base register
	SR2   uint8 // bits 2-0
	BaseR uint8 // bits 8-6

	Immediate bool   // bit 5 of ADD/AND
	Imm5      uint16 // bits 4-0
	NZP       uint16 // bits 11-9 of BR
	Long      bool   // bit 11 of JSR

	PCOffset9  uint16
	PCOffset11 uint16
	Offset6    uint16

	Vector TrapVector // bits 7-0 of TRAP
}

// Decode splits an instruction word into its fields. It never fails:
// RTI and the reserved opcode decode like any other and are rejected
// when executed.
func Decode(instruction uint16) Instruction {
	in := Instruction{
		Raw: instruction,
		Op:  Opcode(instruction >> 12),
	}

	switch in.Op {
	case OpADD, OpAND:
		in.DR = uint8((instruction >> 9) & 0b111)
		in.SR1 = uint8((instruction >> 6) & 0b111)
		in.Immediate = (instruction>>5)&0b1 == 1
		in.Imm5 = instruction & 0x1F
		in.SR2 = uint8(instruction & 0b111)

	case OpNOT:
		in.DR = uint8((instruction >> 9) & 0b111)
		in.SR1 = uint8((instruction >> 6) & 0b111)

	case OpBR:
		in.NZP = (instruction >> 9) & 0b111
		in.PCOffset9 = instruction & 0x1FF

	case OpJMP:
		in.BaseR = uint8((instruction >> 6) & 0b111)

	case OpJSR:
		in.Long = (instruction>>11)&0b1 == 1
		in.PCOffset11 = instruction & 0x7FF
		in.BaseR = uint8((instruction >> 6) & 0b111)

	case OpLD, OpLDI, OpLEA, OpST, OpSTI:
		in.DR = uint8((instruction >> 9) & 0b111)
		in.PCOffset9 = instruction & 0x1FF

	case OpLDR, OpSTR:
		in.DR = uint8((instruction >> 9) & 0b111)
		in.BaseR = uint8((instruction >> 6) & 0b111)
		in.Offset6 = instruction & 0x3F

	case OpTRAP:
		in.Vector = TrapVector(instruction & 0xFF)

	case OpRTI, OpRES:
	}

	return in
}

// SignExtend widens a bitCount-wide two's complement field to 16 bits.
func SignExtend(x uint16, bitCount uint) uint16 {
	if ((x >> (bitCount - 1)) & 0b1) != 0 {
		x |= (0xFFFF << bitCount)
	}
	return x
}
