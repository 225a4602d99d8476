package vm

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newTestVM returns a VM with a silent logger and the given keyboard input.
func newTestVM(input string) (*VM, *BufferedConsole) {
	console := NewBufferedConsole([]byte(input))
	vm := New(console)

	log := logrus.New()
	log.Out = io.Discard
	vm.SetLogger(logrus.NewEntry(log))
	return vm, console
}

// loadProgram stores words from origin onwards and points the PC at origin.
func loadProgram(vm *VM, origin uint16, words ...uint16) {
	for i, w := range words {
		vm.WriteMemory(origin+uint16(i), w)
	}
	vm.Reset(origin)
}

func encADD(dr, sr1, sr2 uint16) uint16 {
	return uint16(OpADD)<<12 | dr<<9 | sr1<<6 | sr2
}

func encADDImm(dr, sr1 uint16, imm int) uint16 {
	return uint16(OpADD)<<12 | dr<<9 | sr1<<6 | 1<<5 | uint16(imm)&0x1F
}

func encAND(dr, sr1, sr2 uint16) uint16 {
	return uint16(OpAND)<<12 | dr<<9 | sr1<<6 | sr2
}

func encANDImm(dr, sr1 uint16, imm int) uint16 {
	return uint16(OpAND)<<12 | dr<<9 | sr1<<6 | 1<<5 | uint16(imm)&0x1F
}

func encNOT(dr, sr uint16) uint16 {
	return uint16(OpNOT)<<12 | dr<<9 | sr<<6 | 0x3F
}

func encBR(nzp uint16, offset int) uint16 {
	return uint16(OpBR)<<12 | nzp<<9 | uint16(offset)&0x1FF
}

func encJMP(baseR uint16) uint16 {
	return uint16(OpJMP)<<12 | baseR<<6
}

func encJSR(offset int) uint16 {
	return uint16(OpJSR)<<12 | 1<<11 | uint16(offset)&0x7FF
}

func encJSRR(baseR uint16) uint16 {
	return uint16(OpJSR)<<12 | baseR<<6
}

func encPCRel(op Opcode, r uint16, offset int) uint16 {
	return uint16(op)<<12 | r<<9 | uint16(offset)&0x1FF
}

func encBaseRel(op Opcode, r, baseR uint16, offset int) uint16 {
	return uint16(op)<<12 | r<<9 | baseR<<6 | uint16(offset)&0x3F
}

func encTRAP(vector TrapVector) uint16 {
	return uint16(OpTRAP)<<12 | uint16(vector)
}

// image builds a big-endian program image.
func image(origin uint16, words ...uint16) []byte {
	out := []byte{byte(origin >> 8), byte(origin)}
	for _, w := range words {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}
