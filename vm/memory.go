package vm

const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

// keyboard status ready bit
const kbsrReady = 1 << 15

type memory struct {
	cells   [MemorySize]uint16
	console Console
}

// read returns the word at addr. The keyboard registers are serviced from
// the console: KBSR polls without blocking, KBDR blocks for a character.
func (mem *memory) read(addr uint16) (uint16, error) {
	switch addr {
	case KBSR:
		if mem.console.CharAvailable() {
			mem.cells[KBSR] = kbsrReady
		} else {
			mem.cells[KBSR] = 0
		}
	case KBDR:
		c, err := mem.console.ReadChar()
		if err != nil {
			return 0, err
		}
		mem.cells[KBDR] = uint16(c)
		mem.cells[KBSR] = 0
	}
	return mem.cells[addr], nil
}

// write stores value at addr. Writes to the keyboard registers are dropped.
func (mem *memory) write(addr, value uint16) {
	if addr == KBSR || addr == KBDR {
		return
	}
	mem.cells[addr] = value
}

// peek reads a cell without servicing devices.
func (mem *memory) peek(addr uint16) uint16 {
	return mem.cells[addr]
}

func (mem *memory) clear() {
	mem.cells = [MemorySize]uint16{}
}
