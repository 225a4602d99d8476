package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LoadImage reads a program image from r: a big-endian origin word followed
// by big-endian words that are placed in memory starting at the origin.
// Memory is only modified once the whole image has been read and checked.
func (vm *VM) LoadImage(r io.Reader) (origin uint16, count int, err error) {
	file, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, err
	}

	if len(file) < 2 || len(file)%2 != 0 {
		return 0, 0, ErrImageTruncated
	}

	/* the image is big endian regardless of the host byte order */
	origin = binary.BigEndian.Uint16(file)
	count = (len(file) - 2) / 2
	if int(origin)+count > MemorySize {
		return 0, 0, ErrImageTooLarge
	}

	for i := 0; i < count; i++ {
		vm.memory.cells[int(origin)+i] = binary.BigEndian.Uint16(file[2+2*i:])
	}

	vm.cpu.log.WithFields(logrus.Fields{
		"origin": fmt.Sprintf("0x%04x", origin),
		"words":  count,
	}).Info("image loaded")

	return origin, count, nil
}

// LoadImageFile loads the image stored at path.
func (vm *VM) LoadImageFile(path string) (origin uint16, count int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, &ErrLoad{Path: path, Err: err}
	}
	defer file.Close()

	origin, count, err = vm.LoadImage(file)
	if err != nil {
		return 0, 0, &ErrLoad{Path: path, Err: err}
	}
	return origin, count, nil
}
