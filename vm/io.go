package vm

import (
	"bytes"
	"io"
)

// Console is the character device the VM reads keystrokes from and writes
// output to.
type Console interface {
	// ReadChar blocks until a character is available.
	ReadChar() (byte, error)
	// CharAvailable reports, without blocking, whether ReadChar would
	// return immediately.
	CharAvailable() bool
	WriteChar(c byte) error
	Flush() error
}

// BufferedConsole is a Console backed by a scripted input queue and an
// in-memory output buffer.
type BufferedConsole struct {
	input  []byte
	Output bytes.Buffer
}

func NewBufferedConsole(input []byte) *BufferedConsole {
	return &BufferedConsole{input: append([]byte(nil), input...)}
}

// Feed queues more input.
func (bc *BufferedConsole) Feed(input ...byte) {
	bc.input = append(bc.input, input...)
}

// ReadChar returns io.EOF once the scripted input is exhausted.
func (bc *BufferedConsole) ReadChar() (byte, error) {
	if len(bc.input) == 0 {
		return 0, io.EOF
	}
	c := bc.input[0]
	bc.input = bc.input[1:]
	return c, nil
}

func (bc *BufferedConsole) CharAvailable() bool {
	return len(bc.input) > 0
}

func (bc *BufferedConsole) WriteChar(c byte) error {
	return bc.Output.WriteByte(c)
}

func (bc *BufferedConsole) Flush() error {
	return nil
}
