// Package terminal implements vm.Console on a pair of files, normally the
// process's stdin and stdout. When the input is a terminal it is switched
// out of canonical mode with echo disabled so that single keystrokes reach
// the VM unbuffered.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// how long a blocked read waits before checking for cancellation
const readPollInterval = 50 * time.Millisecond

type Terminal struct {
	ctx    context.Context
	input  *os.File
	output *bufio.Writer

	isTerminal             bool
	rawMode                bool
	originalTerminalConfig unix.Termios
}

// Open wraps input and output. A read blocked in ReadChar returns
// ctx.Err() once ctx is done.
func Open(ctx context.Context, input, output *os.File) *Terminal {
	return &Terminal{
		ctx:        ctx,
		input:      input,
		output:     bufio.NewWriter(output),
		isTerminal: term.IsTerminal(int(input.Fd())),
	}
}

func (t *Terminal) IsTerminal() bool {
	return t.isTerminal
}

// EnableRawMode turns off canonical input and echo. It does nothing when
// the input is not a terminal.
func (t *Terminal) EnableRawMode() error {
	if !t.isTerminal || t.rawMode {
		return nil
	}

	logrus.Debug("enabling raw mode")
	if err := termios.Tcgetattr(t.input.Fd(), &t.originalTerminalConfig); err != nil {
		return err
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	t.rawMode = true
	return nil
}

// Restore flushes pending output and puts the terminal back the way
// EnableRawMode found it.
func (t *Terminal) Restore() error {
	err := t.output.Flush()
	if !t.rawMode {
		return err
	}

	logrus.Debug("disabling raw mode")
	if rerr := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.originalTerminalConfig); rerr != nil {
		return rerr
	}
	t.rawMode = false
	return err
}

// poll waits up to timeout for input to become readable.
func (t *Terminal) poll(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.input.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
}

// CharAvailable also flushes pending output, so a program busy polling the
// keyboard still shows what it printed.
func (t *Terminal) CharAvailable() bool {
	if err := t.output.Flush(); err != nil {
		return false
	}
	ready, err := t.poll(0)
	return err == nil && ready
}

func (t *Terminal) ReadChar() (byte, error) {
	// make any prompt visible before blocking
	if err := t.output.Flush(); err != nil {
		return 0, err
	}

	for {
		if err := t.ctx.Err(); err != nil {
			return 0, err
		}

		ready, err := t.poll(readPollInterval)
		if err != nil {
			return 0, err
		}
		if !ready {
			continue
		}

		var buf [1]byte
		n, err := t.input.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
}

func (t *Terminal) WriteChar(c byte) error {
	return t.output.WriteByte(c)
}

func (t *Terminal) Flush() error {
	return t.output.Flush()
}
