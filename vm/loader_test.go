package vm

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	vm, _ := newTestVM("")
	origin, count, err := vm.LoadImage(bytes.NewReader(image(0x3000, 0x1, 0x2, 0x3)))
	assert.NoError(err)
	assert.Equal(uint16(0x3000), origin)
	assert.Equal(3, count)

	var want [MemorySize]uint16
	want[0x3000], want[0x3001], want[0x3002] = 0x1, 0x2, 0x3
	assert.True(want == vm.memory.cells)
}

func TestLoadImageEmpty(t *testing.T) {
	assert := assert.New(t)

	vm, _ := newTestVM("")
	origin, count, err := vm.LoadImage(bytes.NewReader(image(0x4000)))
	assert.NoError(err)
	assert.Equal(uint16(0x4000), origin)
	assert.Zero(count)
}

func TestLoadImageEndOfMemory(t *testing.T) {
	assert := assert.New(t)

	vm, _ := newTestVM("")
	_, _, err := vm.LoadImage(bytes.NewReader(image(0xFFFE, 0xAAAA, 0xBBBB)))
	assert.NoError(err)
	assert.Equal(uint16(0xBBBB), vm.ReadMemory(0xFFFF))

	_, _, err = vm.LoadImage(bytes.NewReader(image(0xFFFF, 0x1, 0x2)))
	assert.ErrorIs(err, ErrImageTooLarge)
	assert.Equal(uint16(0xBBBB), vm.ReadMemory(0xFFFF))
	assert.Equal(uint16(0), vm.ReadMemory(0x0000))
}

func TestLoadImageTruncated(t *testing.T) {
	for _, data := range [][]byte{
		{},
		{0x30},
		{0x30, 0x00, 0x12},
	} {
		vm, _ := newTestVM("")
		_, _, err := vm.LoadImage(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrImageTruncated, "% x", data)
	}
}

func TestLoadImageReadError(t *testing.T) {
	assert := assert.New(t)

	vm, _ := newTestVM("")
	boom := errors.New("boom")
	_, _, err := vm.LoadImage(iotest.ErrReader(boom))
	assert.ErrorIs(err, boom)
}

func TestLoadImageFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "prog.obj")
	assert.NoError(os.WriteFile(path, image(0x3000, encTRAP(TrapHALT)), 0o644))

	vm, _ := newTestVM("")
	origin, count, err := vm.LoadImageFile(path)
	assert.NoError(err)
	assert.Equal(uint16(0x3000), origin)
	assert.Equal(1, count)
	assert.Equal(encTRAP(TrapHALT), vm.ReadMemory(0x3000))

	_, _, err = vm.LoadImageFile(filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(err, fs.ErrNotExist)

	var loadErr *ErrLoad
	assert.True(errors.As(err, &loadErr))
	assert.Equal(filepath.Join(dir, "missing.obj"), loadErr.Path)
}
