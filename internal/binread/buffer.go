package binread

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrOutOfBounds is returned when a read would run past the end of the
// buffer. Callers treat it as fatal for the current record or part, not
// for the whole run.
var ErrOutOfBounds = errors.New("binread: read out of bounds")

// Buffer reads little-endian primitives from an in-memory byte slice at
// absolute offsets.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the span [off, off+n). The returned slice aliases the
// underlying buffer.
func (b *Buffer) Bytes(off, n int) ([]byte, error) {
	if err := b.check(off, n); err != nil {
		return nil, err
	}
	return b.data[off : off+n], nil
}

func (b *Buffer) Uint16(off int) (uint16, error) {
	if err := b.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b.data[off:]), nil
}

func (b *Buffer) Uint32(off int) (uint32, error) {
	if err := b.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[off:]), nil
}

func (b *Buffer) Uint64(off int) (uint64, error) {
	if err := b.check(off, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b.data[off:]), nil
}

func (b *Buffer) Float32(off int) (float32, error) {
	if err := b.check(off, 4); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:])), nil
}

// CString reads a null-terminated string starting at off and returns it
// together with the number of bytes consumed (terminator included when
// present). Invalid UTF-8 sequences are replaced, never fatal.
func (b *Buffer) CString(off int) (string, int, error) {
	if off < 0 || off > len(b.data) {
		return "", 0, fmt.Errorf("%w: offset %#x, length %#x", ErrOutOfBounds, off, len(b.data))
	}
	end := off
	for end < len(b.data) && b.data[end] != 0 {
		end++
	}
	consumed := end - off
	if end < len(b.data) {
		consumed++ // terminator
	}
	s := b.data[off:end]
	if utf8.Valid(s) {
		return string(s), consumed, nil
	}
	return strings.ToValidUTF8(string(s), string(utf8.RuneError)), consumed, nil
}

func (b *Buffer) check(off, n int) error {
	if off < 0 || n < 0 || off+n > len(b.data) {
		return fmt.Errorf("%w: offset %#x size %d, length %#x", ErrOutOfBounds, off, n, len(b.data))
	}
	return nil
}
