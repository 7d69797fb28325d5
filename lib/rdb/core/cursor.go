package core

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads an in-memory rdb buffer front to back.
// The buffer is never modified, slices returned by ReadBytes alias it.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor positioned at the start of buf
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the offset of the next unread byte
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the size of the whole buffer
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) require(n int) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrUnexpectedEOF, n, c.pos, c.Remaining())
	}
	return nil
}

// ReadByte returns the next byte and advances by one
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.PeekByte()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// PeekByte returns the next byte without advancing
func (c *Cursor) PeekByte() (byte, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	return c.buf[c.pos], nil
}

// ReadBytes returns the next n bytes and advances by n
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	result := c.buf[c.pos : c.pos+n]
	c.pos += n
	return result, nil
}

// Skip advances by n bytes
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) readUint16LE() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32LE reads a little-endian uint32, used by second-precision expire times
func (c *Cursor) ReadUint32LE() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64LE reads a little-endian uint64, used by millisecond expire times
func (c *Cursor) ReadUint64LE() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
