package core

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const (
	len6Bit      = 0
	len14Bit     = 1
	len32or64Bit = 2
	lenSpecial   = 3
	len32Bit     = 0x80
	len64Bit     = 0x81

	encodeInt8  = 0
	encodeInt16 = 1
	encodeInt32 = 2
	encodeLZF   = 3
)

// ReadLength parses Length Encoding.
// If special is true the low 6 bits of the first byte are returned and name a string encoding
// see: https://github.com/sripathikrishnan/redis-rdb-tools/wiki/Redis-RDB-Dump-File-Format#length-encoding
func (c *Cursor) ReadLength() (length uint64, special bool, err error) {
	firstByte, err := c.ReadByte()
	if err != nil {
		return 0, false, err
	}
	lenType := (firstByte & 0xc0) >> 6 // get first 2 bits
	switch lenType {
	case len6Bit:
		length = uint64(firstByte) & 0x3f
	case len14Bit:
		nextByte, err := c.ReadByte()
		if err != nil {
			return 0, false, err
		}
		length = (uint64(firstByte)&0x3f)<<8 | uint64(nextByte)
	case len32or64Bit:
		switch firstByte {
		case len32Bit:
			b, err := c.ReadBytes(4)
			if err != nil {
				return 0, false, err
			}
			length = uint64(binary.BigEndian.Uint32(b))
		case len64Bit:
			b, err := c.ReadBytes(8)
			if err != nil {
				return 0, false, err
			}
			length = binary.BigEndian.Uint64(b)
		default:
			return 0, false, fmt.Errorf("%w: illegal length prefix 0x%02x at offset %d", ErrInvalidEncoding, firstByte, c.pos-1)
		}
	case lenSpecial:
		special = true
		length = uint64(firstByte) & 0x3f
	}
	return length, special, nil
}

// readLengthInt reads a length encoded integer, special string encodings are not allowed here
func (c *Cursor) readLengthInt() (uint64, error) {
	start := c.pos
	n, special, err := c.ReadLength()
	if err != nil {
		return 0, err
	}
	if special {
		return 0, fmt.Errorf("%w: expect length at offset %d, got string encoding %d", ErrInvalidEncoding, start, n)
	}
	return n, nil
}

// ReadString reads a length-prefixed string.
// Integers stored in the int8/int16/int32 encodings are returned as decimal text.
func (c *Cursor) ReadString() (string, error) {
	start := c.pos
	length, special, err := c.ReadLength()
	if err != nil {
		return "", err
	}
	if special {
		switch length {
		case encodeInt8:
			b, err := c.ReadByte()
			if err != nil {
				return "", err
			}
			return strconv.Itoa(int(int8(b))), nil
		case encodeInt16:
			v, err := c.readUint16LE()
			if err != nil {
				return "", err
			}
			return strconv.Itoa(int(int16(v))), nil
		case encodeInt32:
			v, err := c.ReadUint32LE()
			if err != nil {
				return "", err
			}
			return strconv.Itoa(int(int32(v))), nil
		case encodeLZF:
			return "", fmt.Errorf("%w: lzf compressed string at offset %d is not supported", ErrInvalidEncoding, start)
		default:
			return "", fmt.Errorf("%w: unknown string encoding %d at offset %d", ErrInvalidEncoding, length, start)
		}
	}
	if length > uint64(c.Remaining()) {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d, %d left", ErrUnexpectedEOF, length, start, c.Remaining())
	}
	b, err := c.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string at offset %d is not valid utf-8", ErrInvalidEncoding, start)
	}
	return string(b), nil
}
