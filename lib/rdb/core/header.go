package core

import (
	"bytes"
	"fmt"
	"strconv"
)

var magicNumber = []byte("REDIS")

const headerSize = 9

// readHeader checks whether input has valid RDB file header and returns its version
func (dec *Decoder) readHeader() (int, error) {
	header, err := dec.cursor.ReadBytes(headerSize)
	if err != nil {
		return 0, fmt.Errorf("read header failed: %w", err)
	}
	if !bytes.Equal(header[:len(magicNumber)], magicNumber) {
		return 0, fmt.Errorf("%w: file is not a RDB file", ErrInvalidHeader)
	}
	digits := header[len(magicNumber):]
	for _, b := range digits {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("%w: %q is not valid version number", ErrInvalidHeader, digits)
		}
	}
	version, _ := strconv.Atoi(string(digits))
	return version, nil
}
