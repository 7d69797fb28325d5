package core

import "errors"

// Decoding errors. Every error returned by this package wraps exactly one of these,
// test with errors.Is.
var (
	// ErrUnexpectedEOF means the buffer ended before a section was complete
	ErrUnexpectedEOF = errors.New("unexpected end of rdb data")
	// ErrInvalidHeader means the buffer does not start with a REDIS magic and version
	ErrInvalidHeader = errors.New("invalid rdb header")
	// ErrInvalidEncoding means a length or string payload could not be decoded
	ErrInvalidEncoding = errors.New("invalid rdb encoding")
	// ErrInvalidOpcode means no control byte could be read in opcode position
	ErrInvalidOpcode = errors.New("invalid rdb opcode")
	// ErrUnsupportedValueType means the value is not a plain string
	ErrUnsupportedValueType = errors.New("unsupported rdb value type")
)
