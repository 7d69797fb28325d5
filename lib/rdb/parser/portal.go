// Package parser is interface for parser
package parser

import (
	"github.com/hdt3213/rdbkv/lib/rdb/core"
	"github.com/hdt3213/rdbkv/lib/rdb/model"
)

const (
	// StringType is redis string
	StringType = model.StringType
	// AuxType is redis metadata key-value pair
	AuxType = model.AuxType
	// DBSizeType is for RDB_OPCODE_RESIZEDB
	DBSizeType = model.DBSizeType
)

type (
	// RedisObject is interface for a redis object
	RedisObject = model.RedisObject
	// Entry stores a string key-value pair
	Entry = model.Entry
	// AuxObject stores redis metadata
	AuxObject = model.AuxObject
	// DBSizeObject stores db size metadata
	DBSizeObject = model.DBSizeObject
	// Decoder is an instance of rdb parsing process
	Decoder = core.Decoder
)

var (
	// NewDecoder creates a new RDB decoder
	NewDecoder = core.NewDecoder
	// Decode returns all string key-value pairs in an rdb buffer
	Decode = core.Decode
	// DecodeEntries returns all entries in an rdb buffer in file order
	DecodeEntries = core.DecodeEntries
)

var (
	ErrUnexpectedEOF        = core.ErrUnexpectedEOF
	ErrInvalidHeader        = core.ErrInvalidHeader
	ErrInvalidEncoding      = core.ErrInvalidEncoding
	ErrInvalidOpcode        = core.ErrInvalidOpcode
	ErrUnsupportedValueType = core.ErrUnsupportedValueType
)
