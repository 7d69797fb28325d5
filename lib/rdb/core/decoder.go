// Package core decodes string key-value pairs from an in-memory RDB snapshot
package core

import (
	"fmt"

	"github.com/hdt3213/rdbkv/lib/rdb/model"
)

const (
	opCodeIdle         = 248 /* LRU idle time. */
	opCodeFreq         = 249 /* LFU frequency. */
	opCodeAux          = 250 /* RDB aux field. */
	opCodeResizeDB     = 251 /* Hash table resize hint. */
	opCodeExpireTimeMs = 252 /* Expire time in milliseconds. */
	opCodeExpireTime   = 253 /* Old expire time in seconds. */
	opCodeSelectDB     = 254 /* DB number of the following keys. */
	opCodeEOF          = 255
)

type state int

const (
	stateOpcode state = iota
	stateAux
	stateSelectDB
	stateResizeDB
	stateExpiry
	stateKeyValue
	stateDone
)

// Decoder is an instance of rdb parsing process.
// A Decoder must not be shared between goroutines, create one per buffer.
type Decoder struct {
	cursor  *Cursor
	version int
	state   state

	dbIndex   int
	expireOp  byte
	expireMs  int64
	hasExpire bool

	withSpecialOpCode bool
}

// NewDecoder creates a new RDB decoder over buf, buf must not be modified while decoding
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{
		cursor: NewCursor(buf),
	}
}

// WithSpecialOpCode enables returning model.AuxObject and model.DBSizeObject to callback
func (dec *Decoder) WithSpecialOpCode() *Decoder {
	dec.withSpecialOpCode = true
	return dec
}

// Version returns rdb version read from header, 0 before header is read
func (dec *Decoder) Version() int {
	return dec.version
}

// ReadCount returns the number of bytes consumed so far
func (dec *Decoder) ReadCount() int {
	return dec.cursor.Pos()
}

// next handles one section and returns the object it produced, if any
func (dec *Decoder) next() (model.RedisObject, error) {
	switch dec.state {
	case stateOpcode:
		b, err := dec.cursor.PeekByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOpcode, err)
		}
		switch b {
		case opCodeAux:
			dec.state = stateAux
		case opCodeSelectDB:
			dec.state = stateSelectDB
		case opCodeResizeDB:
			dec.state = stateResizeDB
		case opCodeExpireTimeMs, opCodeExpireTime:
			dec.expireOp = b
			dec.state = stateExpiry
		case opCodeEOF:
			dec.state = stateDone
		default:
			// value type flag or key metadata, left for stateKeyValue
			dec.state = stateKeyValue
			return nil, nil
		}
		_ = dec.cursor.Skip(1)
		return nil, nil
	case stateAux:
		dec.state = stateOpcode
		key, err := dec.cursor.ReadString()
		if err != nil {
			return nil, fmt.Errorf("parse aux key failed: %w", err)
		}
		value, err := dec.cursor.ReadString()
		if err != nil {
			return nil, fmt.Errorf("parse aux value failed: %w", err)
		}
		if !dec.withSpecialOpCode {
			return nil, nil
		}
		return &model.AuxObject{
			BaseObject: &model.BaseObject{Key: key, Type: model.AuxType},
			Value:      value,
		}, nil
	case stateSelectDB:
		dec.state = stateOpcode
		dbIndex, err := dec.cursor.readLengthInt()
		if err != nil {
			return nil, fmt.Errorf("parse db index failed: %w", err)
		}
		dec.dbIndex = int(dbIndex)
		return nil, nil
	case stateResizeDB:
		dec.state = stateOpcode
		keyCount, err := dec.cursor.readLengthInt()
		if err != nil {
			return nil, fmt.Errorf("parse db size failed: %w", err)
		}
		ttlCount, err := dec.cursor.readLengthInt()
		if err != nil {
			return nil, fmt.Errorf("parse expires size failed: %w", err)
		}
		if !dec.withSpecialOpCode {
			return nil, nil
		}
		return &model.DBSizeObject{
			BaseObject: &model.BaseObject{DB: dec.dbIndex, Type: model.DBSizeType},
			KeyCount:   keyCount,
			TTLCount:   ttlCount,
		}, nil
	case stateExpiry:
		dec.state = stateKeyValue
		if dec.expireOp == opCodeExpireTime {
			sec, err := dec.cursor.ReadUint32LE()
			if err != nil {
				return nil, fmt.Errorf("parse expire time failed: %w", err)
			}
			dec.expireMs = int64(sec) * 1000
		} else {
			ms, err := dec.cursor.ReadUint64LE()
			if err != nil {
				return nil, fmt.Errorf("parse expire time ms failed: %w", err)
			}
			dec.expireMs = int64(ms)
		}
		dec.hasExpire = true
		return nil, nil
	case stateKeyValue:
		dec.state = stateOpcode
		if err := dec.skipKeyMeta(); err != nil {
			return nil, err
		}
		return dec.readEntry()
	}
	return nil, nil
}

// skipKeyMeta discards LRU/LFU hints written between the expire time and the value type
func (dec *Decoder) skipKeyMeta() error {
	for {
		b, err := dec.cursor.PeekByte()
		if err != nil {
			return err
		}
		switch b {
		case opCodeIdle:
			_ = dec.cursor.Skip(1)
			if _, err = dec.cursor.readLengthInt(); err != nil {
				return fmt.Errorf("parse lru idle failed: %w", err)
			}
		case opCodeFreq:
			_ = dec.cursor.Skip(1)
			if _, err = dec.cursor.ReadByte(); err != nil {
				return fmt.Errorf("parse lfu freq failed: %w", err)
			}
		default:
			return nil
		}
	}
}

func (dec *Decoder) parse(cb model.CallbackFunc) error {
	for dec.state != stateDone {
		obj, err := dec.next()
		if err != nil {
			return err
		}
		if obj != nil && !cb(obj) {
			break
		}
	}
	return nil
}

// Parse parses rdb and callback
// cb returns true to continue, returns false to stop the iteration
func (dec *Decoder) Parse(cb model.CallbackFunc) (err error) {
	defer func() {
		if err2 := recover(); err2 != nil {
			err = fmt.Errorf("panic: %v", err2)
		}
	}()
	dec.version, err = dec.readHeader()
	if err != nil {
		return err
	}
	dec.state = stateOpcode
	return dec.parse(cb)
}

// Decode parses the whole buffer and returns every string key with its value.
// Expire times are not applied, a later entry overwrites an earlier one with the same key.
func Decode(buf []byte) (map[string]string, error) {
	result := make(map[string]string)
	err := NewDecoder(buf).Parse(func(o model.RedisObject) bool {
		entry := o.(*model.Entry)
		result[entry.Key] = entry.Value
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeEntries parses the whole buffer and returns entries in file order
func DecodeEntries(buf []byte) ([]*model.Entry, error) {
	var entries []*model.Entry
	err := NewDecoder(buf).Parse(func(o model.RedisObject) bool {
		entries = append(entries, o.(*model.Entry))
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
