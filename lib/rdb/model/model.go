package model

import (
	"time"
)

const (
	// StringType is redis string
	StringType = "string"
	// AuxType is redis metadata key-value pair
	AuxType = "aux"
	// DBSizeType is for RDB_OPCODE_RESIZEDB
	DBSizeType = "dbsize"
)

// CallbackFunc process redis object
type CallbackFunc func(object RedisObject) bool

// RedisObject is interface for an object decoded from rdb
type RedisObject interface {
	// GetType returns type of object: string/aux/dbsize
	GetType() string
	// GetKey returns key of object
	GetKey() string
	// GetDBIndex returns db index of object
	GetDBIndex() int
	// GetExpiration returns expiration time, expiration of persistent object is nil
	GetExpiration() *time.Time
	// GetSize returns rdb size in Byte
	GetSize() int
}

// BaseObject is basement of redis object
type BaseObject struct {
	DB         int        `json:"db"`                   // DB is db index of redis object
	Key        string     `json:"key"`                  // Key is key of redis object
	Expiration *time.Time `json:"expiration,omitempty"` // Expiration is expiration time, expiration of persistent object is nil
	Size       int        `json:"size"`                 // Size is rdb size in Byte, including type flag and key
	Type       string     `json:"type"`
}

// GetKey returns key of object
func (o *BaseObject) GetKey() string {
	return o.Key
}

// GetDBIndex returns db index of object
func (o *BaseObject) GetDBIndex() int {
	return o.DB
}

// GetExpiration returns expiration time, expiration of persistent object is nil
func (o *BaseObject) GetExpiration() *time.Time {
	return o.Expiration
}

// GetSize  returns rdb value size in Byte
func (o *BaseObject) GetSize() int {
	return o.Size
}

// Entry is a decoded string key-value pair
type Entry struct {
	*BaseObject
	Value string `json:"value"`
}

// GetType returns redis object type
func (o *Entry) GetType() string {
	return StringType
}

// ExpireAtMs returns the absolute expire time in unix milliseconds,
// ok is false for persistent entries
func (o *Entry) ExpireAtMs() (ms int64, ok bool) {
	if o.Expiration == nil {
		return 0, false
	}
	return o.Expiration.UnixMilli(), true
}

// IsExpired reports whether the entry is logically deleted at now
func (o *Entry) IsExpired(now time.Time) bool {
	return o.Expiration != nil && !now.Before(*o.Expiration)
}

// AuxObject stores redis metadata
type AuxObject struct {
	*BaseObject
	Value string `json:"value"`
}

// GetType returns redis object type
func (o *AuxObject) GetType() string {
	return AuxType
}

// DBSizeObject stores db size metadata
type DBSizeObject struct {
	*BaseObject
	KeyCount uint64 `json:"keyCount"`
	TTLCount uint64 `json:"ttlCount"`
}

// GetType returns redis object type
func (o *DBSizeObject) GetType() string {
	return DBSizeType
}
