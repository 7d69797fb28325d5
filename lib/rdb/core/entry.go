package core

import (
	"fmt"
	"time"

	"github.com/hdt3213/rdbkv/lib/rdb/model"
)

const (
	typeString = iota
	typeList
	typeSet
	typeZset
	typeHash
	typeZset2 /* ZSET version 2 with doubles stored in binary. */
	typeModule
	typeModule2
	_
	typeHashZipMap
	typeListZipList
	typeSetIntSet
	typeZsetZipList
	typeHashZipList
	typeListQuickList
	typeStreamListPacks
	typeHashListPack
	typeZsetListPack
	typeListQuickList2
)

var typeNames = map[byte]string{
	typeString:          "string",
	typeList:            "list",
	typeSet:             "set",
	typeZset:            "zset",
	typeHash:            "hash",
	typeZset2:           "zset2",
	typeModule:          "module",
	typeModule2:         "module2",
	typeHashZipMap:      "hash-zipmap",
	typeListZipList:     "list-ziplist",
	typeSetIntSet:       "set-intset",
	typeZsetZipList:     "zset-ziplist",
	typeHashZipList:     "hash-ziplist",
	typeListQuickList:   "list-quicklist",
	typeStreamListPacks: "stream-listpacks",
	typeHashListPack:    "hash-listpack",
	typeZsetListPack:    "zset-listpack",
	typeListQuickList2:  "list-quicklist2",
}

func typeName(flag byte) string {
	if name, ok := typeNames[flag]; ok {
		return name
	}
	return "unknown"
}

// readEntry reads value type, key and value of one string object.
// The pending expire time is attached to the entry and then cleared.
func (dec *Decoder) readEntry() (*model.Entry, error) {
	begPos := dec.cursor.Pos()
	flag, err := dec.cursor.ReadByte()
	if err != nil {
		return nil, err
	}
	if flag != typeString {
		return nil, fmt.Errorf("%w: %s (0x%02x) at offset %d", ErrUnsupportedValueType, typeName(flag), flag, begPos)
	}
	key, err := dec.cursor.ReadString()
	if err != nil {
		return nil, fmt.Errorf("read key failed: %w", err)
	}
	value, err := dec.cursor.ReadString()
	if err != nil {
		return nil, fmt.Errorf("read value of %q failed: %w", key, err)
	}
	entry := &model.Entry{
		BaseObject: &model.BaseObject{
			DB:   dec.dbIndex,
			Key:  key,
			Size: dec.cursor.Pos() - begPos,
			Type: model.StringType,
		},
		Value: value,
	}
	if dec.hasExpire {
		expiration := time.UnixMilli(dec.expireMs)
		entry.Expiration = &expiration
		dec.hasExpire = false // reset expire ms
		dec.expireMs = 0
	}
	return entry, nil
}
