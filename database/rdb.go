package database

import (
	"fmt"
	"os"

	"github.com/hdt3213/rdbkv/lib/logger"
	rdb "github.com/hdt3213/rdbkv/lib/rdb/parser"
	"github.com/hdt3213/rdbkv/lib/utils"
)

// LoadFile reads an rdb file no larger than maxSize bytes (<= 0 for no limit) and restores its keyspace
func LoadFile(filename string, maxSize int64) (*Snapshot, error) {
	rdbFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open rdb file failed: %w", err)
	}
	defer func() {
		_ = rdbFile.Close()
	}()
	buf, err := utils.ReadAllLimited(rdbFile, maxSize)
	if err != nil {
		return nil, fmt.Errorf("read rdb file failed: %w", err)
	}
	snapshot, err := Load(buf)
	if err != nil {
		logger.Errorf("load %s failed: %v", filename, err)
		return nil, err
	}
	logger.Infof("loaded %s: rdb version %d, %d bytes, %d keys", filename, snapshot.Version(), len(buf), len(snapshot.data))
	return snapshot, nil
}

// Load restores a keyspace from rdb bytes
func Load(buf []byte) (*Snapshot, error) {
	snapshot := makeSnapshot()
	dec := rdb.NewDecoder(buf).WithSpecialOpCode()
	err := dec.Parse(func(o rdb.RedisObject) bool {
		switch obj := o.(type) {
		case *rdb.Entry:
			snapshot.data[obj.Key] = obj
		case *rdb.AuxObject:
			snapshot.aux[obj.Key] = obj.Value
		case *rdb.DBSizeObject:
			snapshot.sizes = append(snapshot.sizes, obj)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	snapshot.version = dec.Version()
	return snapshot, nil
}
