package database

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hdt3213/rdb/encoder"
	"github.com/hdt3213/rdbkv/lib/rdb/core"
	"github.com/hdt3213/rdbkv/lib/rdb/model"
	"github.com/hdt3213/rdbkv/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.UnixMilli(1700000000000)

func makeTestRDB(t *testing.T) []byte {
	buf := bytes.NewBuffer(nil)
	enc := encoder.NewEncoder(buf)
	require.NoError(t, enc.WriteHeader())
	require.NoError(t, enc.WriteAux("redis-ver", "7.2.0"))
	require.NoError(t, enc.WriteDBHeader(0, 3, 2))
	require.NoError(t, enc.WriteStringObject("user:1", []byte("alice")))
	require.NoError(t, enc.WriteStringObject("user:2", []byte("bob"),
		encoder.WithTTL(uint64(now.Add(time.Minute).UnixMilli()))))
	require.NoError(t, enc.WriteStringObject("session:1", []byte("gone"),
		encoder.WithTTL(uint64(now.Add(-time.Minute).UnixMilli()))))
	require.NoError(t, enc.WriteDBHeader(1, 1, 0))
	require.NoError(t, enc.WriteStringObject("counter", []byte("42")))
	require.NoError(t, enc.WriteEnd())
	return buf.Bytes()
}

func loadTestSnapshot(t *testing.T) *Snapshot {
	s, err := Load(makeTestRDB(t))
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestGet(t *testing.T) {
	s := loadTestSnapshot(t)
	v, ok := s.Get("user:1")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
	v, ok = s.Get("counter")
	assert.True(t, ok)
	assert.Equal(t, "42", v)
	_, ok = s.Get("session:1")
	assert.False(t, ok, "expired key must be hidden")
	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestTTL(t *testing.T) {
	s := loadTestSnapshot(t)
	assert.Equal(t, int64(-1), s.TTL("user:1"))
	assert.Equal(t, time.Minute.Milliseconds(), s.TTL("user:2"))
	assert.Equal(t, int64(-2), s.TTL("session:1"))
	assert.Equal(t, int64(-2), s.TTL("missing"))
}

func TestKeys(t *testing.T) {
	s := loadTestSnapshot(t)
	assert.Equal(t, []string{"counter", "user:1", "user:2"}, s.Keys("*"))
	assert.Equal(t, []string{"user:1", "user:2"}, s.Keys("user:*"))
	assert.Empty(t, s.Keys("session:*"))
	assert.Equal(t, 3, s.Len())
}

func TestData(t *testing.T) {
	s := loadTestSnapshot(t)
	assert.Len(t, s.Data(false), 3)
	all := s.Data(true)
	assert.Len(t, all, 4)
	assert.Equal(t, "gone", all["session:1"])

	var visited []string
	s.ForEach(true, func(entry *model.Entry) bool {
		visited = append(visited, entry.Key)
		return len(visited) < 2
	})
	assert.Equal(t, []string{"counter", "session:1"}, visited)
}

func TestMetadata(t *testing.T) {
	s := loadTestSnapshot(t)
	assert.Greater(t, s.Version(), 0)
	assert.Equal(t, "7.2.0", s.Aux()["redis-ver"])
	require.Len(t, s.DBSizes(), 2)
	assert.Equal(t, uint64(3), s.DBSizes()[0].KeyCount)
	assert.Equal(t, uint64(2), s.DBSizes()[0].TTLCount)
	assert.Equal(t, 1, s.DBSizes()[1].GetDBIndex())
}

func TestLoadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "dump.rdb")
	data := makeTestRDB(t)
	require.NoError(t, os.WriteFile(filename, data, 0644))

	s, err := LoadFile(filename, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, len(s.Data(true)))

	_, err = LoadFile(filename, int64(len(data)-1))
	assert.ErrorIs(t, err, utils.ErrTooLarge)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.rdb"), 0)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filename, data[:len(data)/2], 0644))
	_, err = LoadFile(filename, 0)
	assert.ErrorIs(t, err, core.ErrUnexpectedEOF)
}
