package database

import (
	"sort"
	"time"

	"github.com/hdt3213/rdbkv/lib/rdb/model"
	"github.com/hdt3213/rdbkv/lib/wildcard"
)

// Snapshot is a read-only keyspace restored from an rdb file.
// It is immutable after loading and safe for concurrent readers.
type Snapshot struct {
	version int
	aux     map[string]string
	sizes   []*model.DBSizeObject
	data    map[string]*model.Entry

	now func() time.Time
}

func makeSnapshot() *Snapshot {
	return &Snapshot{
		aux:  make(map[string]string),
		data: make(map[string]*model.Entry),
		now:  time.Now,
	}
}

// Version returns rdb format version of the source file
func (s *Snapshot) Version() int {
	return s.version
}

// Aux returns a copy of the metadata fields
func (s *Snapshot) Aux() map[string]string {
	result := make(map[string]string, len(s.aux))
	for k, v := range s.aux {
		result[k] = v
	}
	return result
}

// DBSizes returns resize hints in file order
func (s *Snapshot) DBSizes() []*model.DBSizeObject {
	return s.sizes
}

func (s *Snapshot) getEntry(key string) (*model.Entry, bool) {
	entry, ok := s.data[key]
	if !ok || entry.IsExpired(s.now()) {
		return nil, false
	}
	return entry, true
}

// Get returns value of a live key
func (s *Snapshot) Get(key string) (string, bool) {
	entry, ok := s.getEntry(key)
	if !ok {
		return "", false
	}
	return entry.Value, true
}

// TTL returns remaining time to live in milliseconds, -1 if key is persistent, -2 if key does not exist
func (s *Snapshot) TTL(key string) int64 {
	entry, ok := s.getEntry(key)
	if !ok {
		return -2
	}
	if entry.Expiration == nil {
		return -1
	}
	return entry.Expiration.Sub(s.now()).Milliseconds()
}

// Keys returns sorted live keys matching pattern
func (s *Snapshot) Keys(pattern string) []string {
	p := wildcard.CompilePattern(pattern)
	now := s.now()
	result := make([]string, 0)
	for key, entry := range s.data {
		if !entry.IsExpired(now) && p.IsMatch(key) {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}

// Len returns the number of live keys
func (s *Snapshot) Len() int {
	now := s.now()
	count := 0
	for _, entry := range s.data {
		if !entry.IsExpired(now) {
			count++
		}
	}
	return count
}

// Data returns key-value pairs, expired keys are included only if includeExpired is set
func (s *Snapshot) Data(includeExpired bool) map[string]string {
	now := s.now()
	result := make(map[string]string, len(s.data))
	for key, entry := range s.data {
		if includeExpired || !entry.IsExpired(now) {
			result[key] = entry.Value
		}
	}
	return result
}

// ForEach visits entries in key order, cb returns false to stop
func (s *Snapshot) ForEach(includeExpired bool, cb func(entry *model.Entry) bool) {
	now := s.now()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		entry := s.data[key]
		if !includeExpired && entry.IsExpired(now) {
			continue
		}
		if !cb(entry) {
			return
		}
	}
}
