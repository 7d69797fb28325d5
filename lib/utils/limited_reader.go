package utils

import (
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned by ReadAllLimited when src holds more than limit bytes
var ErrTooLarge = errors.New("input exceeds size limit")

// LimitedReader implements io.Reader, reading past limit fails with ErrTooLarge instead of truncating
type LimitedReader struct {
	src   io.Reader
	n     int64
	limit int64
}

// NewLimitedReader wraps an io.Reader to LimitedReader, limit <= 0 means unlimited
func NewLimitedReader(src io.Reader, limit int64) *LimitedReader {
	return &LimitedReader{
		src:   src,
		limit: limit,
	}
}

// Read reads up to len(p) bytes into p
func (r *LimitedReader) Read(p []byte) (n int, err error) {
	if r.src == nil {
		return 0, errors.New("no data source")
	}
	if r.limit > 0 && int64(len(p)) > r.limit-r.n+1 {
		p = p[:r.limit-r.n+1] // one extra byte detects overflow
	}
	n, err = r.src.Read(p)
	r.n += int64(n)
	if r.limit > 0 && r.n > r.limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, r.limit)
	}
	return n, err
}

// ReadAllLimited reads src until EOF, failing if it is longer than limit
func ReadAllLimited(src io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(NewLimitedReader(src, limit))
}
