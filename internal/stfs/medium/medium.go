// Package medium supplies the two host block device implementations STFS
// demos and tests run against: an in-memory byte slice for fast unit
// tests, and a real file for the on-disk demonstration. Both satisfy
// sectorview.Stream plus a Len query, giving STFS a seekable, readable,
// writable byte store of known length.
package medium

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"stfs/internal/stfs/sectorview"
)

// Medium is the full contract STFS requires of its host block device.
type Medium interface {
	sectorview.Stream
	// Len returns the medium's total length in bytes.
	Len() (int64, error)
}

// Memory is an in-memory Medium backed by a byte slice, used for fast
// tests that don't need a real file on disk.
type Memory struct {
	buf []byte
	pos int64
}

// NewMemory returns a zero-filled in-memory medium of the given size in
// bytes.
func NewMemory(size int64) *Memory {
	return &Memory{buf: make([]byte, size)}
}

func (m *Memory) Len() (int64, error) { return int64(len(m.buf)), nil }

func (m *Memory) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("medium: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("medium: negative seek position %d", target)
	}
	m.pos = target
	return m.pos, nil
}

// File is a Medium backed by a real *os.File.
type File struct {
	f *os.File
}

// CreateFile allocates a fresh file of size bytes at path, truncating any
// existing contents, and returns it opened for read/write.
func CreateFile(path string, size int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "medium: create file")
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "medium: truncate file")
	}
	return &File{f: f}, nil
}

// OpenFile opens an existing file as a Medium.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "medium: open file")
	}
	return &File{f: f}, nil
}

func (f *File) Len() (int64, error) {
	fi, err := f.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "medium: stat")
	}
	return fi.Size(), nil
}

func (f *File) Read(p []byte) (int, error)  { return f.f.Read(p) }
func (f *File) Write(p []byte) (int, error) { return f.f.Write(p) }
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.f.Seek(offset, whence)
}

// Close releases the underlying file handle.
func (f *File) Close() error { return f.f.Close() }

var _ Medium = (*Memory)(nil)
var _ Medium = (*File)(nil)
