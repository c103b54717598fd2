// Package filemeta supplies the concrete per-file metadata record packed
// into ShiftingTable.FilesData: start offset, length, flags, timestamps,
// and a path, checksummed and optionally compressed before storage.
package filemeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Entry describes one file tracked by the table.
type Entry struct {
	Start    uint64
	Len      uint64
	Flags    uint16
	Modified time.Time
	Accessed time.Time
	Created  time.Time
	Path     string
}

// wire layout per entry (all little-endian):
//
//	start    u64
//	len      u64
//	flags    u16
//	modified i64 (unix seconds)
//	accessed i64
//	created  i64
//	path_len u16
//	path     [path_len]byte
const entryFixedSize = 8 + 8 + 2 + 8 + 8 + 8 + 2

func encodeEntry(buf *bytes.Buffer, e Entry) {
	var fixed [entryFixedSize]byte
	binary.LittleEndian.PutUint64(fixed[0:8], e.Start)
	binary.LittleEndian.PutUint64(fixed[8:16], e.Len)
	binary.LittleEndian.PutUint16(fixed[16:18], e.Flags)
	binary.LittleEndian.PutUint64(fixed[18:26], uint64(e.Modified.Unix()))
	binary.LittleEndian.PutUint64(fixed[26:34], uint64(e.Accessed.Unix()))
	binary.LittleEndian.PutUint64(fixed[34:42], uint64(e.Created.Unix()))
	binary.LittleEndian.PutUint16(fixed[42:44], uint16(len(e.Path)))
	buf.Write(fixed[:])
	buf.WriteString(e.Path)
}

func decodeEntry(r *bytes.Reader) (Entry, error) {
	var fixed [entryFixedSize]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Entry{}, err
	}
	pathLen := binary.LittleEndian.Uint16(fixed[42:44])
	path := make([]byte, pathLen)
	if _, err := io.ReadFull(r, path); err != nil {
		return Entry{}, err
	}
	return Entry{
		Start:    binary.LittleEndian.Uint64(fixed[0:8]),
		Len:      binary.LittleEndian.Uint64(fixed[8:16]),
		Flags:    binary.LittleEndian.Uint16(fixed[16:18]),
		Modified: time.Unix(int64(binary.LittleEndian.Uint64(fixed[18:26])), 0).UTC(),
		Accessed: time.Unix(int64(binary.LittleEndian.Uint64(fixed[26:34])), 0).UTC(),
		Created:  time.Unix(int64(binary.LittleEndian.Uint64(fixed[34:42])), 0).UTC(),
		Path:     string(path),
	}, nil
}

// header: a 1-byte compression flag, then an 8-byte xxhash64 checksum over
// the (possibly compressed) entry bytes that follow it.
const (
	flagNone = 0
	flagZstd = 1
)

// EncodeEntries serializes entries into ShiftingTable.FilesData form:
// [flag:1][checksum:8][body...]. When compress is true the body is
// zstd-compressed; the checksum always covers the body as stored on disk.
func EncodeEntries(entries []Entry, compress bool) ([]byte, error) {
	var raw bytes.Buffer
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(entries)))
	raw.Write(count[:])
	for _, e := range entries {
		encodeEntry(&raw, e)
	}

	body := raw.Bytes()
	flag := byte(flagNone)
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.Wrap(err, "filemeta: new zstd writer")
		}
		body = enc.EncodeAll(raw.Bytes(), nil)
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "filemeta: close zstd writer")
		}
		flag = flagZstd
	}

	sum := xxhash.Sum64(body)

	out := make([]byte, 0, 1+8+len(body))
	out = append(out, flag)
	var sumBuf [8]byte
	binary.LittleEndian.PutUint64(sumBuf[:], sum)
	out = append(out, sumBuf[:]...)
	out = append(out, body...)
	return out, nil
}

// DecodeEntries parses the form produced by EncodeEntries, verifying the
// checksum before decompressing and decoding.
func DecodeEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 9 {
		return nil, fmt.Errorf("filemeta: truncated files_data")
	}
	flag := data[0]
	wantSum := binary.LittleEndian.Uint64(data[1:9])
	body := data[9:]

	if gotSum := xxhash.Sum64(body); gotSum != wantSum {
		return nil, fmt.Errorf("filemeta: checksum mismatch: got 0x%x want 0x%x", gotSum, wantSum)
	}

	switch flag {
	case flagNone:
		// body is raw
	case flagZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "filemeta: new zstd reader")
		}
		defer dec.Close()
		out, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, errors.Wrap(err, "filemeta: zstd decompress")
		}
		body = out
	default:
		return nil, fmt.Errorf("filemeta: unknown compression flag %d", flag)
	}

	r := bytes.NewReader(body)
	var count [4]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return nil, errors.Wrap(err, "filemeta: read entry count")
	}
	n := binary.LittleEndian.Uint32(count[:])
	entries := make([]Entry, 0, n)
	for i := uint32(0); i < n; i++ {
		e, err := decodeEntry(r)
		if err != nil {
			return nil, errors.Wrapf(err, "filemeta: decode entry %d", i)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
