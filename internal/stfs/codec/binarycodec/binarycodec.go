// Package binarycodec is the reference codec.Codec for ShiftingTable: a
// small hand-rolled little-endian binary format, in the same spirit as the
// teacher's internal/proto request/response encoder (fixed-width fields,
// explicit length prefixes, no reflection).
package binarycodec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"stfs/internal/stfs/codec"
)

// Codec implements codec.Codec using fixed-width little-endian fields:
//
//	accesses_left      u64
//	accesses_per_shift u64
//	table_size         u64
//	magic              u64
//	files_data_len     u32
//	files_data         [files_data_len]byte
type Codec struct{}

var _ codec.Codec = Codec{}

// Encode writes t's wire form to w. It never fails on a well-formed table;
// errors only propagate from w.
func (Codec) Encode(w io.Writer, t *codec.ShiftingTable) error {
	var hdr [36]byte
	binary.LittleEndian.PutUint64(hdr[0:8], t.AccessesLeft)
	binary.LittleEndian.PutUint64(hdr[8:16], t.AccessesPerShift)
	binary.LittleEndian.PutUint64(hdr[16:24], t.TableSize)
	binary.LittleEndian.PutUint64(hdr[24:32], t.Magic)
	binary.LittleEndian.PutUint32(hdr[32:36], uint32(len(t.FilesData)))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "binarycodec: write header")
	}
	if len(t.FilesData) > 0 {
		if _, err := w.Write(t.FilesData); err != nil {
			return errors.Wrap(err, "binarycodec: write files_data")
		}
	}
	return nil
}

// Decode reads a table back from r. It returns an error if the stream does
// not carry a well-formed header or the declared files_data length cannot
// be read in full.
func (Codec) Decode(r io.Reader) (*codec.ShiftingTable, error) {
	var hdr [36]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "binarycodec: read header")
	}
	t := &codec.ShiftingTable{
		AccessesLeft:     binary.LittleEndian.Uint64(hdr[0:8]),
		AccessesPerShift: binary.LittleEndian.Uint64(hdr[8:16]),
		TableSize:        binary.LittleEndian.Uint64(hdr[16:24]),
		Magic:            binary.LittleEndian.Uint64(hdr[24:32]),
	}
	n := binary.LittleEndian.Uint32(hdr[32:36])
	if n > 0 {
		// A files_data length larger than any plausible table guards
		// against reading a corrupt/garbage header as a huge allocation.
		const maxFilesData = 64 << 20
		if n > maxFilesData {
			return nil, fmt.Errorf("binarycodec: files_data length %d exceeds sanity limit", n)
		}
		t.FilesData = make([]byte, n)
		if _, err := io.ReadFull(r, t.FilesData); err != nil {
			return nil, errors.Wrap(err, "binarycodec: read files_data")
		}
	}
	if t.Magic != codec.MagicIdentifier {
		return nil, fmt.Errorf("binarycodec: bad magic 0x%x", t.Magic)
	}
	return t, nil
}
