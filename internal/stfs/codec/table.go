// Package codec defines the ShiftingTable record and the TableCodec that
// reads and writes it through a sectorview.View, delegating the actual byte
// encoding to a pluggable Codec.
package codec

import (
	"io"

	"github.com/pkg/errors"

	"stfs/internal/stfs/sectorview"
)

// MagicIdentifier is the integrity sentinel stamped into every well-formed
// ShiftingTable.
const MagicIdentifier uint64 = 0x8d2765dd2bc8bf74

// DefaultAccessesPerShift is the reset value applied to AccessesLeft after
// every shift, absent an explicit override.
const DefaultAccessesPerShift uint64 = 500

// ShiftingTable is the payload record anchored at the table's current head
// sector.
type ShiftingTable struct {
	AccessesLeft     uint64
	AccessesPerShift uint64
	TableSize        uint64 // size of the serialized record, in sectors
	Magic            uint64
	FilesData        []byte // opaque, codec-encoded file metadata
}

// NewTable returns a fresh, empty table with accesses-per-shift set to
// perShift (DefaultAccessesPerShift if zero) and TableSize computed against
// enc.
func NewTable(enc Codec, perShift uint64) (*ShiftingTable, error) {
	if perShift == 0 {
		perShift = DefaultAccessesPerShift
	}
	t := &ShiftingTable{
		AccessesLeft:     perShift,
		AccessesPerShift: perShift,
		Magic:            MagicIdentifier,
	}
	if err := t.recomputeSize(enc); err != nil {
		return nil, err
	}
	return t, nil
}

// recomputeSize serializes t with enc to determine how many 496-byte
// payload units the record currently needs.
func (t *ShiftingTable) recomputeSize(enc Codec) error {
	var counter countingWriter
	if err := enc.Encode(&counter, t); err != nil {
		return errors.Wrap(err, "codec: measure table size")
	}
	t.TableSize = (uint64(counter.n) + sectorview.PayloadSize - 1) / sectorview.PayloadSize
	if t.TableSize == 0 {
		t.TableSize = 1
	}
	return nil
}

type countingWriter struct{ n int }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

// Codec encodes and decodes a ShiftingTable to/from a byte stream. It must
// be deterministic and symmetric under concatenation: Decode(Encode(x))
// must yield a record equal to x.
type Codec interface {
	Encode(w io.Writer, t *ShiftingTable) error
	Decode(r io.Reader) (*ShiftingTable, error)
}

// WriteTable constructs a sectorview.View at sector and serializes table
// into it via enc.
func WriteTable(stream sectorview.Stream, sector uint32, enc Codec, table *ShiftingTable) error {
	view, err := sectorview.Open(stream, sector)
	if err != nil {
		return errors.Wrap(err, "codec: open sector view for write")
	}
	if err := enc.Encode(view, table); err != nil {
		return errors.Wrap(err, "codec: encode table")
	}
	return nil
}

// ReadTable constructs a sectorview.View at sector and deserializes one
// table record from it via enc.
func ReadTable(stream sectorview.Stream, sector uint32, enc Codec) (*ShiftingTable, error) {
	view, err := sectorview.Open(stream, sector)
	if err != nil {
		return nil, errors.Wrap(err, "codec: open sector view for read")
	}
	table, err := enc.Decode(view)
	if err != nil {
		return nil, errors.Wrap(err, "codec: decode table")
	}
	return table, nil
}
