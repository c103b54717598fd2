// Package shift implements the shift protocol: advancing the table head by
// one sector (with wrap-around) and the access gate that couples every
// table read/write to the shift schedule.
package shift

import (
	"fmt"

	"github.com/pkg/errors"

	"stfs/internal/metrics"
	"stfs/internal/stfs/codec"
	"stfs/internal/stfs/sectorview"
	"stfs/internal/stfs/trail"
)

// Mount is a per-mount handle owning the stream and the cached table-sector
// index, so callers pass an explicit *Mount through every operation instead
// of relying on shared package state.
//
// Mount is not safe for concurrent use: callers must serialize Access,
// Shift, and Peek calls against a single Mount themselves.
type Mount struct {
	Stream    sectorview.Stream
	SpaceSize uint32
	Codec     codec.Codec

	tableSector uint32
}

// Open locates the current table sector on stream and returns a
// ready-to-use Mount.
func Open(stream sectorview.Stream, spaceSize uint32, enc codec.Codec) (*Mount, error) {
	sector, err := trail.Search(stream, spaceSize)
	if err != nil {
		return nil, errors.Wrap(err, "shift: mount: locate table")
	}
	return &Mount{Stream: stream, SpaceSize: spaceSize, Codec: enc, tableSector: sector}, nil
}

// TableSector returns the cached current table sector. It is refreshed on
// Open and after every Shift.
func (m *Mount) TableSector() uint32 { return m.tableSector }

// Peek reads the current table without gating it through the access
// schedule: it neither decrements AccessesLeft nor triggers a shift. Use it
// for inspection tools; use Access for anything that counts as a real
// table access.
func (m *Mount) Peek() (*codec.ShiftingTable, error) {
	table, err := codec.ReadTable(m.Stream, m.tableSector, m.Codec)
	if err != nil {
		return nil, errors.Wrap(err, "shift: peek: read table")
	}
	return table, nil
}

// Access loads the table from the cached head sector, invokes fn to let the
// caller mutate the table, then decrements AccessesLeft, shifts if the
// access budget has run out, and writes the table back. Every
// externally observable table mutation should go through Access rather
// than calling codec.WriteTable directly.
func (m *Mount) Access(fn func(*codec.ShiftingTable) error) error {
	table, err := codec.ReadTable(m.Stream, m.tableSector, m.Codec)
	if err != nil {
		return errors.Wrap(err, "shift: access: read table")
	}

	if fn != nil {
		if err := fn(table); err != nil {
			return err
		}
	}

	table.AccessesLeft--
	if table.AccessesLeft == 0 {
		if err := m.shiftLocked(table); err != nil {
			return errors.Wrap(err, "shift: access: shift")
		}
		table.AccessesLeft = table.AccessesPerShift
	}

	if err := codec.WriteTable(m.Stream, m.tableSector, m.Codec, table); err != nil {
		return errors.Wrap(err, "shift: access: write table")
	}
	metrics.AccessesTotal.Inc()
	metrics.AccessesLeft.Set(float64(table.AccessesLeft))
	return nil
}

// Shift advances the table forward by one sector (with wrap-around),
// preserving trail monotonicity, and updates the cached head. Most callers
// should go through Access instead; Shift is exported for tests and for
// tools that want to force a shift out of schedule.
func (m *Mount) Shift() error {
	table, err := codec.ReadTable(m.Stream, m.tableSector, m.Codec)
	if err != nil {
		return errors.Wrap(err, "shift: read table")
	}
	return m.shiftLocked(table)
}

// shiftLocked relocates the table to the next sector (or wraps it back to
// sector 0), given a table already read from the current head sector.
func (m *Mount) shiftLocked(table *codec.ShiftingTable) error {
	t := m.tableSector

	// Clear the vacated payload and read its own trail step before it is
	// overwritten, so later arithmetic (current + delta) starts from the
	// value actually stamped there rather than an assumption.
	if err := clearPayload(m.Stream, t); err != nil {
		return errors.Wrapf(err, "shift: clear payload of sector %d", t)
	}
	currentTrail, err := trail.ReadFooter(m.Stream, t)
	if err != nil {
		return errors.Wrapf(err, "shift: read footer of sector %d", t)
	}

	// The table must never straddle the wrap boundary, so a shift wraps as
	// soon as the table would run past the end of the region, not only
	// once the head sector itself reaches the last sector.
	wraps := uint64(t)+table.TableSize >= uint64(m.SpaceSize)

	var newSector uint32
	var newHead trail.Step

	if !wraps {
		newSector = t + 1
		newHead = currentTrail.Add(1)
	} else {
		// Extend the trail from t+1 to the end of the region, clearing
		// each vacated sector's payload and stamping an ascending run.
		step := currentTrail
		for i := t + 1; i < m.SpaceSize; i++ {
			step = step.Add(1)
			if err := clearPayload(m.Stream, i); err != nil {
				return errors.Wrapf(err, "shift: clear payload of sector %d", i)
			}
			if err := trail.WriteFooter(m.Stream, i, step); err != nil {
				return errors.Wrapf(err, "shift: stamp footer of sector %d", i)
			}
		}
		newSector = 0
		newHead = step.Add(1)
	}

	// Write the table payload to the new head via the codec, through a
	// sectorview (so footers within the table's span are left untouched).
	if err := codec.WriteTable(m.Stream, newSector, m.Codec, table); err != nil {
		return errors.Wrapf(err, "shift: write table to new head %d", newSector)
	}

	// Stamp the new head's own footer last, with the largest trail value,
	// so the trail keeps exactly one discontinuity for the locator to find.
	if err := trail.WriteFooter(m.Stream, newSector, newHead); err != nil {
		return errors.Wrapf(err, "shift: stamp new head %d", newSector)
	}

	m.tableSector = newSector
	metrics.ShiftsTotal.Inc()
	return nil
}

// clearPayload zero-fills the 496 payload bytes of sector, leaving its
// footer untouched.
func clearPayload(stream sectorview.Stream, sector uint32) error {
	view, err := sectorview.Open(stream, sector)
	if err != nil {
		return err
	}
	var zero [sectorview.PayloadSize]byte
	n, err := view.Write(zero[:])
	if err != nil {
		return err
	}
	if n != sectorview.PayloadSize {
		return fmt.Errorf("shift: short payload clear on sector %d: wrote %d of %d", sector, n, sectorview.PayloadSize)
	}
	return nil
}
