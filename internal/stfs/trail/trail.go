package trail

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"stfs/internal/metrics"
	"stfs/internal/stfs/codec"
	"stfs/internal/stfs/sectorview"
)

// ErrMediumTooSmall is returned by Format when the medium does not have
// enough sectors to hold the requested metadata region.
var ErrMediumTooSmall = fmt.Errorf("trail: storage medium too small")

// FormatOptions configures Format.
type FormatOptions struct {
	// SpaceSize is the number of sectors in the reserved metadata region.
	SpaceSize uint32
	// AccessesPerShift is the fresh table's accesses-per-shift budget;
	// codec.DefaultAccessesPerShift is used when zero.
	AccessesPerShift uint64
	Codec            codec.Codec
}

// Format lays down the initial trail across the metadata region and writes
// a fresh, empty table at sector 0.
//
// Preconditions: the medium must have strictly more sectors than
// SpaceSize.
func Format(stream sectorview.Stream, lenBytes int64, opts FormatOptions) error {
	sectorCount := lenBytes / sectorview.SectorSize
	if int64(opts.SpaceSize) >= sectorCount {
		return ErrMediumTooSmall
	}

	// Step 1: lay an initial trail 0..SpaceSize-1 across every footer in
	// the metadata region.
	for i := uint32(0); i < opts.SpaceSize; i++ {
		if err := WriteFooter(stream, i, StepFromUint64(uint64(i))); err != nil {
			return errors.Wrapf(err, "trail: format: write initial footer %d", i)
		}
	}

	// Step 2: overwrite sector 0's footer with SpaceSize, establishing the
	// initial discontinuity (the "large" value preceding the ascending
	// run 1..SpaceSize-1).
	if err := WriteFooter(stream, 0, StepFromUint64(uint64(opts.SpaceSize))); err != nil {
		return errors.Wrap(err, "trail: format: stamp head footer")
	}

	table, err := codec.NewTable(opts.Codec, opts.AccessesPerShift)
	if err != nil {
		return errors.Wrap(err, "trail: format: build fresh table")
	}
	if err := codec.WriteTable(stream, 0, opts.Codec, table); err != nil {
		return errors.Wrap(err, "trail: format: write fresh table")
	}
	return nil
}

// Search finds the current table sector by binary-searching the trail for
// its unique discontinuity, in O(log spaceSize) footer reads.
//
// The loop narrows the bracket until it spans at most one step
// (end-start<=1), then verifies directly which side holds the larger
// value rather than trusting the direction of the final comparison.
func Search(stream sectorview.Stream, spaceSize uint32) (uint32, error) {
	if spaceSize < 2 {
		return 0, nil
	}
	start := uint32(0)
	end := spaceSize - 1
	iterations := 0

	for end-start > 1 {
		iterations++
		startStep, err := ReadFooter(stream, start)
		if err != nil {
			return 0, errors.Wrapf(err, "trail: search: read footer %d", start)
		}
		middle := (start + end) / 2
		middleStep, err := ReadFooter(stream, middle)
		if err != nil {
			return 0, errors.Wrapf(err, "trail: search: read footer %d", middle)
		}

		switch startStep.Cmp(middleStep) {
		case 1: // start > middle: discontinuity is in [start, middle]
			end = middle
		case -1: // start < middle: discontinuity is in [middle, end]
			start = middle
		default:
			// Bracket collapsed onto a flat run; with end-start>1 still
			// true this would only happen on a corrupt trail, but we
			// guard rather than looping forever.
			return 0, fmt.Errorf("trail: search: ambiguous bracket [%d,%d]", start, end)
		}
	}

	// end - start <= 1: the discontinuity is between these two sectors
	// (or start itself is the lone sector). Verify by direct comparison
	// rather than trusting the last iteration's direction.
	metrics.SearchIterations.Set(float64(iterations))

	startStep, err := ReadFooter(stream, start)
	if err != nil {
		return 0, errors.Wrapf(err, "trail: search: verify footer %d", start)
	}
	if end == start {
		return start, nil
	}
	endStep, err := ReadFooter(stream, end)
	if err != nil {
		return 0, errors.Wrapf(err, "trail: search: verify footer %d", end)
	}
	if startStep.Cmp(endStep) > 0 {
		return start, nil
	}
	return end, nil
}

// FooterOffset returns the physical byte offset of sector's 16-byte footer.
func FooterOffset(sector uint32) int64 {
	return int64(sector)*sectorview.SectorSize + sectorview.PayloadSize
}

// ReadFooter reads the trail step stamped at sector's footer, bypassing
// sectorview (raw sector access, used by the locator and the shifter).
func ReadFooter(stream sectorview.Stream, sector uint32) (Step, error) {
	if _, err := stream.Seek(FooterOffset(sector), io.SeekStart); err != nil {
		return Step{}, err
	}
	var buf [StepSize]byte
	if _, err := io.ReadFull(stream, buf[:]); err != nil {
		return Step{}, err
	}
	return DecodeStep(buf[:])
}

// WriteFooter stamps step into sector's footer, bypassing sectorview.
func WriteFooter(stream sectorview.Stream, sector uint32, step Step) error {
	if _, err := stream.Seek(FooterOffset(sector), io.SeekStart); err != nil {
		return err
	}
	var buf [StepSize]byte
	if err := step.Encode(buf[:]); err != nil {
		return err
	}
	_, err := stream.Write(buf[:])
	return err
}
