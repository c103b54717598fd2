// Package sectorview presents a logical, contiguous byte stream over a
// physical medium whose metadata-region sectors each reserve a 16-byte
// trail footer. Callers reading or writing through a View never see the
// footer bytes; the view jumps over them transparently.
package sectorview

import (
	"fmt"
	"io"
)

// SectorSize is the physical size of one sector on the medium.
const SectorSize = 512

// PayloadSize is the number of payload bytes exposed per sector; the
// remaining 16 bytes are the trail footer (see trail.StepSize).
const PayloadSize = 496

// Stream is the contract required of the underlying medium: random
// positioning plus full-range read and write.
type Stream = io.ReadWriteSeeker

// View wraps a seekable stream and exposes a logical stream that skips the
// trailing 16 bytes of every 512-byte physical sector, starting at a given
// sector index. It borrows the stream for its lifetime; it does not own or
// close it.
type View struct {
	stream io.ReadWriteSeeker
}

// Open positions stream at the start of the given sector and returns a View
// anchored there. Logical position 0 of the returned View is physical
// offset startSector*SectorSize.
func Open(stream io.ReadWriteSeeker, startSector uint32) (*View, error) {
	if _, err := stream.Seek(int64(startSector)*SectorSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("sectorview: seek to sector %d: %w", startSector, err)
	}
	return &View{stream: stream}, nil
}

// Read transfers up to len(buf) logical payload bytes, skipping footers as
// they are crossed. It returns the number of payload bytes transferred.
func (v *View) Read(buf []byte) (int, error) {
	return v.transfer(buf, false)
}

// Write transfers len(buf) logical payload bytes, skipping footers as they
// are crossed. It returns the number of payload bytes transferred.
func (v *View) Write(buf []byte) (int, error) {
	return v.transfer(buf, true)
}

// transfer decomposes a read or write of len(buf) logical bytes into
// per-sector slices bounded by the next footer boundary, advancing past
// each footer as it is reached.
func (v *View) transfer(buf []byte, write bool) (int, error) {
	total := 0
	for len(buf) > 0 {
		pos, err := v.stream.Seek(0, io.SeekCurrent)
		if err != nil {
			return total, fmt.Errorf("sectorview: tell: %w", err)
		}

		// Bytes left in this sector's payload window before the footer.
		// When pos sits exactly on a footer boundary (pos%512==496) this
		// computes to 0, which the slice below handles directly: a
		// zero-length transfer followed by the footer skip.
		sectorBytesLeft := PayloadSize - (pos % SectorSize)
		if sectorBytesLeft < 0 {
			sectorBytesLeft = 0
		}

		n := int64(len(buf))
		if n > sectorBytesLeft {
			n = sectorBytesLeft
		}

		if n > 0 {
			var transferred int
			if write {
				transferred, err = v.stream.Write(buf[:n])
			} else {
				transferred, err = v.stream.Read(buf[:n])
			}
			total += transferred
			if err != nil {
				return total, err
			}
			buf = buf[transferred:]
			if int64(transferred) < n {
				// Short read/write on the underlying stream; stop here
				// rather than looping forever on a stalled transfer.
				return total, nil
			}
		}

		pos, err = v.stream.Seek(0, io.SeekCurrent)
		if err != nil {
			return total, fmt.Errorf("sectorview: tell: %w", err)
		}
		if pos%SectorSize == PayloadSize {
			if _, err := v.stream.Seek(16, io.SeekCurrent); err != nil {
				return total, fmt.Errorf("sectorview: skip footer: %w", err)
			}
		}
	}
	return total, nil
}
