package sectorview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/sectorview"
)

// TestTransparency checks that writing L bytes through a View and reading
// L bytes back through a fresh View at the same starting sector returns
// the original bytes, regardless of how many footers are crossed.
func TestTransparency(t *testing.T) {
	m := medium.NewMemory(4096)

	pattern := make([]byte, 992)
	for i := range pattern {
		pattern[i] = byte(i % 0xf0)
	}

	w, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	n, err := w.Write(pattern)
	require.NoError(t, err)
	require.Equal(t, len(pattern), n)

	r, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	got := make([]byte, len(pattern))
	n, err = r.Read(got)
	require.NoError(t, err)
	require.Equal(t, len(pattern), n)
	require.Equal(t, pattern, got)
}

// TestFooterPreservation checks that a write crossing two footer
// boundaries does not alter either footer.
func TestFooterPreservation(t *testing.T) {
	m := medium.NewMemory(4096)

	// Seed both footers with a recognizable value.
	sentinel := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0x00}
	_, err := m.Seek(496, 0)
	require.NoError(t, err)
	_, err = m.Write(sentinel)
	require.NoError(t, err)
	_, err = m.Seek(1008, 0)
	require.NoError(t, err)
	_, err = m.Write(sentinel)
	require.NoError(t, err)

	pattern := make([]byte, 992)
	for i := range pattern {
		pattern[i] = byte(i)
	}
	v, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	_, err = v.Write(pattern)
	require.NoError(t, err)

	readBack := make([]byte, 992)
	r, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	_, err = r.Read(readBack)
	require.NoError(t, err)
	require.Equal(t, pattern, readBack)

	got := make([]byte, 16)
	_, err = m.Seek(496, 0)
	require.NoError(t, err)
	_, err = m.Read(got)
	require.NoError(t, err)
	require.Equal(t, sentinel, got)

	_, err = m.Seek(1008, 0)
	require.NoError(t, err)
	_, err = m.Read(got)
	require.NoError(t, err)
	require.Equal(t, sentinel, got)
}

// TestFooterSkipMidTransfer exercises a single write whose buffer straddles
// a footer boundary mid-call (496 payload bytes plus a few more), so the
// footer skip happens inside one call and the remaining bytes land at the
// start of the next sector's payload.
func TestFooterSkipMidTransfer(t *testing.T) {
	m := medium.NewMemory(2048)
	v, err := sectorview.Open(m, 0)
	require.NoError(t, err)

	buf := make([]byte, sectorview.PayloadSize+4)
	for i := range buf {
		buf[i] = byte(i)
	}
	n, err := v.Write(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	r, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	got := make([]byte, len(buf))
	_, err = r.Read(got)
	require.NoError(t, err)
	require.Equal(t, buf, got)
}

// TestBoundaryStart checks that a read/write beginning exactly at a footer
// boundary skips the footer first rather than computing a negative or
// zero-length initial slice incorrectly.
func TestBoundaryStart(t *testing.T) {
	m := medium.NewMemory(2048)

	v, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	// Fill sector 0's payload. The view skips the footer it ends on, so
	// put the stream back exactly on sector 0's footer boundary.
	_, err = v.Write(make([]byte, sectorview.PayloadSize))
	require.NoError(t, err)
	_, err = m.Seek(sectorview.PayloadSize, 0)
	require.NoError(t, err)

	// The next write should land after the footer, at sector 1's payload.
	marker := []byte{1, 2, 3, 4}
	n, err := v.Write(marker)
	require.NoError(t, err)
	require.Equal(t, len(marker), n)

	got := make([]byte, len(marker))
	_, err = m.Seek(512, 0)
	require.NoError(t, err)
	_, err = m.Read(got)
	require.NoError(t, err)
	require.Equal(t, marker, got)
}
