package trail_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/trail"
)

// TestFormatLocate checks that formatting a 1000-sector medium with a
// 10-sector metadata region produces footers [10,1,2,...,9] and that
// Search locates the table at sector 0.
func TestFormatLocate(t *testing.T) {
	const spaceSize = 10
	m := medium.NewMemory(1000 * 512)

	err := trail.Format(m, 1000*512, trail.FormatOptions{
		SpaceSize: spaceSize,
		Codec:     binarycodec.Codec{},
	})
	require.NoError(t, err)

	want := []uint64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	for i, w := range want {
		step, err := trail.ReadFooter(m, uint32(i))
		require.NoError(t, err)
		require.Equal(t, trail.StepFromUint64(w), step, "footer %d", i)
	}

	sector, err := trail.Search(m, spaceSize)
	require.NoError(t, err)
	require.Equal(t, uint32(0), sector)
}

// TestMediumTooSmall checks that formatting a medium with fewer sectors
// than the metadata region requires returns ErrMediumTooSmall.
func TestMediumTooSmall(t *testing.T) {
	m := medium.NewMemory(5 * 512)
	err := trail.Format(m, 5*512, trail.FormatOptions{
		SpaceSize: 10,
		Codec:     binarycodec.Codec{},
	})
	require.ErrorIs(t, err, trail.ErrMediumTooSmall)
}

// TestSearchFindsUniqueMaximum checks that for an arbitrary valid trail
// state, Search returns the sector whose footer is the circular maximum.
func TestSearchFindsUniqueMaximum(t *testing.T) {
	const spaceSize = 10
	m := medium.NewMemory(1000 * 512)
	require.NoError(t, trail.Format(m, 1000*512, trail.FormatOptions{
		SpaceSize: spaceSize,
		Codec:     binarycodec.Codec{},
	}))

	// Manually relocate the discontinuity to sector 4, simulating a medium
	// that has already shifted four times: trail values
	// [10, 11, 12, 13, 14, 5, 6, 7, 8, 9].
	values := []uint64{10, 11, 12, 13, 14, 5, 6, 7, 8, 9}
	for i, v := range values {
		require.NoError(t, trail.WriteFooter(m, uint32(i), trail.StepFromUint64(v)))
	}

	sector, err := trail.Search(m, spaceSize)
	require.NoError(t, err)
	require.Equal(t, uint32(4), sector)
}
