package shift_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stfs/internal/stfs/codec"
	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/sectorview"
	"stfs/internal/stfs/shift"
	"stfs/internal/stfs/trail"
)

const spaceSize = 10

func freshMount(t *testing.T, perShift uint64) (*medium.Memory, *shift.Mount) {
	t.Helper()
	m := medium.NewMemory(1000 * 512)
	require.NoError(t, trail.Format(m, 1000*512, trail.FormatOptions{
		SpaceSize:        spaceSize,
		AccessesPerShift: perShift,
		Codec:            binarycodec.Codec{},
	}))
	mnt, err := shift.Open(m, spaceSize, binarycodec.Codec{})
	require.NoError(t, err)
	return m, mnt
}

// TestSingleShift checks that after format, 500 accesses move the table
// to sector 1, leave footers [10,11,2,3,...,9], and zero sector 0's
// payload.
func TestSingleShift(t *testing.T) {
	m, mnt := freshMount(t, 500)

	for i := 0; i < 500; i++ {
		require.NoError(t, mnt.Access(nil))
	}

	require.Equal(t, uint32(1), mnt.TableSector())

	want := []uint64{10, 11, 2, 3, 4, 5, 6, 7, 8, 9}
	for i, w := range want {
		step, err := trail.ReadFooter(m, uint32(i))
		require.NoError(t, err)
		require.Equal(t, trail.StepFromUint64(w), step, "footer %d", i)
	}

	v, err := sectorview.Open(m, 0)
	require.NoError(t, err)
	payload := make([]byte, sectorview.PayloadSize)
	_, err = v.Read(payload)
	require.NoError(t, err)
	for _, b := range payload {
		require.Zero(t, b)
	}
}

// TestManyAccessesWithWrap checks that 4500 accesses from a fresh format
// produce a table location that an independent search confirms.
func TestManyAccessesWithWrap(t *testing.T) {
	m, mnt := freshMount(t, 500)

	for i := 0; i < 4500; i++ {
		require.NoError(t, mnt.Access(nil))
	}

	require.Less(t, mnt.TableSector(), uint32(spaceSize))

	located, err := trail.Search(m, spaceSize)
	require.NoError(t, err)
	require.Equal(t, mnt.TableSector(), located)
}

// TestWrapShift checks that with the table at the last sector and a
// single access remaining, the next access wraps the table to sector 0,
// the new footer strictly exceeds the old one, and the trail keeps exactly
// one descent.
func TestWrapShift(t *testing.T) {
	m := medium.NewMemory(1000 * 512)
	require.NoError(t, trail.Format(m, 1000*512, trail.FormatOptions{
		SpaceSize: spaceSize,
		Codec:     binarycodec.Codec{},
	}))

	mnt, err := shift.Open(m, spaceSize, binarycodec.Codec{})
	require.NoError(t, err)

	// Drive the table to sector 9 with accesses_per_shift=1 so each
	// access forces a shift.
	for i := 0; i < 9; i++ {
		require.NoError(t, mnt.Access(func(tb *codec.ShiftingTable) error {
			tb.AccessesPerShift = 1
			tb.AccessesLeft = 1
			return nil
		}))
	}
	require.Equal(t, uint32(9), mnt.TableSector())

	oldFooter, err := trail.ReadFooter(m, 9)
	require.NoError(t, err)

	require.NoError(t, mnt.Access(func(tb *codec.ShiftingTable) error {
		tb.AccessesLeft = 1
		return nil
	}))

	require.Equal(t, uint32(0), mnt.TableSector())

	newFooter, err := trail.ReadFooter(m, 0)
	require.NoError(t, err)
	require.Equal(t, 1, newFooter.Cmp(oldFooter))

	assertSingleDescent(t, m, spaceSize)
}

// TestAccessCountInvariant checks that 0 < AccessesLeft <= AccessesPerShift
// holds after every Access call.
func TestAccessCountInvariant(t *testing.T) {
	_, mnt := freshMount(t, 7)
	for i := 0; i < 50; i++ {
		require.NoError(t, mnt.Access(nil))
		table, err := mnt.Peek()
		require.NoError(t, err)
		require.Greater(t, table.AccessesLeft, uint64(0))
		require.LessOrEqual(t, table.AccessesLeft, table.AccessesPerShift)
	}
}

func assertSingleDescent(t *testing.T, m *medium.Memory, spaceSize uint32) {
	t.Helper()
	descents := 0
	for i := uint32(0); i < spaceSize; i++ {
		cur, err := trail.ReadFooter(m, i)
		require.NoError(t, err)
		next, err := trail.ReadFooter(m, (i+1)%spaceSize)
		require.NoError(t, err)
		if cur.Cmp(next) > 0 {
			descents++
		}
	}
	require.Equal(t, 1, descents)
}
