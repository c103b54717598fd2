package filemeta_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stfs/internal/stfs/filemeta"
)

func sampleEntries() []filemeta.Entry {
	now := time.Unix(1_700_000_000, 0).UTC()
	return []filemeta.Entry{
		{Start: 0, Len: 128, Flags: 1, Modified: now, Accessed: now, Created: now, Path: "/readme.txt"},
		{Start: 128, Len: 4096, Flags: 0, Modified: now, Accessed: now, Created: now, Path: "/data/big.bin"},
	}
}

func TestRoundTripUncompressed(t *testing.T) {
	encoded, err := filemeta.EncodeEntries(sampleEntries(), false)
	require.NoError(t, err)

	decoded, err := filemeta.DecodeEntries(encoded)
	require.NoError(t, err)
	require.Equal(t, sampleEntries(), decoded)
}

func TestRoundTripCompressed(t *testing.T) {
	encoded, err := filemeta.EncodeEntries(sampleEntries(), true)
	require.NoError(t, err)

	decoded, err := filemeta.DecodeEntries(encoded)
	require.NoError(t, err)
	require.Equal(t, sampleEntries(), decoded)
}

func TestDecodeEmpty(t *testing.T) {
	decoded, err := filemeta.DecodeEntries(nil)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestChecksumMismatch(t *testing.T) {
	encoded, err := filemeta.EncodeEntries(sampleEntries(), false)
	require.NoError(t, err)

	corrupted := append([]byte(nil), encoded...)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err = filemeta.DecodeEntries(corrupted)
	require.Error(t, err)
}
