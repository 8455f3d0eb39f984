package ssz_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachain/beacon-ssz-proofs/encoding/ssz"
)

func TestUint64Root(t *testing.T) {
	want := [32]byte{1, 0, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, want, ssz.Uint64Root(1))
}

func TestBoolRoot(t *testing.T) {
	var want [32]byte
	want[0] = 1
	assert.Equal(t, want, ssz.BoolRoot(true))
	assert.Equal(t, [32]byte{}, ssz.BoolRoot(false))
}

func TestBytesRootRejectsOversize(t *testing.T) {
	_, err := ssz.BytesRoot(make([]byte, 33))
	assert.Error(t, err)
}

func TestBytes48RootRejectsWrongLength(t *testing.T) {
	_, err := ssz.Bytes48Root(make([]byte, 47))
	assert.Error(t, err)
}

func TestBytes48RootMatchesTwoLeafMerkleize(t *testing.T) {
	b := make([]byte, 48)
	for i := range b {
		b[i] = byte(i)
	}
	got, err := ssz.Bytes48Root(b)
	require.NoError(t, err)

	var chunk0, chunk1 [32]byte
	copy(chunk0[:], b[:32])
	copy(chunk1[:], b[32:48])
	assert.Equal(t, ssz.Hash(chunk0, chunk1), got)
}

func TestByteVectorRoot(t *testing.T) {
	b := make([]byte, 64)
	b[0], b[32] = 1, 2
	got, err := ssz.ByteVectorRoot(b)
	require.NoError(t, err)

	var c0, c1 [32]byte
	c0[0], c1[0] = 1, 2
	assert.Equal(t, ssz.Hash(c0, c1), got)
}

func TestUint256Root(t *testing.T) {
	v := uint256.NewInt(256)
	got := ssz.Uint256Root(v)
	want := [32]byte{0, 1}
	assert.Equal(t, want, got)
}

func TestByteListRootEmpty(t *testing.T) {
	got, err := ssz.ByteListRoot(nil, 32)
	require.NoError(t, err)
	assert.Equal(t, ssz.MixInLength([32]byte{}, 0), got)
}

func TestByteListRootExceedsLimit(t *testing.T) {
	_, err := ssz.ByteListRoot(make([]byte, 33), 32)
	assert.Error(t, err)
}

func TestPackUint64sMultiChunk(t *testing.T) {
	values := []uint64{1, 2, 3, 4, 5}
	chunks, err := ssz.PackUint64s(values)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, byte(5), chunks[1][0])
}
