package ssz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachain/beacon-ssz-proofs/encoding/ssz"
)

func TestDepth(t *testing.T) {
	cases := []struct {
		v    uint64
		want uint8
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ssz.Depth(c.v), "Depth(%d)", c.v)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct {
		v    uint64
		want uint64
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {16, 16}, {17, 32},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ssz.NextPowerOfTwo(c.v), "NextPowerOfTwo(%d)", c.v)
	}
}

func leafBytes(b byte) [][]byte {
	chunk := make([]byte, 32)
	chunk[0] = b
	return [][]byte{chunk}
}

// TestBitwiseMerkleizeEmptyEqualsZeroHash checks that an entirely empty tree
// of a given limit reduces to the precomputed zero hash at that limit's
// depth, since that is the identity BitwiseMerkleize's padding relies on.
func TestBitwiseMerkleizeEmptyEqualsZeroHash(t *testing.T) {
	hasher := ssz.NewHasherFunc(ssz.CustomSHA256Hasher())
	root, err := ssz.BitwiseMerkleize(hasher, nil, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, ssz.ZeroHashes[2], root)
}

// TestBitwiseMerkleizeFullMatchesHandRolled checks a fully-populated
// 4-leaf tree against hashing the pairs by hand.
func TestBitwiseMerkleizeFullMatchesHandRolled(t *testing.T) {
	hasher := ssz.NewHasherFunc(ssz.CustomSHA256Hasher())
	var chunks [][]byte
	for i := byte(0); i < 4; i++ {
		chunks = append(chunks, leafBytes(i+1)[0])
	}
	root, err := ssz.BitwiseMerkleize(hasher, chunks, 4, 4)
	require.NoError(t, err)

	var c [4][32]byte
	for i := range c {
		c[i][0] = byte(i + 1)
	}
	left := ssz.Hash(c[0], c[1])
	right := ssz.Hash(c[2], c[3])
	want := ssz.Hash(left, right)
	assert.Equal(t, want, root)
}

// TestBitwiseMerkleizePartialPadsWithZeroHashes checks that a 3-of-4 tree
// pads the missing leaf with the zero chunk ZeroHashes[0]. It compares the
// resulting root only, so it does not tell apart where the zero chunk is
// read from.
func TestBitwiseMerkleizePartialPadsWithZeroHashes(t *testing.T) {
	hasher := ssz.NewHasherFunc(ssz.CustomSHA256Hasher())
	var c [3][32]byte
	for i := range c {
		c[i][0] = byte(i + 1)
	}
	chunks := [][]byte{c[0][:], c[1][:], c[2][:]}
	root, err := ssz.BitwiseMerkleize(hasher, chunks, 3, 4)
	require.NoError(t, err)

	left := ssz.Hash(c[0], c[1])
	right := ssz.Hash(c[2], ssz.ZeroHashes[0])
	want := ssz.Hash(left, right)
	assert.Equal(t, want, root)
}

func TestBitwiseMerkleizeCountExceedsLimit(t *testing.T) {
	hasher := ssz.NewHasherFunc(ssz.CustomSHA256Hasher())
	_, err := ssz.BitwiseMerkleize(hasher, nil, 5, 4)
	assert.Error(t, err)
}

func TestMixInLength(t *testing.T) {
	var root [32]byte
	root[0] = 0xAB
	got := ssz.MixInLength(root, 7)

	var lenChunk [32]byte
	lenChunk[0] = 7
	want := ssz.Hash(root, lenChunk)
	assert.Equal(t, want, got)
}

func TestPackEmpty(t *testing.T) {
	chunks, err := ssz.Pack(nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, make([]byte, 32), chunks[0])
}

func TestPackSplitsAcrossChunks(t *testing.T) {
	item := make([]byte, 40)
	for i := range item {
		item[i] = byte(i)
	}
	chunks, err := ssz.Pack([][]byte{item})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, item[:32], chunks[0])
	want1 := make([]byte, 32)
	copy(want1, item[32:40])
	assert.Equal(t, want1, chunks[1])
}

func TestMerkleizeVectorEmptyEqualsZeroHash(t *testing.T) {
	root := ssz.MerkleizeVector(nil, 8)
	assert.Equal(t, ssz.ZeroHashes[3], root)
}

func TestMerkleizeListCompositeMixesInLength(t *testing.T) {
	var a, b [32]byte
	a[0], b[0] = 1, 2
	bodyRoot, listRoot := ssz.MerkleizeListComposite([][32]byte{a, b}, 4)
	assert.Equal(t, ssz.MixInLength(bodyRoot, 2), listRoot)
}

func TestPackUint64s(t *testing.T) {
	chunks, err := ssz.PackUint64s([]uint64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	want := make([]byte, 32)
	want[0] = 1
	want[8] = 2
	want[16] = 3
	assert.Equal(t, want, chunks[0])
}
