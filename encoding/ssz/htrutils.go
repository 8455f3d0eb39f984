package ssz

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Uint64Root computes the hash_tree_root of a single uint64 value: eight
// little-endian bytes, right-padded with zeros to a full chunk.
func Uint64Root(val uint64) [32]byte {
	var root [32]byte
	binary.LittleEndian.PutUint64(root[:8], val)
	return root
}

// BoolRoot computes the hash_tree_root of a single bool value.
func BoolRoot(val bool) [32]byte {
	var root [32]byte
	if val {
		root[0] = 1
	}
	return root
}

// BytesRoot copies a byte slice of length <= 32 into a single chunk,
// right-padded with zeros. It is the hash_tree_root of any basic byteN type
// that fits in one chunk (bytes4, bytes20, bytes32).
func BytesRoot(b []byte) ([32]byte, error) {
	var root [32]byte
	if len(b) > 32 {
		return root, errors.Errorf("byte value of length %d does not fit in a single chunk", len(b))
	}
	copy(root[:], b)
	return root, nil
}

// Bytes48Root computes the hash_tree_root of a 48-byte value (a BLS
// pubkey): it is chunked into two 32-byte chunks, the second right-padded
// with 16 zero bytes, and merkleized as a 2-leaf vector.
func Bytes48Root(b []byte) ([32]byte, error) {
	if len(b) != 48 {
		return [32]byte{}, errors.Errorf("expected 48 bytes, got %d", len(b))
	}
	var chunk0, chunk1 [32]byte
	copy(chunk0[:], b[:32])
	copy(chunk1[:], b[32:48])
	return Hash(chunk0, chunk1), nil
}

// ByteVectorRoot computes the hash_tree_root of a fixed-length byte vector
// longer than 32 bytes (e.g. ExecutionPayloadHeader's logs_bloom), by
// chunking it and merkleizing at the vector's own chunk count as the limit.
func ByteVectorRoot(b []byte) ([32]byte, error) {
	chunks, err := Pack([][]byte{b})
	if err != nil {
		return [32]byte{}, err
	}
	return BitwiseMerkleize(NewHasherFunc(CustomSHA256Hasher()), chunks, uint64(len(chunks)), uint64(len(chunks)))
}

// PackUint64s packs a sequence of uint64 values into 32-byte chunks, four
// values per chunk, right-zero-padding the final chunk.
func PackUint64s(values []uint64) ([][]byte, error) {
	serialized := make([][]byte, len(values))
	for i, v := range values {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, v)
		serialized[i] = buf
	}
	return Pack(serialized)
}

// Uint256Root computes the hash_tree_root of a single uint256 value: its
// 32-byte little-endian encoding, which is already a full chunk.
func Uint256Root(val *uint256.Int) [32]byte {
	var root [32]byte
	b := val.Bytes32()
	// uint256.Bytes32 is big-endian; SSZ basic types are little-endian.
	for i := 0; i < 32; i++ {
		root[i] = b[31-i]
	}
	return root
}

// ByteListRoot computes the hash_tree_root of a SSZ ByteList[limit] value:
// b is chunked and merkleized out to ceil(limit/32) chunks, then mixed with
// len(b). ExecutionPayloadHeader.extra_data is the only user of this in this
// module.
func ByteListRoot(b []byte, limit uint64) ([32]byte, error) {
	if uint64(len(b)) > limit {
		return [32]byte{}, errors.Errorf("byte list of length %d exceeds limit %d", len(b), limit)
	}
	chunks, err := Pack([][]byte{b})
	if err != nil {
		return [32]byte{}, err
	}
	chunkLimit := (limit + 31) / 32
	bodyRoot, err := BitwiseMerkleize(NewHasherFunc(CustomSHA256Hasher()), chunks, uint64(len(chunks)), chunkLimit)
	if err != nil {
		return [32]byte{}, err
	}
	return MixInLength(bodyRoot, uint64(len(b))), nil
}
