// Package ssz implements the generic Simple Serialize (SSZ) hashing
// primitives this module builds its domain-specific merkleization on:
// the compression function, the zero-hash table, and the Hasher
// abstraction used throughout beacon/.
package ssz

import (
	"encoding/binary"
	"hash"
	"sync"

	sha256 "github.com/minio/sha256-simd"
)

// MaxTreeDepth bounds the zero-hash table. The deepest tree this module
// builds is the validator list body at depth 40 (VALIDATOR_REGISTRY_LIMIT =
// 2^40); a few extra levels of headroom cost nothing to precompute.
const MaxTreeDepth = 48

// ZeroHashes holds the Merkle root of an all-zero subtree at every depth up
// to MaxTreeDepth: ZeroHashes[0] is the zero leaf, ZeroHashes[d+1] =
// hash(ZeroHashes[d], ZeroHashes[d]). All tree padding in this module reads
// from this table rather than hashing ad-hoc zero chunks.
var ZeroHashes [MaxTreeDepth + 1][32]byte

func init() {
	for i := 0; i < MaxTreeDepth; i++ {
		ZeroHashes[i+1] = hashFn(append(ZeroHashes[i][:], ZeroHashes[i][:]...))
	}
}

// HashFn hashes an arbitrary-length input to a 32-byte digest.
type HashFn func(input []byte) [32]byte

var sha256Pool = sync.Pool{
	New: func() interface{} {
		return sha256.New()
	},
}

func hashFn(input []byte) [32]byte {
	h := sha256Pool.Get().(hash.Hash)
	defer sha256Pool.Put(h)
	h.Reset()
	var out [32]byte
	if _, err := h.Write(input); err != nil {
		panic(err)
	}
	copy(out[:], h.Sum(nil))
	return out
}

// CustomSHA256Hasher returns the SHA-256 implementation this module hashes
// with everywhere: minio/sha256-simd, pooled to avoid reallocating a hash.Hash
// on every call the way a naive sha256.Sum256 wrapper would.
func CustomSHA256Hasher() HashFn {
	return hashFn
}

// Hasher performs the three primitive tree operations every merkleization
// in this module reduces to.
type Hasher interface {
	// Hash hashes an arbitrary-length input.
	Hash(a []byte) [32]byte
	// Combi hashes the concatenation of two 32-byte siblings.
	Combi(a, b [32]byte) [32]byte
	// MixIn hashes a with a little-endian encoding of i, used for the
	// length mix-in step of Rule L list merkleization.
	MixIn(a [32]byte, i uint64) [32]byte
}

// HasherFunc is the concrete Hasher backed by a HashFn, reusing a single
// scratch buffer across calls.
type HasherFunc struct {
	b        [64]byte
	hashFunc HashFn
}

// NewHasherFunc constructs a Hasher from a HashFn.
func NewHasherFunc(h HashFn) *HasherFunc {
	return &HasherFunc{hashFunc: h}
}

func (h *HasherFunc) Hash(a []byte) [32]byte {
	return h.hashFunc(a)
}

func (h *HasherFunc) Combi(a, b [32]byte) [32]byte {
	copy(h.b[:32], a[:])
	copy(h.b[32:], b[:])
	return h.hashFunc(h.b[:])
}

func (h *HasherFunc) MixIn(a [32]byte, i uint64) [32]byte {
	copy(h.b[:32], a[:])
	for j := 32; j < 64; j++ {
		h.b[j] = 0
	}
	binary.LittleEndian.PutUint64(h.b[32:40], i)
	return h.hashFunc(h.b[:])
}

// Hash combines two 32-byte siblings with the module-wide hash function.
// Equivalent to NewHasherFunc(CustomSHA256Hasher()).Combi(a, b) but without
// needing a Hasher in hand, used by the proof extractor and verifier.
func Hash(a, b [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return hashFn(buf[:])
}
