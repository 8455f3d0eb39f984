package ssz

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/gohashtree"
)

var errTooManyChunks = errors.New("merkleizing more chunks than the declared limit")

// Depth returns the number of levels between the root and a tree of v
// leaves, i.e. ceil(log2(v)), with Depth(0) = Depth(1) = 0.
func Depth(v uint64) (out uint8) {
	if v <= 1 {
		return 0
	}
	v--
	for v > 0 {
		v >>= 1
		out++
	}
	return
}

// NextPowerOfTwo returns the smallest power of two >= v, with a floor of 1.
func NextPowerOfTwo(v uint64) uint64 {
	if v <= 1 {
		return 1
	}
	return uint64(1) << Depth(v)
}

// BitwiseMerkleize reduces count chunks (right-padded with ZeroHashes up to
// limit) to a single 32-byte root. It pads the chunk list up to the next
// power of two of limit with zero hashes at the correct depth, then
// pair-hashes bottom-up to the root. A limit of zero returns the zero
// chunk, and a limit that is not itself a power of two is treated as the
// next power of two. Padding always reads ZeroHashes at each depth, never
// hashes ad-hoc zero chunks.
func BitwiseMerkleize(hasher Hasher, chunks [][]byte, count, limit uint64) ([32]byte, error) {
	if count > limit {
		return [32]byte{}, errors.Wrapf(errTooManyChunks, "count %d limit %d", count, limit)
	}
	if limit == 0 {
		return [32]byte{}, nil
	}
	if limit == 1 {
		var out [32]byte
		if count == 1 {
			copy(out[:], chunks[0])
		}
		return out, nil
	}

	limitDepth := Depth(limit)
	// layer holds the current level's nodes, built only out to count
	// (the "real" data); anything to the right of it at this level is an
	// implicit zero subtree represented by ZeroHashes[level].
	layer := make([][32]byte, count)
	for i := uint64(0); i < count; i++ {
		copy(layer[i][:], chunks[i])
	}

	for level := uint8(0); level < limitDepth; level++ {
		n := len(layer)
		next := make([][32]byte, (n+1)/2)
		for i := 0; i < n/2; i++ {
			next[i] = hasher.Combi(layer[2*i], layer[2*i+1])
		}
		if n%2 == 1 {
			next[n/2] = hasher.Combi(layer[n-1], ZeroHashes[level])
		}
		if n == 0 {
			// The whole remaining subtree at this level and above is
			// zero; ZeroHashes already holds that root directly.
			return ZeroHashes[limitDepth], nil
		}
		layer = next
	}
	if len(layer) != 1 {
		return [32]byte{}, errors.New("merkleize did not reduce to a single root")
	}
	return layer[0], nil
}

// MixInLength hashes a body root together with a little-endian, 32-byte-wide
// encoding of length, per SSZ's length mix-in rule.
func MixInLength(root [32]byte, length uint64) [32]byte {
	var lenBuf [32]byte
	binary.LittleEndian.PutUint64(lenBuf[:8], length)
	return Hash(root, lenBuf)
}

// Pack concatenates a sequence of serialized basic-type values and splits
// the result into 32-byte chunks, right-zero-padding the final chunk. This
// is the packing step used for vectors/lists of basic elements (uint64,
// bool, bytesN) before merkleization.
func Pack(serializedItems [][]byte) ([][]byte, error) {
	var buf []byte
	for _, item := range serializedItems {
		buf = append(buf, item...)
	}
	if len(buf) == 0 {
		return [][]byte{make([]byte, 32)}, nil
	}
	numChunks := (len(buf) + 31) / 32
	chunks := make([][]byte, numChunks)
	for i := 0; i < numChunks; i++ {
		chunk := make([]byte, 32)
		start := i * 32
		end := start + 32
		if end > len(buf) {
			end = len(buf)
		}
		copy(chunk, buf[start:end])
		chunks[i] = chunk
	}
	return chunks, nil
}

// MerkleizeVector hashes a vector of precomputed 32-byte chunks/roots to a
// fixed length, using gohashtree's vectorized batch hashing for the bulk of
// the work the way encoding/ssz/merkleize.go does for randao_mixes and
// validator record roots in the teacher repo.
func MerkleizeVector(elements [][32]byte, length uint64) [32]byte {
	depth := Depth(length)
	if len(elements) == 0 {
		return ZeroHashes[depth]
	}
	for i := uint8(0); i < depth; i++ {
		layerLen := len(elements)
		if layerLen%2 == 1 {
			elements = append(elements, ZeroHashes[i])
		}
		next := make([][32]byte, len(elements)/2)
		if err := gohashtree.Hash(next, elements); err != nil {
			// gohashtree requires an even, non-empty input; our padding
			// above guarantees that, so this can only indicate a library
			// misuse bug.
			panic(err)
		}
		elements = next
	}
	return elements[0]
}

// MerkleizeListComposite implements Rule L for a list of composite
// elements: the element roots are merkleized as if they were a
// Vector[T, limit] (not a derived chunk_limit), and the resulting body
// root is mixed with the element count.
func MerkleizeListComposite(roots [][32]byte, limit uint64) (bodyRoot, listRoot [32]byte) {
	bodyRoot = MerkleizeVector(roots, limit)
	listRoot = MixInLength(bodyRoot, uint64(len(roots)))
	return bodyRoot, listRoot
}

// MerkleizeListBasicPacked implements Rule L for a list of packed basic
// elements: chunks are merkleized out to chunkLimit, and the body root is
// mixed in with numElements (the list's element count, not its chunk
// count).
func MerkleizeListBasicPacked(chunks [][32]byte, chunkLimit, numElements uint64) (bodyRoot, listRoot [32]byte) {
	bodyRoot = MerkleizeVector(chunks, chunkLimit)
	listRoot = MixInLength(bodyRoot, numElements)
	return bodyRoot, listRoot
}
