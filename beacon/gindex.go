package beacon

import "github.com/pkg/errors"

// Generalized indices address nodes of a complete binary tree with a
// single 1-based integer: the root is 1, and the children of g are 2g
// (left) and 2g+1 (right). Reading the bits of g from the first bit after
// the leading 1 down to the least-significant bit gives the left/right
// turns from the root down to that node.
//
// gconcat composes a sequence of generalized indices, each relative to
// the subtree rooted at the previous one, into a single generalized index
// relative to the outermost root. This is the standard SSZ
// concat_generalized_indices algorithm (the same algebra
// github.com/protolambda/ztyp implements, an indirect dependency of the
// teacher repo); it is reimplemented here rather than imported because the
// whole of its use in this module is this one four-line reduction.
func gconcat(indices ...uint64) uint64 {
	o := uint64(1)
	for _, idx := range indices {
		p := previousPowerOfTwo(idx)
		o = o*p + (idx - p)
	}
	return o
}

// previousPowerOfTwo returns the largest power of two <= v (0 for v == 0).
func previousPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	p := uint64(1)
	for p*2 <= v {
		p *= 2
	}
	return p
}

// intoBody is the generalized index, relative to a list's root, of that
// list's body subtree: a list root is hash(body_root, length), so the
// body is the root's left child.
const intoBody = 2

// stateFieldGIndex is the generalized index of BeaconState field k,
// relative to the state root. BeaconStateFieldCount is already a power of
// two, so the local generalized index is exactly BeaconStateFieldCount+k
// (spec §4.6).
func stateFieldGIndex(field int) uint64 {
	return uint64(BeaconStateFieldCount + field)
}

// ValidatorGIndex returns the generalized index of validator index n's
// full record root within the BeaconState tree: state -> validators field
// -> list body -> depth-40 vector slot n.
func ValidatorGIndex(n uint64) (uint64, error) {
	if n >= ValidatorRegistryLimit {
		return 0, errors.Wrapf(ErrLimitExceeded, "validator index %d exceeds registry limit", n)
	}
	depth := uint64(40)
	leaf := (uint64(1) << depth) | n
	return gconcat(stateFieldGIndex(FieldValidators), intoBody, leaf), nil
}

// BalanceChunkGIndex returns the generalized index of the 32-byte chunk
// holding validator index n's balance (four balances per chunk) within
// the BeaconState tree: state -> balances field -> list body -> depth-38
// chunk vector slot n/4. The lane offset of n within that chunk is n%4,
// an 8-byte window at byte offset 8*(n%4).
func BalanceChunkGIndex(n uint64) (gindex uint64, lane uint64, err error) {
	if n >= ValidatorRegistryLimit {
		return 0, 0, errors.Wrapf(ErrLimitExceeded, "validator index %d exceeds registry limit", n)
	}
	const depth = 38 // log2(ValidatorRegistryLimit*8/32)
	chunkIndex := n / 4
	lane = n % 4
	leaf := (uint64(1) << depth) | chunkIndex
	gindex = gconcat(stateFieldGIndex(FieldBalances), intoBody, leaf)
	return gindex, lane, nil
}

// pathDepth returns the number of levels between the root and g, i.e. the
// bit length of g minus one.
func pathDepth(g uint64) int {
	depth := 0
	for g > 1 {
		g >>= 1
		depth++
	}
	return depth
}

// pathBit returns the bit of g at the given level, where level 0 is the
// bit closest to the leaf (the least-significant bit) and level
// pathDepth(g)-1 is the bit closest to the root. A 0 bit means the node at
// that level is a left child; a 1 bit means it is a right child.
func pathBit(g uint64, level int) uint64 {
	return (g >> uint(level)) & 1
}
