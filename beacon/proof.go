package beacon

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/berachain/beacon-ssz-proofs/encoding/ssz"
)

// ValidatorProof is the result of generate_validator_proof: a witness that
// a specific validator record is present at a specific position within a
// specific BeaconState root.
type ValidatorProof struct {
	Root           [32]byte
	Proof          [][32]byte
	GIndex         uint64
	Leaf           [32]byte
	Validator      Validator
	ValidatorIndex uint64
}

// BalanceProof is the result of generate_balance_proof: a witness that a
// specific 32-byte balance chunk — covering four consecutive validators'
// balances — is present at a specific position within a specific
// BeaconState root.
type BalanceProof struct {
	Root           [32]byte
	Proof          [][32]byte
	GIndex         uint64
	Leaf           [32]byte
	BalancesRoot   [32]byte
	Balance        uint64
	ValidatorIndex uint64
}

// CombinedProof is the result of generate_combined_proof: a validator
// proof and a balance proof extracted from one mutated state, sharing a
// single root.
type CombinedProof struct {
	Root      [32]byte
	Validator ValidatorProof
	Balance   BalanceProof
}

// ComputeStateRoot implements the compute_state_root external operation:
// it applies the pre-merkleization mutation and returns the resulting
// hash_tree_root.
func ComputeStateRoot(state *BeaconState, prevStateRoot, prevBlockRoot [32]byte) ([32]byte, error) {
	if err := state.Mutate(prevStateRoot, prevBlockRoot); err != nil {
		return [32]byte{}, err
	}
	return state.HashTreeRoot()
}

// ResolveValidatorIndex resolves an identifier that is either a decimal
// validator index or a 0x-prefixed 48-byte pubkey to a validator index,
// reproducing bera_proofs.main's identifier handling.
func ResolveValidatorIndex(state *BeaconState, identifier string) (uint64, error) {
	if strings.HasPrefix(identifier, "0x") || strings.HasPrefix(identifier, "0X") {
		decoded, err := hexutil.Decode(identifier)
		if err != nil || len(decoded) != 48 {
			return 0, errors.Wrapf(ErrInvalidInput, "pubkey %q is not valid 48-byte hex", identifier)
		}
		var pubkey [48]byte
		copy(pubkey[:], decoded)
		for i := range state.Validators {
			if state.Validators[i].Pubkey == pubkey {
				return uint64(i), nil
			}
		}
		return 0, errors.Wrapf(ErrValidatorNotFound, "no validator with pubkey %q", identifier)
	}

	idx, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidInput, "identifier %q is neither a decimal index nor a pubkey", identifier)
	}
	if idx >= uint64(len(state.Validators)) {
		return 0, errors.Wrapf(ErrValidatorNotFound, "validator index %d >= %d validators", idx, len(state.Validators))
	}
	return idx, nil
}

// GenerateValidatorProof implements the generate_validator_proof external
// operation: it mutates state once and extracts a witness for validator
// index's full record root.
func GenerateValidatorProof(state *BeaconState, identifier string, prevStateRoot, prevBlockRoot [32]byte) (*ValidatorProof, error) {
	if err := state.Mutate(prevStateRoot, prevBlockRoot); err != nil {
		return nil, err
	}
	index, err := ResolveValidatorIndex(state, identifier)
	if err != nil {
		return nil, err
	}
	return validatorProof(state, index)
}

// GenerateBalanceProof implements the generate_balance_proof external
// operation.
func GenerateBalanceProof(state *BeaconState, identifier string, prevStateRoot, prevBlockRoot [32]byte) (*BalanceProof, error) {
	if err := state.Mutate(prevStateRoot, prevBlockRoot); err != nil {
		return nil, err
	}
	index, err := ResolveValidatorIndex(state, identifier)
	if err != nil {
		return nil, err
	}
	return balanceProof(state, index)
}

// GenerateCombinedProof implements the generate_combined_proof external
// operation, mutating state exactly once and deriving both proofs from
// the same tree.
func GenerateCombinedProof(state *BeaconState, identifier string, prevStateRoot, prevBlockRoot [32]byte) (*CombinedProof, error) {
	if err := state.Mutate(prevStateRoot, prevBlockRoot); err != nil {
		return nil, err
	}
	index, err := ResolveValidatorIndex(state, identifier)
	if err != nil {
		return nil, err
	}
	vp, err := validatorProof(state, index)
	if err != nil {
		return nil, err
	}
	bp, err := balanceProof(state, index)
	if err != nil {
		return nil, err
	}
	return &CombinedProof{Root: vp.Root, Validator: *vp, Balance: *bp}, nil
}

// validatorProof assumes state has already been mutated.
func validatorProof(state *BeaconState, index uint64) (*ValidatorProof, error) {
	leafRoots := make([][32]byte, len(state.Validators))
	for i := range state.Validators {
		r, err := state.Validators[i].HashTreeRoot()
		if err != nil {
			return nil, errors.Wrapf(err, "validator %d", i)
		}
		leafRoots[i] = r
	}

	bodySiblings, err := fixedCapacityProof(leafRoots, index, 40)
	if err != nil {
		return nil, err
	}

	lengthLeaf := lengthChunk(uint64(len(state.Validators)))
	siblings := append(bodySiblings, lengthLeaf)

	fieldRoots, err := state.fieldRoots()
	if err != nil {
		return nil, err
	}
	containerSiblings, err := completeTreeProof(toRootArray(fieldRoots), FieldValidators)
	if err != nil {
		return nil, err
	}
	siblings = append(siblings, containerSiblings...)

	root, err := state.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	gindex, err := ValidatorGIndex(index)
	if err != nil {
		return nil, err
	}

	return &ValidatorProof{
		Root:           root,
		Proof:          siblings,
		GIndex:         gindex,
		Leaf:           leafRoots[index],
		Validator:      state.Validators[index],
		ValidatorIndex: index,
	}, nil
}

// balanceProof assumes state has already been mutated.
func balanceProof(state *BeaconState, index uint64) (*BalanceProof, error) {
	if index >= uint64(len(state.Balances)) {
		return nil, errors.Wrapf(ErrValidatorNotFound, "validator index %d >= %d balances", index, len(state.Balances))
	}
	packed, err := ssz.PackUint64s(state.Balances)
	if err != nil {
		return nil, errors.Wrap(err, "could not pack balances")
	}
	chunks := make([][32]byte, len(packed))
	for i, c := range packed {
		copy(chunks[i][:], c)
	}

	chunkIndex := index / 4
	bodySiblings, err := fixedCapacityProof(chunks, chunkIndex, 38)
	if err != nil {
		return nil, err
	}

	lengthLeaf := lengthChunk(uint64(len(state.Balances)))
	siblings := append(bodySiblings, lengthLeaf)

	fieldRoots, err := state.fieldRoots()
	if err != nil {
		return nil, err
	}
	containerSiblings, err := completeTreeProof(toRootArray(fieldRoots), FieldBalances)
	if err != nil {
		return nil, err
	}
	siblings = append(siblings, containerSiblings...)

	root, err := state.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	_, balancesListRoot, err := balancesRoot(state.Balances)
	if err != nil {
		return nil, err
	}
	gindex, _, err := BalanceChunkGIndex(index)
	if err != nil {
		return nil, err
	}

	return &BalanceProof{
		Root:           root,
		Proof:          siblings,
		GIndex:         gindex,
		Leaf:           chunks[chunkIndex],
		BalancesRoot:   balancesListRoot,
		Balance:        state.Balances[index],
		ValidatorIndex: index,
	}, nil
}

// VerifyProof folds hash(current, sibling) or hash(sibling, current) from
// leaf up through proof according to the bits of g, and reports whether
// the result equals root. This is the verifier side of §4.7: it is kept
// in the core (rather than only in a collaborator) because it is the
// direct dual of the extractor and is exercised by this package's own
// tests as the proof-soundness property.
func VerifyProof(leaf [32]byte, proof [][32]byte, g uint64, root [32]byte) bool {
	if len(proof) != pathDepth(g) {
		return false
	}
	current := leaf
	for level, sibling := range proof {
		if pathBit(g, level) == 1 {
			current = ssz.Hash(sibling, current)
		} else {
			current = ssz.Hash(current, sibling)
		}
	}
	return current == root
}

// fixedCapacityProof builds a Merkle proof for index within a tree of
// exactly 2^depth leaves, where leaves[0:len(leaves)] are real data and
// the remaining 2^depth-len(leaves) positions are implicit zero leaves.
// It never materializes more than O(len(leaves)) nodes at any level,
// which is what makes a depth-40 validator tree tractable. Ported from
// bera_proofs.ssz.merkle.proof.get_fixed_capacity_proof.
func fixedCapacityProof(leaves [][32]byte, index uint64, depth int) ([][32]byte, error) {
	if index >= uint64(len(leaves)) {
		return nil, errors.Wrapf(ErrInternalInvariant, "index %d out of range for %d real leaves", index, len(leaves))
	}
	proof := make([][32]byte, depth)
	cur := leaves
	numReal := uint64(len(leaves))
	curIndex := index

	for level := 0; level < depth; level++ {
		siblingIndex := curIndex ^ 1
		if siblingIndex < numReal {
			proof[level] = cur[siblingIndex]
		} else {
			proof[level] = ssz.ZeroHashes[level]
		}

		nextLen := (numReal + 1) / 2
		next := make([][32]byte, nextLen)
		for i := uint64(0); i+1 < numReal; i += 2 {
			next[i/2] = ssz.Hash(cur[i], cur[i+1])
		}
		if numReal%2 == 1 {
			next[numReal/2] = ssz.Hash(cur[numReal-1], ssz.ZeroHashes[level])
		}
		cur = next
		numReal = nextLen
		curIndex /= 2
	}
	return proof, nil
}

// completeTreeProof builds a Merkle proof for fieldIndex within the small
// (16-leaf) BeaconState field-root tree, which is a power of two and
// cheap to materialize directly.
func completeTreeProof(leaves [][32]byte, fieldIndex int) ([][32]byte, error) {
	if fieldIndex < 0 || fieldIndex >= len(leaves) {
		return nil, errors.Wrap(ErrInternalInvariant, "field index out of range")
	}
	depth := int(ssz.Depth(uint64(len(leaves))))
	proof := make([][32]byte, depth)
	layer := leaves
	idx := fieldIndex
	for level := 0; level < depth; level++ {
		siblingIdx := idx ^ 1
		if siblingIdx < len(layer) {
			proof[level] = layer[siblingIdx]
		} else {
			proof[level] = ssz.ZeroHashes[level]
		}
		next := make([][32]byte, (len(layer)+1)/2)
		for i := 0; i+1 < len(layer); i += 2 {
			next[i/2] = ssz.Hash(layer[i], layer[i+1])
		}
		if len(layer)%2 == 1 {
			next[len(layer)/2] = ssz.Hash(layer[len(layer)-1], ssz.ZeroHashes[level])
		}
		layer = next
		idx /= 2
	}
	return proof, nil
}

func toRootArray(roots [][]byte) [][32]byte {
	out := make([][32]byte, len(roots))
	for i, r := range roots {
		copy(out[i][:], r)
	}
	return out
}

// lengthChunk encodes n as the little-endian 32-byte length sibling
// contributed by a list's mix-in step: list_root = hash(body_root,
// lengthChunk(len)), so this value (not a further hash of it) is the
// sibling a proof walking up from the body must present.
func lengthChunk(n uint64) [32]byte {
	var b [32]byte
	putUint64LE(b[:8], n)
	return b
}

func putUint64LE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}
