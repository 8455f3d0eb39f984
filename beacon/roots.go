package beacon

import (
	"github.com/pkg/errors"

	"github.com/berachain/beacon-ssz-proofs/encoding/ssz"
)

// HashTreeRoot computes Fork's container root: merkleize(field_roots,
// next_pow2(3)=4).
func (f *Fork) HashTreeRoot() ([32]byte, error) {
	roots := [][]byte{
		f.PreviousVersion[:],
		f.CurrentVersion[:],
		rootSlice(ssz.Uint64Root(f.Epoch)),
	}
	return bitwiseMerkleizeContainer(roots)
}

// HashTreeRoot computes BeaconBlockHeader's container root: merkleize(field_roots, next_pow2(5)=8).
func (h *BeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	roots := [][]byte{
		rootSlice(ssz.Uint64Root(h.Slot)),
		rootSlice(ssz.Uint64Root(h.ProposerIndex)),
		h.ParentRoot[:],
		h.StateRoot[:],
		h.BodyRoot[:],
	}
	return bitwiseMerkleizeContainer(roots)
}

// HashTreeRoot computes Eth1Data's container root: merkleize(field_roots, next_pow2(3)=4).
func (e *Eth1Data) HashTreeRoot() ([32]byte, error) {
	roots := [][]byte{
		e.DepositRoot[:],
		rootSlice(ssz.Uint64Root(e.DepositCount)),
		e.BlockHash[:],
	}
	return bitwiseMerkleizeContainer(roots)
}

// HashTreeRoot computes a Validator record's container root: merkleize(field_roots, next_pow2(8)=8).
func (v *Validator) HashTreeRoot() ([32]byte, error) {
	pubkeyRoot, err := ssz.Bytes48Root(v.Pubkey[:])
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute pubkey root")
	}
	roots := [][]byte{
		rootSlice(pubkeyRoot),
		v.WithdrawalCredentials[:],
		rootSlice(ssz.Uint64Root(v.EffectiveBalance)),
		rootSlice(ssz.BoolRoot(v.Slashed)),
		rootSlice(ssz.Uint64Root(v.ActivationEligibilityEpoch)),
		rootSlice(ssz.Uint64Root(v.ActivationEpoch)),
		rootSlice(ssz.Uint64Root(v.ExitEpoch)),
		rootSlice(ssz.Uint64Root(v.WithdrawableEpoch)),
	}
	return bitwiseMerkleizeContainer(roots)
}

// validatorsRoot implements Rule L for the validators list: the element
// roots are merkleized as if they were a Vector[Validator,
// ValidatorRegistryLimit] (not a derived chunk_limit — validators are
// composite elements, so the canonical and Rule L chunk limits coincide
// here), and the body root is mixed in with the element count.
func validatorsRoot(validators []Validator) (bodyRoot, listRoot [32]byte, err error) {
	roots := make([][32]byte, len(validators))
	for i := range validators {
		roots[i], err = validators[i].HashTreeRoot()
		if err != nil {
			return [32]byte{}, [32]byte{}, errors.Wrapf(err, "validator %d", i)
		}
	}
	body, root := ssz.MerkleizeListComposite(roots, ValidatorRegistryLimit)
	return body, root, nil
}

// balancesRoot implements Rule L for the balances list: balances are
// packed four per chunk, the chunk vector is merkleized out to
// balanceChunkLimit (= ValidatorRegistryLimit*8/32 = 2^38), and the body
// root is mixed in with the element count (not the chunk count).
func balancesRoot(balances []uint64) (bodyRoot, listRoot [32]byte, err error) {
	packed, err := ssz.PackUint64s(balances)
	if err != nil {
		return [32]byte{}, [32]byte{}, errors.Wrap(err, "could not pack balances")
	}
	chunks := make([][32]byte, len(packed))
	for i, c := range packed {
		copy(chunks[i][:], c)
	}
	body, root := ssz.MerkleizeListBasicPacked(chunks, balanceChunkLimit, uint64(len(balances)))
	return body, root, nil
}

// fixedBytes32VectorRoot computes the root of the fixed-length
// block_roots/state_roots vectors: Vector[bytes32, VectorSize].
func fixedBytes32VectorRoot(v [VectorSize][32]byte) [32]byte {
	return ssz.MerkleizeVector(v[:], VectorSize)
}

// randaoMixesRoot computes the root of Vector[bytes32, RandaoMixesLength].
func randaoMixesRoot(v [RandaoMixesLength][32]byte) [32]byte {
	return ssz.MerkleizeVector(v[:], RandaoMixesLength)
}

// slashingsRoot computes the root of Vector[uint64, VectorSize], packed
// four per chunk (VectorSize=8 fits in two chunks).
func slashingsRoot(s [VectorSize]uint64) ([32]byte, error) {
	packed, err := ssz.PackUint64s(s[:])
	if err != nil {
		return [32]byte{}, err
	}
	chunks := make([][32]byte, len(packed))
	for i, c := range packed {
		copy(chunks[i][:], c)
	}
	return ssz.MerkleizeVector(chunks, uint64(len(chunks))), nil
}

// fieldRoots computes the 16 top-level field roots of BeaconState, in
// field order. This is the one place field order is spelled out
// explicitly; swapping any two entries changes the resulting state root
// (testable property #7).
func (s *BeaconState) fieldRoots() ([][]byte, error) {
	forkRoot, err := s.Fork.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "fork root")
	}
	headerRoot, err := s.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "latest block header root")
	}
	eth1Root, err := s.Eth1Data.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "eth1 data root")
	}
	_, validatorsListRoot, err := validatorsRoot(s.Validators)
	if err != nil {
		return nil, errors.Wrap(err, "validators root")
	}
	_, balancesListRoot, err := balancesRoot(s.Balances)
	if err != nil {
		return nil, errors.Wrap(err, "balances root")
	}
	slashingsListRoot, err := slashingsRoot(s.Slashings)
	if err != nil {
		return nil, errors.Wrap(err, "slashings root")
	}

	roots := make([][]byte, BeaconStateFieldCount)
	roots[FieldGenesisValidatorsRoot] = rootSlice(s.GenesisValidatorsRoot)
	roots[FieldSlot] = rootSlice(ssz.Uint64Root(s.Slot))
	roots[FieldFork] = rootSlice(forkRoot)
	roots[FieldLatestBlockHeader] = rootSlice(headerRoot)
	roots[FieldBlockRoots] = rootSlice(fixedBytes32VectorRoot(s.BlockRoots))
	roots[FieldStateRoots] = rootSlice(fixedBytes32VectorRoot(s.StateRoots))
	roots[FieldEth1Data] = rootSlice(eth1Root)
	roots[FieldEth1DepositIndex] = rootSlice(ssz.Uint64Root(s.Eth1DepositIndex))
	roots[FieldLatestExecutionPayloadHeader] = rootSlice(s.LatestExecutionPayloadHeader.HashTreeRoot())
	roots[FieldValidators] = rootSlice(validatorsListRoot)
	roots[FieldBalances] = rootSlice(balancesListRoot)
	roots[FieldRandaoMixes] = rootSlice(randaoMixesRoot(s.RandaoMixes))
	roots[FieldNextWithdrawalIndex] = rootSlice(ssz.Uint64Root(s.NextWithdrawalIndex))
	roots[FieldNextWithdrawalValidatorIndex] = rootSlice(ssz.Uint64Root(s.NextWithdrawalValidatorIndex))
	roots[FieldSlashings] = rootSlice(slashingsListRoot)
	roots[FieldTotalSlashing] = rootSlice(ssz.Uint64Root(s.TotalSlashing))
	return roots, nil
}

// HashTreeRoot computes BeaconState's container root: merkleize the 16
// field roots at limit=16 (already a power of two, depth 4). Callers that
// need a proof-ready root should go through ComputeStateRoot so the
// pre-merkleization mutation is applied first.
func (s *BeaconState) HashTreeRoot() ([32]byte, error) {
	roots, err := s.fieldRoots()
	if err != nil {
		return [32]byte{}, err
	}
	return bitwiseMerkleizeContainer(roots)
}

func bitwiseMerkleizeContainer(roots [][]byte) ([32]byte, error) {
	count := uint64(len(roots))
	limit := ssz.NextPowerOfTwo(count)
	hasher := ssz.NewHasherFunc(ssz.CustomSHA256Hasher())
	return ssz.BitwiseMerkleize(hasher, roots, count, limit)
}

func rootSlice(r [32]byte) []byte {
	out := make([]byte, 32)
	copy(out, r[:])
	return out
}
