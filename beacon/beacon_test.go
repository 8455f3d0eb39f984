package beacon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachain/beacon-ssz-proofs/beacon"
)

func newTestState(numValidators int) *beacon.BeaconState {
	s := &beacon.BeaconState{
		Slot:             12345,
		Eth1DepositIndex: 3,
	}
	s.GenesisValidatorsRoot[0] = 0xAA
	s.Fork.Epoch = 7
	s.LatestBlockHeader.Slot = s.Slot
	s.LatestBlockHeader.ProposerIndex = 2
	s.LatestExecutionPayloadHeader.Root[0] = 0xEE

	for i := 0; i < numValidators; i++ {
		var v beacon.Validator
		v.Pubkey[0] = byte(i + 1)
		v.EffectiveBalance = uint64(32_000_000_000 + i)
		v.ExitEpoch = 1<<64 - 1
		s.Validators = append(s.Validators, v)
		s.Balances = append(s.Balances, v.EffectiveBalance)
	}
	return s
}

func TestHashTreeRootDeterministic(t *testing.T) {
	s1 := newTestState(5)
	s2 := newTestState(5)
	root1, err := s1.HashTreeRoot()
	require.NoError(t, err)
	root2, err := s2.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, root1, root2)
}

// TestHashTreeRootFieldOrderMatters pins property #7: swapping two field
// values (here, Slot and Eth1DepositIndex, both uint64) changes the root.
func TestHashTreeRootFieldOrderMatters(t *testing.T) {
	s := newTestState(3)
	root, err := s.HashTreeRoot()
	require.NoError(t, err)

	s.Slot, s.Eth1DepositIndex = s.Eth1DepositIndex, s.Slot
	swapped, err := s.HashTreeRoot()
	require.NoError(t, err)

	assert.NotEqual(t, root, swapped)
}

func TestMutateIsAppliedOnce(t *testing.T) {
	s := newTestState(2)
	var prevStateRoot, prevBlockRoot [32]byte
	prevStateRoot[0], prevBlockRoot[0] = 1, 2

	require.NoError(t, s.Mutate(prevStateRoot, prevBlockRoot))
	assert.Equal(t, [32]byte{}, s.LatestBlockHeader.StateRoot)
	assert.Equal(t, prevStateRoot, s.StateRoots[s.Slot%beacon.VectorSize])
	assert.Equal(t, prevBlockRoot, s.BlockRoots[s.Slot%beacon.VectorSize])

	err := s.Mutate(prevStateRoot, prevBlockRoot)
	assert.ErrorIs(t, err, beacon.ErrInternalInvariant)
}

func TestResolveValidatorIndexByIndex(t *testing.T) {
	s := newTestState(4)
	idx, err := beacon.ResolveValidatorIndex(s, "2")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), idx)
}

func TestResolveValidatorIndexByPubkey(t *testing.T) {
	s := newTestState(4)
	pubkey := "0x" + hexString(s.Validators[3].Pubkey[:])
	idx, err := beacon.ResolveValidatorIndex(s, pubkey)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), idx)
}

func TestResolveValidatorIndexOutOfRange(t *testing.T) {
	s := newTestState(2)
	_, err := beacon.ResolveValidatorIndex(s, "99")
	assert.ErrorIs(t, err, beacon.ErrValidatorNotFound)
}

func TestResolveValidatorIndexUnknownPubkey(t *testing.T) {
	s := newTestState(2)
	_, err := beacon.ResolveValidatorIndex(s, "0x"+hexString(make([]byte, 48)))
	assert.ErrorIs(t, err, beacon.ErrValidatorNotFound)
}

// TestGenerateValidatorProofVerifies round-trips GenerateValidatorProof
// through VerifyProof against the proof's own root, gindex, and leaf.
func TestGenerateValidatorProofVerifies(t *testing.T) {
	s := newTestState(6)
	var prevStateRoot, prevBlockRoot [32]byte
	prevStateRoot[0], prevBlockRoot[0] = 9, 10

	proof, err := beacon.GenerateValidatorProof(s, "4", prevStateRoot, prevBlockRoot)
	require.NoError(t, err)
	assert.True(t, beacon.VerifyProof(proof.Leaf, proof.Proof, proof.GIndex, proof.Root))

	// A flipped leaf byte must not verify.
	badLeaf := proof.Leaf
	badLeaf[0] ^= 0xFF
	assert.False(t, beacon.VerifyProof(badLeaf, proof.Proof, proof.GIndex, proof.Root))
}

func TestGenerateBalanceProofVerifies(t *testing.T) {
	s := newTestState(9) // spans two balance chunks (4 validators/chunk)
	var prevStateRoot, prevBlockRoot [32]byte
	prevStateRoot[0], prevBlockRoot[0] = 1, 1

	proof, err := beacon.GenerateBalanceProof(s, "7", prevStateRoot, prevBlockRoot)
	require.NoError(t, err)
	assert.True(t, beacon.VerifyProof(proof.Leaf, proof.Proof, proof.GIndex, proof.Root))
}

// TestGenerateCombinedProofSharesRoot checks that both halves of a combined
// proof are extracted from the same mutated tree.
func TestGenerateCombinedProofSharesRoot(t *testing.T) {
	s := newTestState(5)
	var prevStateRoot, prevBlockRoot [32]byte
	prevStateRoot[0], prevBlockRoot[0] = 3, 4

	proof, err := beacon.GenerateCombinedProof(s, "1", prevStateRoot, prevBlockRoot)
	require.NoError(t, err)
	assert.Equal(t, proof.Root, proof.Validator.Root)
	assert.Equal(t, proof.Root, proof.Balance.Root)
	assert.True(t, beacon.VerifyProof(proof.Validator.Leaf, proof.Validator.Proof, proof.Validator.GIndex, proof.Root))
	assert.True(t, beacon.VerifyProof(proof.Balance.Leaf, proof.Balance.Proof, proof.Balance.GIndex, proof.Root))
}

func TestValidatorGIndexRejectsOutOfRange(t *testing.T) {
	_, err := beacon.ValidatorGIndex(beacon.ValidatorRegistryLimit)
	assert.ErrorIs(t, err, beacon.ErrLimitExceeded)
}

func TestDeriveHistoricalRootsRejectsNil(t *testing.T) {
	_, _, err := beacon.DeriveHistoricalRoots(nil)
	assert.ErrorIs(t, err, beacon.ErrMissingHistoricalRoots)
}

func hexString(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0F]
	}
	return string(out)
}
