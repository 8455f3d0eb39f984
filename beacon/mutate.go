package beacon

import "github.com/pkg/errors"

// Mutate applies Berachain's pre-merkleization state mutation exactly
// once:
//
//  1. Zero latest_block_header.state_root.
//  2. Inject (prevStateRoot, prevBlockRoot) into state_roots[i] and
//     block_roots[i], where i = slot mod VectorSize.
//
// Berachain computes its canonical state root only after these
// mutations; a root or proof computed without them will not match the
// live block-proposer proof endpoint. The mutation itself is idempotent
// given identical inputs, but Mutate is guarded by a flag: any second call
// on the same state returns ErrInternalInvariant, whatever its inputs, so
// a caller passing different historical roots gets a clear error rather
// than a silently wrong state.
func (s *BeaconState) Mutate(prevStateRoot, prevBlockRoot [32]byte) error {
	if s.mutated {
		return errors.Wrap(ErrInternalInvariant, "state already mutated")
	}
	s.LatestBlockHeader.StateRoot = [32]byte{}

	i := s.Slot % VectorSize
	s.StateRoots[i] = prevStateRoot
	s.BlockRoots[i] = prevBlockRoot

	s.mutated = true
	return nil
}

// DeriveHistoricalRoots computes (prevStateRoot, prevBlockRoot) from a
// second BeaconState snapshot taken VectorSize slots earlier, per the
// historical-roots provider interface described in the external
// interfaces section: prevStateRoot is the hash_tree_root of the older
// state after its latest_block_header.state_root has been zeroed;
// prevBlockRoot is the hash_tree_root of that older state's
// latest_block_header after the same zeroing. No historical roots are
// injected into the older state's own block_roots/state_roots vectors:
// they are hashed as loaded. The zeroing is done in place on old.
//
// This reproduces bera_proofs.main._generate_state_root's treatment of the
// eight-slots-earlier snapshot.
func DeriveHistoricalRoots(old *BeaconState) (prevStateRoot, prevBlockRoot [32]byte, err error) {
	if old == nil {
		return [32]byte{}, [32]byte{}, errors.Wrap(ErrMissingHistoricalRoots, "no historical snapshot supplied")
	}
	old.LatestBlockHeader.StateRoot = [32]byte{}

	prevBlockRoot, err = old.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return [32]byte{}, [32]byte{}, errors.Wrap(err, "could not compute historical block header root")
	}
	prevStateRoot, err = old.HashTreeRoot()
	if err != nil {
		return [32]byte{}, [32]byte{}, errors.Wrap(err, "could not compute historical state root")
	}
	return prevStateRoot, prevBlockRoot, nil
}
