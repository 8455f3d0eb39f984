package beacon

import "github.com/pkg/errors"

// Error taxonomy for the proof engine. Every error the core returns wraps
// one of these sentinels so collaborators can dispatch on it with
// errors.Is while still getting a readable message. The core never
// retries and never returns a partial result; every one of these is
// fatal to the call that produced it.
var (
	// ErrInvalidInput covers malformed hex, wrong byte lengths, negative
	// integers, or an identifier that matches neither a decimal index nor
	// a 0x-prefixed pubkey.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidatorNotFound covers a validator index at or beyond
	// len(validators), or a pubkey absent from the registry.
	ErrValidatorNotFound = errors.New("validator not found")

	// ErrMissingHistoricalRoots covers a mutation that requires
	// (prev_state_root, prev_block_root) when neither was supplied and
	// none could be derived.
	ErrMissingHistoricalRoots = errors.New("missing historical roots")

	// ErrLimitExceeded covers an entity exceeding its declared SSZ
	// limit, which indicates a corrupted or adversarial state.
	ErrLimitExceeded = errors.New("ssz limit exceeded")

	// ErrInternalInvariant covers a broken precondition inside the core:
	// a state passed to Mutate a second time, or a proof requested for a
	// leaf or field index outside its tree. It indicates a bug in the
	// caller or in this module, not bad input data.
	ErrInternalInvariant = errors.New("internal invariant violated")
)
