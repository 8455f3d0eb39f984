package beacon

// Fork describes a network fork boundary. Container of 3 fields.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           uint64
}

// BeaconBlockHeader is the header of a beacon chain block. Container of 5
// fields.
type BeaconBlockHeader struct {
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

// Eth1Data carries Ethereum 1.0 chain data observed by the beacon chain.
// Container of 3 fields.
type Eth1Data struct {
	DepositRoot  [32]byte
	DepositCount uint64
	BlockHash    [32]byte
}

// Validator is a single beacon chain validator record. Container of 8
// fields.
type Validator struct {
	Pubkey                     [48]byte
	WithdrawalCredentials      [32]byte
	EffectiveBalance           uint64
	Slashed                    bool
	ActivationEligibilityEpoch uint64
	ActivationEpoch            uint64
	ExitEpoch                  uint64
	WithdrawableEpoch          uint64
}

// ExecutionPayloadHeader is treated as opaque by this module: only its
// hash_tree_root feeds BeaconState field 8. A full decoder of its
// execution-layer contents is out of scope; the loader (loader.go) is
// responsible for computing Root from whatever representation it decodes.
type ExecutionPayloadHeader struct {
	Root [32]byte
}

// HashTreeRoot returns the precomputed root supplied by the loader. It
// mirrors the HashTreeRoot methods of the other container types used by
// roots.go, but returns no error since it computes nothing.
func (e *ExecutionPayloadHeader) HashTreeRoot() [32]byte {
	return e.Root
}

// BeaconState is Berachain's beacon-chain state container: an ordered
// container of exactly 16 fields. Field order is part of the SSZ encoding;
// do not reorder these without updating the Field* constants in params.go.
type BeaconState struct {
	GenesisValidatorsRoot         [32]byte
	Slot                          uint64
	Fork                          Fork
	LatestBlockHeader             BeaconBlockHeader
	BlockRoots                    [VectorSize][32]byte
	StateRoots                    [VectorSize][32]byte
	Eth1Data                      Eth1Data
	Eth1DepositIndex              uint64
	LatestExecutionPayloadHeader  ExecutionPayloadHeader
	Validators                    []Validator
	Balances                      []uint64
	RandaoMixes                   [RandaoMixesLength][32]byte
	NextWithdrawalIndex           uint64
	NextWithdrawalValidatorIndex  uint64
	Slashings                     [VectorSize]uint64
	TotalSlashing                 uint64

	mutated bool
}
