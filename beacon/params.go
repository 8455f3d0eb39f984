// Package beacon implements hash_tree_root computation and Merkle
// inclusion proof extraction for Berachain's BeaconState container. Its
// list-merkleization rule (Rule L) diverges from the canonical Ethereum
// consensus specification: see roots.go.
package beacon

// Fixed-capacity constants from the BeaconState container layout. These
// mirror the YAML-configurable constants a canonical consensus client
// loads from a preset file (config/params in the teacher repo), but here
// they are compile-time constants: Berachain's layout is fixed, not
// network-configurable.
const (
	// VectorSize is the fixed length of block_roots, state_roots, and
	// slashings.
	VectorSize = 8

	// ValidatorRegistryLimit is the SSZ list limit for validators and
	// balances: 2^40.
	ValidatorRegistryLimit = 1 << 40

	// RandaoMixesLength is the fixed length of randao_mixes.
	RandaoMixesLength = 1 << 16

	// BeaconStateFieldCount is the number of top-level fields in
	// BeaconState.
	BeaconStateFieldCount = 16

	// balanceChunkLimit is the virtual chunk_limit for the packed
	// balances list: ValidatorRegistryLimit*8 bytes packed 32 bytes per
	// chunk, i.e. ValidatorRegistryLimit/4 = 2^38 chunks.
	balanceChunkLimit = ValidatorRegistryLimit * 8 / 32
)

// BeaconState field indices, used by the generalized index calculator and
// by roots.go's field-root assembly. Order is significant: it is part of
// the SSZ encoding.
const (
	FieldGenesisValidatorsRoot = iota
	FieldSlot
	FieldFork
	FieldLatestBlockHeader
	FieldBlockRoots
	FieldStateRoots
	FieldEth1Data
	FieldEth1DepositIndex
	FieldLatestExecutionPayloadHeader
	FieldValidators
	FieldBalances
	FieldRandaoMixes
	FieldNextWithdrawalIndex
	FieldNextWithdrawalValidatorIndex
	FieldSlashings
	FieldTotalSlashing
)
