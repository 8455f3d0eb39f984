package beacon

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/berachain/beacon-ssz-proofs/encoding/ssz"
)

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// maxExtraDataBytes is ExecutionPayloadHeader.extra_data's SSZ ByteList
// limit.
const maxExtraDataBytes = 32

// jsonEnvelope matches a beacon API state response's outer shape: the
// state itself lives under "data".
type jsonEnvelope struct {
	Data jsonBeaconState `json:"data"`
}

type jsonFork struct {
	PreviousVersion string `json:"previousVersion"`
	CurrentVersion  string `json:"currentVersion"`
	Epoch           string `json:"epoch"`
}

type jsonBlockHeader struct {
	Slot          string `json:"slot"`
	ProposerIndex string `json:"proposerIndex"`
	ParentRoot    string `json:"parentBlockRoot"`
	StateRoot     string `json:"stateRoot"`
	BodyRoot      string `json:"bodyRoot"`
}

type jsonEth1Data struct {
	DepositRoot  string `json:"depositRoot"`
	DepositCount string `json:"depositCount"`
	BlockHash    string `json:"blockHash"`
}

type jsonValidator struct {
	Pubkey                     string `json:"pubkey"`
	WithdrawalCredentials      string `json:"withdrawalCredentials"`
	EffectiveBalance           string `json:"effectiveBalance"`
	Slashed                    bool   `json:"slashed"`
	ActivationEligibilityEpoch string `json:"activationEligibilityEpoch"`
	ActivationEpoch            string `json:"activationEpoch"`
	ExitEpoch                  string `json:"exitEpoch"`
	WithdrawableEpoch          string `json:"withdrawableEpoch"`
}

type jsonExecutionPayloadHeader struct {
	ParentHash      string `json:"parentHash"`
	FeeRecipient    string `json:"feeRecipient"`
	StateRoot       string `json:"stateRoot"`
	ReceiptsRoot    string `json:"receiptsRoot"`
	LogsBloom       string `json:"logsBloom"`
	PrevRandao      string `json:"prevRandao"`
	BlockNumber     string `json:"blockNumber"`
	GasLimit        string `json:"gasLimit"`
	GasUsed         string `json:"gasUsed"`
	Timestamp       string `json:"timestamp"`
	ExtraData       string `json:"extraData"`
	BaseFeePerGas   string `json:"baseFeePerGas"`
	BlockHash       string `json:"blockHash"`
	TransactionsRoot string `json:"transactionsRoot"`
	WithdrawalsRoot string `json:"withdrawalsRoot"`
	BlobGasUsed     string `json:"blobGasUsed"`
	ExcessBlobGas   string `json:"excessBlobGas"`
}

type jsonBeaconState struct {
	GenesisValidatorsRoot        string                     `json:"genesisValidatorsRoot"`
	Slot                         string                     `json:"slot"`
	Fork                         jsonFork                   `json:"fork"`
	LatestBlockHeader            jsonBlockHeader            `json:"latestBlockHeader"`
	BlockRoots                   []string                   `json:"blockRoots"`
	StateRoots                   []string                   `json:"stateRoots"`
	Eth1Data                     jsonEth1Data               `json:"eth1Data"`
	Eth1DepositIndex             string                     `json:"eth1DepositIndex"`
	LatestExecutionPayloadHeader jsonExecutionPayloadHeader `json:"latestExecutionPayloadHeader"`
	Validators                   []jsonValidator            `json:"validators"`
	Balances                     []string                   `json:"balances"`
	RandaoMixes                  []string                   `json:"randaoMixes"`
	NextWithdrawalIndex          string                     `json:"nextWithdrawalIndex"`
	NextWithdrawalValidatorIndex string                     `json:"nextWithdrawalValidatorIndex"`
	Slashings                    []string                   `json:"slashings"`
	TotalSlashing                string                     `json:"totalSlashing"`
}

// LoadState decodes a beacon API get-state response body into a
// BeaconState, reproducing bera_proofs.ssz.containers.utils.json_to_class's
// allow-list of hex-vs-decimal fields: byte fields always arrive 0x-hex,
// integer fields arrive as a decimal or 0x-hex JSON string, and everything
// else is rejected rather than silently coerced.
func LoadState(body []byte) (*BeaconState, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	return decodeState(&env.Data)
}

func decodeState(j *jsonBeaconState) (*BeaconState, error) {
	var s BeaconState
	var err error

	if s.GenesisValidatorsRoot, err = decodeBytes32(j.GenesisValidatorsRoot); err != nil {
		return nil, errors.Wrap(err, "genesisValidatorsRoot")
	}
	if s.Slot, err = decodeUint64(j.Slot); err != nil {
		return nil, errors.Wrap(err, "slot")
	}
	if s.Fork, err = decodeFork(&j.Fork); err != nil {
		return nil, errors.Wrap(err, "fork")
	}
	if s.LatestBlockHeader, err = decodeBlockHeader(&j.LatestBlockHeader); err != nil {
		return nil, errors.Wrap(err, "latestBlockHeader")
	}
	blockRoots, err := decodeBytes32Slice(j.BlockRoots, VectorSize)
	if err != nil {
		return nil, errors.Wrap(err, "blockRoots")
	}
	copy(s.BlockRoots[:], blockRoots)
	stateRoots, err := decodeBytes32Slice(j.StateRoots, VectorSize)
	if err != nil {
		return nil, errors.Wrap(err, "stateRoots")
	}
	copy(s.StateRoots[:], stateRoots)
	if s.Eth1Data, err = decodeEth1Data(&j.Eth1Data); err != nil {
		return nil, errors.Wrap(err, "eth1Data")
	}
	if s.Eth1DepositIndex, err = decodeUint64(j.Eth1DepositIndex); err != nil {
		return nil, errors.Wrap(err, "eth1DepositIndex")
	}
	root, err := executionPayloadHeaderRoot(&j.LatestExecutionPayloadHeader)
	if err != nil {
		return nil, errors.Wrap(err, "latestExecutionPayloadHeader")
	}
	s.LatestExecutionPayloadHeader = ExecutionPayloadHeader{Root: root}

	s.Validators = make([]Validator, len(j.Validators))
	for i := range j.Validators {
		v, err := decodeValidator(&j.Validators[i])
		if err != nil {
			return nil, errors.Wrapf(err, "validators[%d]", i)
		}
		s.Validators[i] = v
	}

	s.Balances = make([]uint64, len(j.Balances))
	for i, b := range j.Balances {
		if s.Balances[i], err = decodeUint64(b); err != nil {
			return nil, errors.Wrapf(err, "balances[%d]", i)
		}
	}

	randao, err := decodeBytes32Slice(j.RandaoMixes, RandaoMixesLength)
	if err != nil {
		return nil, errors.Wrap(err, "randaoMixes")
	}
	copy(s.RandaoMixes[:], randao)

	if s.NextWithdrawalIndex, err = decodeUint64(j.NextWithdrawalIndex); err != nil {
		return nil, errors.Wrap(err, "nextWithdrawalIndex")
	}
	if s.NextWithdrawalValidatorIndex, err = decodeUint64(j.NextWithdrawalValidatorIndex); err != nil {
		return nil, errors.Wrap(err, "nextWithdrawalValidatorIndex")
	}

	slashings, err := decodeUint64Slice(j.Slashings, VectorSize)
	if err != nil {
		return nil, errors.Wrap(err, "slashings")
	}
	copy(s.Slashings[:], slashings)

	if s.TotalSlashing, err = decodeUint64(j.TotalSlashing); err != nil {
		return nil, errors.Wrap(err, "totalSlashing")
	}

	return &s, nil
}

func decodeFork(j *jsonFork) (Fork, error) {
	var f Fork
	prev, err := decodeBytesN(j.PreviousVersion, 4)
	if err != nil {
		return f, errors.Wrap(err, "previousVersion")
	}
	cur, err := decodeBytesN(j.CurrentVersion, 4)
	if err != nil {
		return f, errors.Wrap(err, "currentVersion")
	}
	epoch, err := decodeUint64(j.Epoch)
	if err != nil {
		return f, errors.Wrap(err, "epoch")
	}
	copy(f.PreviousVersion[:], prev)
	copy(f.CurrentVersion[:], cur)
	f.Epoch = epoch
	return f, nil
}

func decodeBlockHeader(j *jsonBlockHeader) (BeaconBlockHeader, error) {
	var h BeaconBlockHeader
	var err error
	if h.Slot, err = decodeUint64(j.Slot); err != nil {
		return h, errors.Wrap(err, "slot")
	}
	if h.ProposerIndex, err = decodeUint64(j.ProposerIndex); err != nil {
		return h, errors.Wrap(err, "proposerIndex")
	}
	if h.ParentRoot, err = decodeBytes32(j.ParentRoot); err != nil {
		return h, errors.Wrap(err, "parentBlockRoot")
	}
	if h.StateRoot, err = decodeBytes32(j.StateRoot); err != nil {
		return h, errors.Wrap(err, "stateRoot")
	}
	if h.BodyRoot, err = decodeBytes32(j.BodyRoot); err != nil {
		return h, errors.Wrap(err, "bodyRoot")
	}
	return h, nil
}

func decodeEth1Data(j *jsonEth1Data) (Eth1Data, error) {
	var e Eth1Data
	var err error
	if e.DepositRoot, err = decodeBytes32(j.DepositRoot); err != nil {
		return e, errors.Wrap(err, "depositRoot")
	}
	if e.DepositCount, err = decodeUint64(j.DepositCount); err != nil {
		return e, errors.Wrap(err, "depositCount")
	}
	if e.BlockHash, err = decodeBytes32(j.BlockHash); err != nil {
		return e, errors.Wrap(err, "blockHash")
	}
	return e, nil
}

func decodeValidator(j *jsonValidator) (Validator, error) {
	var v Validator
	pubkey, err := decodeBytesN(j.Pubkey, 48)
	if err != nil {
		return v, errors.Wrap(err, "pubkey")
	}
	withdrawalCreds, err := decodeBytesN(j.WithdrawalCredentials, 32)
	if err != nil {
		return v, errors.Wrap(err, "withdrawalCredentials")
	}
	copy(v.Pubkey[:], pubkey)
	copy(v.WithdrawalCredentials[:], withdrawalCreds)
	v.Slashed = j.Slashed

	if v.EffectiveBalance, err = decodeUint64(j.EffectiveBalance); err != nil {
		return v, errors.Wrap(err, "effectiveBalance")
	}
	if v.ActivationEligibilityEpoch, err = decodeUint64(j.ActivationEligibilityEpoch); err != nil {
		return v, errors.Wrap(err, "activationEligibilityEpoch")
	}
	if v.ActivationEpoch, err = decodeUint64(j.ActivationEpoch); err != nil {
		return v, errors.Wrap(err, "activationEpoch")
	}
	if v.ExitEpoch, err = decodeUint64(j.ExitEpoch); err != nil {
		return v, errors.Wrap(err, "exitEpoch")
	}
	if v.WithdrawableEpoch, err = decodeUint64(j.WithdrawableEpoch); err != nil {
		return v, errors.Wrap(err, "withdrawableEpoch")
	}
	return v, nil
}

// executionPayloadHeaderRoot computes ExecutionPayloadHeader's
// hash_tree_root from its 17 typed fields, the way
// bera_proofs.ssz.containers.beacon.ExecutionPayloadHeader.merkle_root does,
// without this module carrying a typed representation of execution-layer
// content beyond what is needed to produce that one root (spec line 36:
// "opaque container whose precomputed root is supplied by the loader").
func executionPayloadHeaderRoot(j *jsonExecutionPayloadHeader) ([32]byte, error) {
	parentHash, err := decodeBytesN(j.ParentHash, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "parentHash")
	}
	feeRecipient, err := decodeBytesN(j.FeeRecipient, 20)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "feeRecipient")
	}
	stateRoot, err := decodeBytesN(j.StateRoot, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "stateRoot")
	}
	receiptsRoot, err := decodeBytesN(j.ReceiptsRoot, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "receiptsRoot")
	}
	logsBloom, err := decodeBytesN(j.LogsBloom, 256)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "logsBloom")
	}
	prevRandao, err := decodeBytesN(j.PrevRandao, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "prevRandao")
	}
	blockNumber, err := decodeUint64(j.BlockNumber)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "blockNumber")
	}
	gasLimit, err := decodeUint64(j.GasLimit)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "gasLimit")
	}
	gasUsed, err := decodeUint64(j.GasUsed)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "gasUsed")
	}
	timestamp, err := decodeUint64(j.Timestamp)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "timestamp")
	}
	extraData, err := decodeHex(j.ExtraData)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "extraData")
	}
	baseFeePerGas, err := decodeUint256(j.BaseFeePerGas)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "baseFeePerGas")
	}
	blockHash, err := decodeBytesN(j.BlockHash, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "blockHash")
	}
	transactionsRoot, err := decodeBytesN(j.TransactionsRoot, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "transactionsRoot")
	}
	withdrawalsRoot, err := decodeBytesN(j.WithdrawalsRoot, 32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "withdrawalsRoot")
	}
	blobGasUsed, err := decodeUint64(j.BlobGasUsed)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "blobGasUsed")
	}
	excessBlobGas, err := decodeUint64(j.ExcessBlobGas)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "excessBlobGas")
	}

	logsBloomRoot, err := ssz.ByteVectorRoot(logsBloom)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "logsBloom root")
	}
	extraDataRoot, err := ssz.ByteListRoot(extraData, maxExtraDataBytes)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "extraData root")
	}
	parentHashRoot, _ := ssz.BytesRoot(parentHash)
	feeRecipientRoot, _ := ssz.BytesRoot(feeRecipient)
	stateRootRoot, _ := ssz.BytesRoot(stateRoot)
	receiptsRootRoot, _ := ssz.BytesRoot(receiptsRoot)
	prevRandaoRoot, _ := ssz.BytesRoot(prevRandao)
	blockHashRoot, _ := ssz.BytesRoot(blockHash)
	transactionsRootRoot, _ := ssz.BytesRoot(transactionsRoot)
	withdrawalsRootRoot, _ := ssz.BytesRoot(withdrawalsRoot)

	roots := [][]byte{
		rootSlice(parentHashRoot),
		rootSlice(feeRecipientRoot),
		rootSlice(stateRootRoot),
		rootSlice(receiptsRootRoot),
		rootSlice(logsBloomRoot),
		rootSlice(prevRandaoRoot),
		rootSlice(ssz.Uint64Root(blockNumber)),
		rootSlice(ssz.Uint64Root(gasLimit)),
		rootSlice(ssz.Uint64Root(gasUsed)),
		rootSlice(ssz.Uint64Root(timestamp)),
		rootSlice(extraDataRoot),
		rootSlice(ssz.Uint256Root(baseFeePerGas)),
		rootSlice(blockHashRoot),
		rootSlice(transactionsRootRoot),
		rootSlice(withdrawalsRootRoot),
		rootSlice(ssz.Uint64Root(blobGasUsed)),
		rootSlice(ssz.Uint64Root(excessBlobGas)),
	}
	return bitwiseMerkleizeContainer(roots)
}

// decodeBytes32Slice decodes a JSON array of 0x-prefixed 32-byte hex
// strings into a slice of exactly length entries. It is copied into a
// fixed-size array by the caller, since BlockRoots/StateRoots
// ([VectorSize][32]byte) and RandaoMixes ([RandaoMixesLength][32]byte) have
// different fixed lengths but identical decoding.
func decodeBytes32Slice(in []string, length int) ([][32]byte, error) {
	if len(in) != length {
		return nil, errors.Wrapf(ErrInvalidInput, "expected %d entries, got %d", length, len(in))
	}
	out := make([][32]byte, length)
	for i, s := range in {
		b, err := decodeBytesN(s, 32)
		if err != nil {
			return nil, err
		}
		copy(out[i][:], b)
	}
	return out, nil
}

func decodeUint64Slice(in []string, length int) ([]uint64, error) {
	if len(in) != length {
		return nil, errors.Wrapf(ErrInvalidInput, "expected %d entries, got %d", length, len(in))
	}
	out := make([]uint64, length)
	for i, s := range in {
		v, err := decodeUint64(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeBytes32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := decodeBytesN(s, 32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func decodeBytesN(s string, n int) ([]byte, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, errors.Wrapf(ErrInvalidInput, "expected %d bytes, got %d for %q", n, len(b), s)
	}
	return b, nil
}

func decodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, errors.Wrapf(ErrInvalidInput, "expected 0x-prefixed hex, got %q", s)
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "invalid hex %q: %v", s, err)
	}
	return b, nil
}

// decodeUint64 accepts either a decimal or a 0x-prefixed hex JSON string,
// matching the allow-list behavior of bera_proofs's loader for integer
// fields.
func decodeUint64(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := hexutil.DecodeUint64(s)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidInput, "invalid hex integer %q: %v", s, err)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidInput, "invalid decimal integer %q: %v", s, err)
	}
	return v, nil
}

func decodeUint256(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := uint256.FromHex(s)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "invalid hex uint256 %q: %v", s, err)
		}
		return v, nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "invalid decimal uint256 %q: %v", s, err)
	}
	return v, nil
}
