package beacon

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hex32(b byte) string {
	return "0x" + strings.Repeat("00", 31) + hex.EncodeToString([]byte{b})
}

func hexN(n int, fill byte) string {
	return "0x" + strings.Repeat(hex.EncodeToString([]byte{fill}), n)
}

func newJSONState() *jsonBeaconState {
	j := &jsonBeaconState{
		GenesisValidatorsRoot: hex32(0xAA),
		Slot:                  "12345",
		Fork: jsonFork{
			PreviousVersion: hexN(4, 0x01),
			CurrentVersion:  hexN(4, 0x02),
			Epoch:           "7",
		},
		LatestBlockHeader: jsonBlockHeader{
			Slot:          "12345",
			ProposerIndex: "2",
			ParentRoot:    hex32(0x03),
			StateRoot:     hex32(0x00),
			BodyRoot:      hex32(0x04),
		},
		Eth1Data: jsonEth1Data{
			DepositRoot:  hex32(0x05),
			DepositCount: "3",
			BlockHash:    hex32(0x06),
		},
		Eth1DepositIndex: "3",
		LatestExecutionPayloadHeader: jsonExecutionPayloadHeader{
			ParentHash:       hex32(0x10),
			FeeRecipient:     hexN(20, 0x11),
			StateRoot:        hex32(0x12),
			ReceiptsRoot:     hex32(0x13),
			LogsBloom:        hexN(256, 0x00),
			PrevRandao:       hex32(0x14),
			BlockNumber:      "100",
			GasLimit:         "30000000",
			GasUsed:          "21000",
			Timestamp:        "1700000000",
			ExtraData:        "0x",
			BaseFeePerGas:    "1000000000",
			BlockHash:        hex32(0x15),
			TransactionsRoot: hex32(0x16),
			WithdrawalsRoot:  hex32(0x17),
			BlobGasUsed:      "0",
			ExcessBlobGas:    "0",
		},
		NextWithdrawalIndex:          "0",
		NextWithdrawalValidatorIndex: "0",
		TotalSlashing:                "0",
	}
	for i := 0; i < VectorSize; i++ {
		j.BlockRoots = append(j.BlockRoots, hex32(byte(i)))
		j.StateRoots = append(j.StateRoots, hex32(byte(i)))
		j.Slashings = append(j.Slashings, "0")
	}
	for i := 0; i < RandaoMixesLength; i++ {
		j.RandaoMixes = append(j.RandaoMixes, hex32(0x00))
	}
	for i := 0; i < 3; i++ {
		j.Validators = append(j.Validators, jsonValidator{
			Pubkey:                     hexN(48, byte(i+1)),
			WithdrawalCredentials:      hex32(byte(i)),
			EffectiveBalance:           "32000000000",
			Slashed:                    false,
			ActivationEligibilityEpoch: "0",
			ActivationEpoch:            "0",
			ExitEpoch:                  "18446744073709551615",
			WithdrawableEpoch:          "18446744073709551615",
		})
		j.Balances = append(j.Balances, "32000000000")
	}
	return j
}

func TestDecodeStateRoundTrip(t *testing.T) {
	state, err := decodeState(newJSONState())
	require.NoError(t, err)

	assert.Equal(t, uint64(12345), state.Slot)
	assert.Equal(t, uint64(7), state.Fork.Epoch)
	assert.Len(t, state.Validators, 3)
	assert.Equal(t, uint64(32000000000), state.Balances[0])
	assert.Equal(t, byte(0x01), state.Validators[0].Pubkey[0])

	_, err = state.HashTreeRoot()
	assert.NoError(t, err)
}

func TestLoadStateWrapsEnvelope(t *testing.T) {
	env := jsonEnvelope{Data: *newJSONState()}
	body, err := json.Marshal(&env)
	require.NoError(t, err)

	state, err := LoadState(body)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), state.Slot)
}

func TestDecodeUint64AcceptsHexAndDecimal(t *testing.T) {
	v, err := decodeUint64("0x2a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	v, err = decodeUint64("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = decodeUint64("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeBytesNRejectsWrongLength(t *testing.T) {
	_, err := decodeBytesN(hex32(0x01), 16)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecutionPayloadHeaderRootIsDeterministic(t *testing.T) {
	j := newJSONState().LatestExecutionPayloadHeader
	root1, err := executionPayloadHeaderRoot(&j)
	require.NoError(t, err)
	root2, err := executionPayloadHeaderRoot(&j)
	require.NoError(t, err)
	assert.Equal(t, root1, root2)
}
