package txbuilder_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sendtx/internal/wallet/fee"
	"github/chapool/go-sendtx/internal/wallet/signer"
	"github/chapool/go-sendtx/internal/wallet/txbuilder"
)

const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func mustIdentity(t *testing.T) *signer.Identity {
	t.Helper()

	id, err := signer.Parse(devKey)
	require.NoError(t, err)
	return id
}

func TestBuildRoundTrip(t *testing.T) {
	id := mustIdentity(t)
	plan := fee.Derive(big.NewInt(50_000_000_000))

	tests := []struct {
		name string
		mode txbuilder.Mode
	}{
		{"transfer", txbuilder.Transfer()},
		{"reverting call", txbuilder.RevertingCall()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := txbuilder.NewIntent(big.NewInt(1301), 17, plan, tt.mode)

			env, err := txbuilder.Build(id, intent)
			require.NoError(t, err)

			assert.Equal(t, byte(types.DynamicFeeTxType), env.Raw[0])
			assert.Equal(t, common.BytesToHash(crypto.Keccak256(env.Raw)), env.Hash)

			decoded, err := txbuilder.Decode(env.Raw)
			require.NoError(t, err)

			assert.Equal(t, env.Hash, decoded.Hash())
			assert.Equal(t, uint8(types.DynamicFeeTxType), decoded.Type())
			assert.Equal(t, uint64(17), decoded.Nonce())
			assert.Equal(t, 0, big.NewInt(1301).Cmp(decoded.ChainId()))
			assert.Equal(t, uint64(300000), decoded.Gas())
			assert.Equal(t, 0, plan.PriorityFeePerGas.Cmp(decoded.GasTipCap()))
			assert.Equal(t, 0, plan.MaxFeePerGas.Cmp(decoded.GasFeeCap()))
			assert.Equal(t, 0, decoded.Value().Sign())

			from, err := types.Sender(types.LatestSignerForChainID(decoded.ChainId()), decoded)
			require.NoError(t, err)
			assert.Equal(t, id.Address(), from)
		})
	}
}

func TestModeExclusivity(t *testing.T) {
	id := mustIdentity(t)
	plan := fee.Derive(big.NewInt(1_000_000_000))

	env, err := txbuilder.Build(id, txbuilder.NewIntent(big.NewInt(1), 0, plan, txbuilder.Transfer()))
	require.NoError(t, err)

	transfer, err := txbuilder.Decode(env.Raw)
	require.NoError(t, err)
	require.NotNil(t, transfer.To())
	assert.Equal(t, common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"), *transfer.To())
	assert.Empty(t, transfer.Data())

	env, err = txbuilder.Build(id, txbuilder.NewIntent(big.NewInt(1), 0, plan, txbuilder.RevertingCall()))
	require.NoError(t, err)

	reverting, err := txbuilder.Decode(env.Raw)
	require.NoError(t, err)
	assert.Nil(t, reverting.To())
	assert.Equal(t, []byte{0x60, 0x00, 0x60, 0x00, 0xfd}, reverting.Data())
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, txbuilder.ModeRevertingCall, txbuilder.ModeFor(true).Kind())
	assert.Equal(t, txbuilder.ModeTransfer, txbuilder.ModeFor(false).Kind())
	assert.Equal(t, "reverting-call", txbuilder.RevertingCall().String())
	assert.Equal(t, "transfer", txbuilder.Transfer().String())
}

func TestRevertingCallDataIsCopied(t *testing.T) {
	_, data := txbuilder.RevertingCall().Destination()
	data[0] = 0xff

	_, again := txbuilder.RevertingCall().Destination()
	assert.Equal(t, byte(0x60), again[0])
}

func TestZeroModePanics(t *testing.T) {
	assert.Panics(t, func() { txbuilder.Mode{}.Destination() })
}

type failingSigner struct {
	address common.Address
}

func (f failingSigner) Address() common.Address { return f.address }

func (f failingSigner) SignTx(*types.Transaction, *big.Int) (*types.Transaction, error) {
	return nil, errors.New("hardware wallet unplugged")
}

func TestBuildSigningError(t *testing.T) {
	plan := fee.Derive(big.NewInt(1_000_000_000))

	_, err := txbuilder.Build(failingSigner{}, txbuilder.NewIntent(big.NewInt(1), 0, plan, txbuilder.Transfer()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrSigning))
	assert.Contains(t, err.Error(), "hardware wallet unplugged")
}

func TestBuildRejectsIncompleteIntent(t *testing.T) {
	id := mustIdentity(t)

	_, err := txbuilder.Build(id, txbuilder.Intent{Mode: txbuilder.Transfer(), GasLimit: txbuilder.GasLimit})
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrSigning))

	_, err = txbuilder.Build(id, txbuilder.Intent{ChainID: big.NewInt(1), Mode: txbuilder.Transfer()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrSigning))
}

func TestDecodeGarbage(t *testing.T) {
	_, err := txbuilder.Decode([]byte{0x02, 0x01})
	require.Error(t, err)
}
