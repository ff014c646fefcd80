package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-sendtx/internal/wallet/fee"
	"github/chapool/go-sendtx/internal/wallet/signer"
)

// GasLimit is fixed for every transaction built here
const GasLimit uint64 = 300000

// Intent is everything needed to build one transaction. It is consumed once by Build.
type Intent struct {
	ChainID  *big.Int
	Nonce    uint64
	GasLimit uint64
	Fees     fee.Plan
	Mode     Mode
}

// NewIntent returns an intent with the fixed gas limit
func NewIntent(chainID *big.Int, nonce uint64, fees fee.Plan, mode Mode) Intent {
	return Intent{
		ChainID:  chainID,
		Nonce:    nonce,
		GasLimit: GasLimit,
		Fees:     fees,
		Mode:     mode,
	}
}

// Envelope is a signed, EIP-2718 encoded transaction
type Envelope struct {
	Tx   *types.Transaction
	Raw  []byte
	Hash common.Hash
}

// Build populates a dynamic fee transaction from intent and signs it with s
func Build(s signer.Signer, intent Intent) (*Envelope, error) {
	if intent.ChainID == nil {
		return nil, errors.Wrap(signer.ErrSigning, "chain id is missing")
	}
	if intent.Fees.MaxFeePerGas == nil || intent.Fees.PriorityFeePerGas == nil {
		return nil, errors.Wrap(signer.ErrSigning, "fee plan is incomplete")
	}

	to, data := intent.Mode.Destination()

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).Set(intent.ChainID),
		Nonce:     intent.Nonce,
		GasTipCap: new(big.Int).Set(intent.Fees.PriorityFeePerGas),
		GasFeeCap: new(big.Int).Set(intent.Fees.MaxFeePerGas),
		Gas:       intent.GasLimit,
		To:        to,
		Value:     big.NewInt(0),
		Data:      data,
	})

	signedTx, err := s.SignTx(tx, intent.ChainID)
	if err != nil {
		if errors.Is(err, signer.ErrSigning) {
			return nil, err
		}
		return nil, errors.Wrapf(signer.ErrSigning, "%v", err)
	}

	// Encode transaction as typed envelope (0x02 || rlp)
	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	log.Debug().
		Str("tx_hash", signedTx.Hash().Hex()).
		Str("mode", intent.Mode.String()).
		Uint64("nonce", intent.Nonce).
		Msg("Transaction signed")

	return &Envelope{
		Tx:   signedTx,
		Raw:  raw,
		Hash: signedTx.Hash(),
	}, nil
}

// Decode parses a binary envelope produced by Build
func Decode(raw []byte) (*types.Transaction, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal signed transaction")
	}
	return tx, nil
}
