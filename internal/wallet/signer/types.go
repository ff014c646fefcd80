package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidKey is returned when the supplied secret is not a well-formed secp256k1 private key
	ErrInvalidKey = errors.New("invalid private key")
	// ErrSigning is returned when a payload could not be signed by the identity
	ErrSigning = errors.New("signing failed")
)

// Signer signs EVM transactions on behalf of a single address
type Signer interface {
	// Address returns the address derived from the signing key
	Address() common.Address

	// SignTx signs an EIP-1559 transaction for the given chain
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}
