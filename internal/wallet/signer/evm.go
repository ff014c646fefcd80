package signer

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const privateKeyHexLength = 64

// Identity holds a private key and the address derived from it.
// It is immutable once constructed and never exposes the key material.
type Identity struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

var _ Signer = (*Identity)(nil)

// Parse parses a hex encoded private key (with or without 0x prefix)
func Parse(secret string) (*Identity, error) {
	h := strings.TrimSpace(secret)
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")

	// 长度不对时不把 secret 带进错误信息
	if len(h) != privateKeyHexLength {
		return nil, errors.Wrapf(ErrInvalidKey, "expected %d hex characters, got %d", privateKeyHexLength, len(h))
	}

	key, err := crypto.HexToECDSA(h)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, "not a valid secp256k1 scalar")
	}

	return FromECDSA(key)
}

// FromECDSA wraps an existing ECDSA private key
func FromECDSA(key *ecdsa.PrivateKey) (*Identity, error) {
	if key == nil {
		return nil, errors.Wrap(ErrInvalidKey, "private key is nil")
	}

	publicKey := key.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.Wrap(ErrInvalidKey, "failed to cast public key to ECDSA")
	}

	return &Identity{
		key:     key,
		address: crypto.PubkeyToAddress(*publicKeyECDSA),
	}, nil
}

// Address returns the address derived from the signing key
func (i *Identity) Address() common.Address {
	return i.address
}

// SignTx signs tx with the London signer for chainID and verifies the
// recovered sender is this identity.
func (i *Identity) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, errors.Wrap(ErrSigning, "chain id must be positive")
	}

	londonSigner := types.NewLondonSigner(chainID)
	signedTx, err := types.SignTx(tx, londonSigner, i.key)
	if err != nil {
		return nil, errors.Wrapf(ErrSigning, "failed to sign transaction: %v", err)
	}

	from, err := types.Sender(londonSigner, signedTx)
	if err != nil {
		return nil, errors.Wrapf(ErrSigning, "failed to recover sender: %v", err)
	}

	if from != i.address {
		return nil, errors.Wrapf(ErrSigning, "recovered sender %s does not match signer %s", from.Hex(), i.address.Hex())
	}

	return signedTx, nil
}

// Sign produces a 65 byte [R || S || V] signature over a 32 byte digest
func (i *Identity) Sign(digest []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest, i.key)
	if err != nil {
		return nil, errors.Wrapf(ErrSigning, "failed to sign digest: %v", err)
	}

	return sig, nil
}

// String never prints the key.
func (i *Identity) String() string {
	return "signer(" + i.address.Hex() + ")"
}

// MarshalText encodes only the address, so an Identity can be logged or serialized safely.
func (i *Identity) MarshalText() ([]byte, error) {
	return []byte(i.address.Hex()), nil
}
