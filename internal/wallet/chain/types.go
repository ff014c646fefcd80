package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrMissingBaseFee is returned when the latest block does not expose baseFeePerGas
	ErrMissingBaseFee = errors.New("latest block has no base fee")
	// ErrZeroBalance is returned by Snapshot.CheckBalance for an unfunded account
	ErrZeroBalance = errors.New("account balance is zero")
)

// StateReader is the subset of RPCClient needed to take a snapshot
type StateReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	LatestBaseFee(ctx context.Context) (*big.Int, error)
}

// Observer receives the duration and result of every JSON-RPC call
type Observer interface {
	ObserveRPC(method string, took time.Duration, err error)
}

// Snapshot is a point in time view of the chain for one account
type Snapshot struct {
	Address common.Address
	ChainID *big.Int
	Nonce   uint64
	Balance *big.Int
	BaseFee *big.Int
}

// CheckBalance fails with ErrZeroBalance when the account holds nothing
func (s *Snapshot) CheckBalance() error {
	if s.Balance == nil || s.Balance.Sign() <= 0 {
		return errors.Wrapf(ErrZeroBalance, "address %s", s.Address.Hex())
	}
	return nil
}
