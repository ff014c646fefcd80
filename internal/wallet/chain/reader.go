package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-sendtx/internal/util"
	"golang.org/x/sync/errgroup"
)

// Reader takes chain snapshots for an account
type Reader struct {
	client StateReader
}

func NewReader(client StateReader) *Reader {
	return &Reader{client: client}
}

// Snapshot fetches chain id, pending nonce, balance and latest base fee.
// The four reads are independent and run concurrently; the first failure
// cancels the rest and is returned once all of them have finished.
func (r *Reader) Snapshot(ctx context.Context, address common.Address) (*Snapshot, error) {
	var (
		chainID *big.Int
		nonce   uint64
		balance *big.Int
		baseFee *big.Int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		chainID, err = r.client.ChainID(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		nonce, err = r.client.PendingNonceAt(gctx, address)
		return err
	})

	g.Go(func() error {
		var err error
		balance, err = r.client.BalanceAt(gctx, address)
		return err
	})

	g.Go(func() error {
		var err error
		baseFee, err = r.client.LatestBaseFee(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to read chain state")
	}

	snapshot := &Snapshot{
		Address: address,
		ChainID: chainID,
		Nonce:   nonce,
		Balance: balance,
		BaseFee: baseFee,
	}

	util.LogFromContext(ctx).Debug().
		Str("address", address.Hex()).
		Str("chain_id", chainID.String()).
		Uint64("nonce", nonce).
		Str("balance", balance.String()).
		Str("base_fee", baseFee.String()).
		Msg("Chain snapshot taken")

	return snapshot, nil
}
