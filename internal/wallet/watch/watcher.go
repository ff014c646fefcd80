package watch

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-sendtx/internal/util"
	"github/chapool/go-sendtx/internal/wallet/submit"
)

const (
	DefaultTimeout  = 20 * time.Second
	DefaultInterval = time.Second
)

// ReceiptFetcher returns the receipt for hash, or an error wrapping
// ethereum.NotFound while it is not included yet
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Observer is notified of every outcome
type Observer interface {
	ObserveWatch(outcome string)
}

// Outcome is one of Confirmed, TimedOut or Failed
type Outcome interface {
	Name() string
	outcome()
}

// Confirmed means a receipt was observed
type Confirmed struct {
	Hash        common.Hash
	BlockNumber *big.Int
	Status      uint64
	GasUsed     uint64
}

// Reverted reports whether the included transaction failed on chain
func (c Confirmed) Reverted() bool {
	return c.Status != types.ReceiptStatusSuccessful
}

// TimedOut means the ceiling elapsed without inclusion
type TimedOut struct {
	Hash  common.Hash
	After time.Duration
}

// Failed means the endpoint reported an error while polling
type Failed struct {
	Hash common.Hash
	Err  error
}

func (Confirmed) Name() string { return "confirmed" }
func (TimedOut) Name() string  { return "timed_out" }
func (Failed) Name() string    { return "failed" }

func (Confirmed) outcome() {}
func (TimedOut) outcome()  {}
func (Failed) outcome()    {}

// Watcher polls for the inclusion of a submitted handle
type Watcher struct {
	receipts ReceiptFetcher
	interval time.Duration
	observer Observer
}

func NewWatcher(receipts ReceiptFetcher, interval time.Duration, observer Observer) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Watcher{
		receipts: receipts,
		interval: interval,
		observer: observer,
	}
}

// Watch blocks until the handle's hash has a receipt, the handle's timeout
// elapses (DefaultTimeout if unset) or the endpoint returns an error.
// The outcome is never an error value; callers decide how to report it.
func (w *Watcher) Watch(ctx context.Context, h submit.Handle) Outcome {
	timeout := h.Timeout()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	result := w.poll(ctx, h.Hash(), timeout)

	if w.observer != nil {
		w.observer.ObserveWatch(result.Name())
	}

	return result
}

func (w *Watcher) poll(parent context.Context, hash common.Hash, timeout time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	logger := util.LogFromContext(parent).With().Str("hash", hash.Hex()).Logger()
	logger.Debug().Dur("timeout", timeout).Msg("Waiting for inclusion")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		receipt, err := w.receipts.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			logger.Debug().Str("block_number", receipt.BlockNumber.String()).Msg("Receipt found")

			return Confirmed{
				Hash:        receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				Status:      receipt.Status,
				GasUsed:     receipt.GasUsed,
			}
		case err == nil, errors.Is(err, ethereum.NotFound):
			logger.Trace().Msg("Not included yet")
		case ctx.Err() != nil:
			// 请求还没返回就到了截止时间，交给下面的 select
		default:
			return Failed{Hash: hash, Err: err}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return TimedOut{Hash: hash, After: timeout}
			}
			return Failed{Hash: hash, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}
