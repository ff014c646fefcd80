package submit

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

const (
	SendRawTransactionMethod = "eth_sendRawTransaction"
	SendBundleMethod         = "eth_sendBundle"
)

// ErrSubmission is returned when the single submission attempt fails
var ErrSubmission = errors.New("submission failed")

// Caller performs a raw JSON-RPC call
type Caller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// Observer is notified of every submission attempt
type Observer interface {
	ObserveSubmission(path string, err error)
}

// Kind tells which path produced a handle
type Kind int

const (
	KindTransaction Kind = iota + 1
	KindBundle
)

func (k Kind) String() string {
	switch k {
	case KindTransaction:
		return "transaction"
	case KindBundle:
		return "bundle"
	default:
		return "unknown"
	}
}

// Handle references a pending submission. It is consumed once by the watcher.
type Handle interface {
	// Hash is the hash to poll for: the transaction hash or the relay's bundle hash
	Hash() common.Hash
	Kind() Kind
	// Timeout is the ceiling for waiting on inclusion
	Timeout() time.Duration
}

// TxHandle is returned by a public broadcast
type TxHandle struct {
	TxHash  common.Hash
	timeout time.Duration
}

func NewTxHandle(hash common.Hash, timeout time.Duration) *TxHandle {
	return &TxHandle{TxHash: hash, timeout: timeout}
}

func (h *TxHandle) Hash() common.Hash      { return h.TxHash }
func (h *TxHandle) Kind() Kind             { return KindTransaction }
func (h *TxHandle) Timeout() time.Duration { return h.timeout }

// BundleHandle is returned by a relay submission. LocalTxHash is the hash of
// the single enclosed transaction and is only kept for reporting.
type BundleHandle struct {
	BundleHash  common.Hash
	LocalTxHash common.Hash
	timeout     time.Duration
}

func NewBundleHandle(bundleHash, localTxHash common.Hash, timeout time.Duration) *BundleHandle {
	return &BundleHandle{BundleHash: bundleHash, LocalTxHash: localTxHash, timeout: timeout}
}

func (h *BundleHandle) Hash() common.Hash      { return h.BundleHash }
func (h *BundleHandle) Kind() Kind             { return KindBundle }
func (h *BundleHandle) Timeout() time.Duration { return h.timeout }

// SendBundleArgs is the eth_sendBundle request body
type SendBundleArgs struct {
	Txs            []hexutil.Bytes `json:"txs"`
	MaxBlockNumber *hexutil.Uint64 `json:"maxBlockNumber,omitempty"`
}

// BundleResult is the eth_sendBundle response body
type BundleResult struct {
	BundleHash common.Hash `json:"bundleHash"`
}
