package submit

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github/chapool/go-sendtx/internal/util"
	"github/chapool/go-sendtx/internal/wallet/txbuilder"
)

const (
	pathBroadcast = "broadcast"
	pathBundle    = "bundle"
)

// Router sends a signed envelope either to the public pool or to a relay as a bundle
type Router struct {
	node     Caller
	relay    Caller
	timeout  time.Duration
	observer Observer
}

// NewRouter returns a router. relay may be nil, in which case bundles are
// sent over node. timeout is attached to every handle.
func NewRouter(node Caller, relay Caller, timeout time.Duration, observer Observer) *Router {
	if relay == nil {
		relay = node
	}

	return &Router{
		node:     node,
		relay:    relay,
		timeout:  timeout,
		observer: observer,
	}
}

// Submit makes exactly one submission attempt. There is no fallback between paths.
func (r *Router) Submit(ctx context.Context, env *txbuilder.Envelope, useBundle bool) (Handle, error) {
	if env == nil || len(env.Raw) == 0 {
		return nil, errors.Wrap(ErrSubmission, "envelope is empty")
	}

	if useBundle {
		return r.sendBundle(ctx, env)
	}
	return r.broadcast(ctx, env)
}

func (r *Router) broadcast(ctx context.Context, env *txbuilder.Envelope) (handle Handle, err error) {
	defer r.observe(pathBroadcast, &err)

	var txHash common.Hash
	if callErr := r.node.CallContext(ctx, &txHash, SendRawTransactionMethod, hexutil.Encode(env.Raw)); callErr != nil {
		return nil, errors.Wrapf(ErrSubmission, "failed to broadcast transaction: %v", callErr)
	}

	if txHash != env.Hash {
		util.LogFromContext(ctx).Warn().
			Str("local_hash", env.Hash.Hex()).
			Str("remote_hash", txHash.Hex()).
			Msg("Node returned a different transaction hash")
	}

	util.LogFromContext(ctx).Info().
		Str("tx_hash", txHash.Hex()).
		Msg("Transaction broadcasted")

	return NewTxHandle(txHash, r.timeout), nil
}

func (r *Router) sendBundle(ctx context.Context, env *txbuilder.Envelope) (handle Handle, err error) {
	defer r.observe(pathBundle, &err)

	args := SendBundleArgs{
		Txs: []hexutil.Bytes{env.Raw},
	}

	var result BundleResult
	if callErr := r.relay.CallContext(ctx, &result, SendBundleMethod, args); callErr != nil {
		return nil, errors.Wrapf(ErrSubmission, "failed to send bundle: %v", callErr)
	}

	if result.BundleHash == (common.Hash{}) {
		return nil, errors.Wrap(ErrSubmission, "relay returned an empty bundle hash")
	}

	util.LogFromContext(ctx).Info().
		Str("bundle_hash", result.BundleHash.Hex()).
		Str("tx_hash", env.Hash.Hex()).
		Msg("Bundle sent")

	return NewBundleHandle(result.BundleHash, env.Hash, r.timeout), nil
}

func (r *Router) observe(path string, errp *error) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveSubmission(path, *errp)
}
