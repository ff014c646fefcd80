package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RPCClient wraps a single Ethereum JSON-RPC endpoint.
// Calls are made exactly once, there is no failover and no retry.
type RPCClient struct {
	rpc      *rpc.Client
	eth      *ethclient.Client
	observer Observer
}

var _ StateReader = (*RPCClient)(nil)

// Dial connects to url (http, ws or ipc)
func Dial(ctx context.Context, url string, observer Observer) (*RPCClient, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RPC node")
	}

	log.Debug().Str("url", url).Msg("Connected to RPC node")

	return NewRPCClient(c, observer), nil
}

// NewRPCClient wraps an already connected rpc.Client
func NewRPCClient(c *rpc.Client, observer Observer) *RPCClient {
	return &RPCClient{
		rpc:      c,
		eth:      ethclient.NewClient(c),
		observer: observer,
	}
}

// Close closes the underlying connection
func (c *RPCClient) Close() {
	c.eth.Close()
}

// ChainID returns the chain id of the endpoint
func (c *RPCClient) ChainID(ctx context.Context) (chainID *big.Int, err error) {
	defer c.observe("eth_chainId", time.Now(), &err)

	chainID, err = c.eth.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	return chainID, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, address common.Address) (nonce uint64, err error) {
	defer c.observe("eth_getTransactionCount", time.Now(), &err)

	nonce, err = c.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	return nonce, nil
}

// BalanceAt returns the balance of an address at the latest known block.
func (c *RPCClient) BalanceAt(ctx context.Context, address common.Address) (balance *big.Int, err error) {
	defer c.observe("eth_getBalance", time.Now(), &err)

	balance, err = c.eth.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}

	return balance, nil
}

// LatestBaseFee returns baseFeePerGas of the latest block header
func (c *RPCClient) LatestBaseFee(ctx context.Context) (baseFee *big.Int, err error) {
	defer c.observe("eth_getBlockByNumber", time.Now(), &err)

	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest block")
	}

	if header.BaseFee == nil {
		return nil, errors.Wrapf(ErrMissingBaseFee, "block %s", header.Number)
	}

	return header.BaseFee, nil
}

// TransactionReceipt returns the receipt for hash, or an error wrapping
// ethereum.NotFound while it is not yet included.
func (c *RPCClient) TransactionReceipt(ctx context.Context, hash common.Hash) (receipt *types.Receipt, err error) {
	defer c.observe("eth_getTransactionReceipt", time.Now(), &err)

	receipt, err = c.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction receipt")
	}

	return receipt, nil
}

// CallContext performs a raw JSON-RPC call, used for methods ethclient does not cover
func (c *RPCClient) CallContext(ctx context.Context, result any, method string, args ...any) (err error) {
	defer c.observe(method, time.Now(), &err)

	if err = c.rpc.CallContext(ctx, result, method, args...); err != nil {
		return errors.Wrapf(err, "%s failed", method)
	}

	return nil
}

// observe reports the call to the observer; a missing receipt is not a failure
func (c *RPCClient) observe(method string, start time.Time, errp *error) {
	if c.observer == nil {
		return
	}

	err := *errp
	if errors.Is(err, ethereum.NotFound) {
		err = nil
	}
	c.observer.ObserveRPC(method, time.Since(start), err)
}
