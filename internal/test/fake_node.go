package test

import (
	"math/big"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// FakeBundleHash is returned by FakeNode for eth_sendBundle unless overridden
var FakeBundleHash = common.HexToHash("0xb0b0000000000000000000000000000000000000000000000000000000000b0b")

// FakeNode is an in-process JSON-RPC backend serving the "eth" namespace
// methods used by the sender. Fields may be changed between calls; all
// access goes through the mutex.
type FakeNode struct {
	mu sync.Mutex

	ChainID    *big.Int
	Nonce      uint64
	Balance    *big.Int
	BaseFee    *big.Int // nil serves a pre-London header
	BundleHash common.Hash

	// Errors makes the named method (e.g. "eth_getBalance") fail
	Errors map[string]error

	// ReceiptAfter is the number of receipt polls answered with null before
	// a receipt is served. A negative value never serves one.
	ReceiptAfter  int
	ReceiptStatus uint64
	ReceiptBlock  uint64

	SentRaw      []hexutil.Bytes
	Bundles      []FakeBundleArgs
	ReceiptPolls int
	Calls        map[string]int
}

// FakeBundleArgs mirrors the eth_sendBundle request body
type FakeBundleArgs struct {
	Txs            []hexutil.Bytes `json:"txs"`
	MaxBlockNumber *hexutil.Uint64 `json:"maxBlockNumber,omitempty"`
}

// NewFakeNode returns a funded, London enabled node on chain 1301 with a 1 gwei base fee
func NewFakeNode() *FakeNode {
	return &FakeNode{
		ChainID:       big.NewInt(1301),
		Nonce:         3,
		Balance:       new(big.Int).Mul(big.NewInt(10), big.NewInt(1_000_000_000_000_000_000)),
		BaseFee:       big.NewInt(1_000_000_000),
		BundleHash:    FakeBundleHash,
		Errors:        map[string]error{},
		ReceiptStatus: types.ReceiptStatusSuccessful,
		ReceiptBlock:  42,
		Calls:         map[string]int{},
	}
}

// Dial starts an in-process server for n and returns a client connected to it.
// Both are closed when the test finishes.
func (n *FakeNode) Dial(t *testing.T) *rpc.Client {
	t.Helper()

	client := rpc.DialInProc(n.server(t))
	t.Cleanup(client.Close)

	return client
}

// Serve exposes n over HTTP and returns its URL
func (n *FakeNode) Serve(t *testing.T) string {
	t.Helper()

	ts := httptest.NewServer(n.server(t))
	t.Cleanup(ts.Close)

	return ts.URL
}

func (n *FakeNode) server(t *testing.T) *rpc.Server {
	t.Helper()

	server := rpc.NewServer()
	if err := server.RegisterName("eth", &fakeEthAPI{node: n}); err != nil {
		t.Fatalf("failed to register fake eth api: %v", err)
	}
	t.Cleanup(server.Stop)

	return server
}

// Update runs fn with the node locked
func (n *FakeNode) Update(fn func(n *FakeNode)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n)
}

// CallCount returns how often method was called
func (n *FakeNode) CallCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Calls[method]
}

// Sent returns copies of the raw transactions and bundles received so far
func (n *FakeNode) Sent() ([]hexutil.Bytes, []FakeBundleArgs) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]hexutil.Bytes(nil), n.SentRaw...), append([]FakeBundleArgs(nil), n.Bundles...)
}

func (n *FakeNode) enter(method string) error {
	n.Calls[method]++
	return n.Errors[method]
}

type fakeEthAPI struct {
	node *FakeNode
}

func (api *fakeEthAPI) ChainId() (*hexutil.Big, error) { //nolint:revive,stylecheck // must match eth_chainId
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_chainId"); err != nil {
		return nil, err
	}
	return (*hexutil.Big)(new(big.Int).Set(n.ChainID)), nil
}

func (api *fakeEthAPI) GetTransactionCount(_ common.Address, _ string) (hexutil.Uint64, error) {
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_getTransactionCount"); err != nil {
		return 0, err
	}
	return hexutil.Uint64(n.Nonce), nil
}

func (api *fakeEthAPI) GetBalance(_ common.Address, _ string) (*hexutil.Big, error) {
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_getBalance"); err != nil {
		return nil, err
	}
	return (*hexutil.Big)(new(big.Int).Set(n.Balance)), nil
}

func (api *fakeEthAPI) GetBlockByNumber(_ string, _ bool) (*types.Header, error) {
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_getBlockByNumber"); err != nil {
		return nil, err
	}

	header := &types.Header{
		Number:     new(big.Int).SetUint64(n.ReceiptBlock),
		Difficulty: big.NewInt(0),
		GasLimit:   30_000_000,
		Time:       1_700_000_000,
	}
	if n.BaseFee != nil {
		header.BaseFee = new(big.Int).Set(n.BaseFee)
	}

	return header, nil
}

func (api *fakeEthAPI) SendRawTransaction(input hexutil.Bytes) (common.Hash, error) {
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_sendRawTransaction"); err != nil {
		return common.Hash{}, err
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(input); err != nil {
		return common.Hash{}, errors.Wrap(err, "rlp: invalid transaction")
	}

	n.SentRaw = append(n.SentRaw, input)
	return tx.Hash(), nil
}

func (api *fakeEthAPI) SendBundle(args FakeBundleArgs) (map[string]common.Hash, error) {
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_sendBundle"); err != nil {
		return nil, err
	}

	n.Bundles = append(n.Bundles, args)
	return map[string]common.Hash{"bundleHash": n.BundleHash}, nil
}

func (api *fakeEthAPI) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	n := api.node
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.enter("eth_getTransactionReceipt"); err != nil {
		return nil, err
	}

	n.ReceiptPolls++
	if n.ReceiptAfter < 0 || n.ReceiptPolls <= n.ReceiptAfter {
		return nil, nil
	}

	return &types.Receipt{
		Type:              types.DynamicFeeTxType,
		Status:            n.ReceiptStatus,
		CumulativeGasUsed: 53_000,
		Logs:              []*types.Log{},
		TxHash:            hash,
		GasUsed:           53_000,
		EffectiveGasPrice: big.NewInt(3_000_000_000),
		BlockHash:         common.HexToHash("0xb10c"),
		BlockNumber:       new(big.Int).SetUint64(n.ReceiptBlock),
	}, nil
}
