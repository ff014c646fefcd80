package sender

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github/chapool/go-sendtx/internal/config"
	"github/chapool/go-sendtx/internal/metrics"
	"github/chapool/go-sendtx/internal/wallet/chain"
	"github/chapool/go-sendtx/internal/wallet/signer"
	"github/chapool/go-sendtx/internal/wallet/submit"
	"github/chapool/go-sendtx/internal/wallet/watch"
)

// Target is the validated network side of the configuration
type Target struct {
	// URL is the resolved RPC endpoint
	URL string
	// RelayKey authenticates bundle requests, nil when unset
	RelayKey *signer.Identity
}

// NewIdentity parses the signing key. The key never appears in the error.
func NewIdentity(cfg config.Sender) (*signer.Identity, error) {
	identity, err := signer.Parse(cfg.PrivateKey)
	if err != nil {
		return nil, stepError(StepConfig, err)
	}
	return identity, nil
}

// NewTarget resolves the RPC URL and the optional relay key without touching the network.
func NewTarget(cfg config.Sender) (Target, error) {
	url, err := config.ResolveRPCURL(cfg.RPC.URL)
	if err != nil {
		return Target{}, stepError(StepConfig, err)
	}

	target := Target{URL: url}
	if cfg.Relay.AuthKey == "" {
		return target, nil
	}

	key, err := signer.Parse(cfg.Relay.AuthKey)
	if err != nil {
		return Target{}, stepError(StepConfig, errors.Wrap(err, "relay auth key"))
	}
	// 签名头只能挂在 HTTP 请求上，ws/ipc 连接会绕过 SigningTransport
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Target{}, stepError(StepConfig, errors.Wrap(config.ErrInvalidRPCURL, "relay auth requires an http(s) endpoint"))
	}
	target.RelayKey = key

	return target, nil
}

func NewMetrics(cfg config.Sender) (*metrics.Service, error) {
	m, err := metrics.New(cfg)
	if err != nil {
		return nil, stepError(StepConfig, err)
	}
	return m, nil
}

func NewNodeClient(ctx context.Context, target Target, m *metrics.Service) (*chain.RPCClient, func(), error) {
	client, err := chain.Dial(ctx, target.URL, m)
	if err != nil {
		return nil, nil, stepError(StepQuery, err)
	}
	return client, client.Close, nil
}

// NewRelayCaller dials a second, signing connection for bundles when a relay key is set.
// A nil Caller makes the router send bundles over the node connection.
func NewRelayCaller(ctx context.Context, target Target, m *metrics.Service) (submit.Caller, func(), error) {
	if target.RelayKey == nil {
		return nil, func() {}, nil
	}

	relay, err := submit.DialRelay(ctx, target.URL, target.RelayKey, m)
	if err != nil {
		return nil, nil, stepError(StepQuery, err)
	}
	return relay, relay.Close, nil
}

func NewReader(node *chain.RPCClient) *chain.Reader {
	return chain.NewReader(node)
}

func NewRouter(cfg config.Sender, node *chain.RPCClient, relay submit.Caller, m *metrics.Service) *submit.Router {
	return submit.NewRouter(node, relay, cfg.Watch.Timeout, m)
}

func NewWatcher(cfg config.Sender, node *chain.RPCClient, m *metrics.Service) *watch.Watcher {
	return watch.NewWatcher(node, cfg.Watch.PollInterval, m)
}
