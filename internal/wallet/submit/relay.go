package submit

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/go-sendtx/internal/wallet/chain"
	"github/chapool/go-sendtx/internal/wallet/signer"
)

// FlashbotsSignatureHeader carries the relay authentication signature
const FlashbotsSignatureHeader = "X-Flashbots-Signature"

const relayHTTPTimeout = 12 * time.Second

// DialRelay connects to a relay whose requests are authenticated with authKey.
// The key only identifies the searcher to the relay, it never signs transactions.
func DialRelay(ctx context.Context, url string, authKey *signer.Identity, observer chain.Observer) (*chain.RPCClient, error) {
	httpClient := &http.Client{
		Timeout: relayHTTPTimeout,
		Transport: &SigningTransport{
			Base: http.DefaultTransport,
			Key:  authKey,
		},
	}

	c, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to relay")
	}

	return chain.NewRPCClient(c, observer), nil
}

// SigningTransport adds "<address>:<signature>" to every request, where the
// signature is an EIP-191 personal signature over hex(keccak256(body)).
type SigningTransport struct {
	Base http.RoundTripper
	Key  *signer.Identity
}

func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read relay request body")
		}
		_ = req.Body.Close()
	}

	header, err := SignatureHeader(t.Key, body)
	if err != nil {
		return nil, err
	}

	// RoundTrippers must not modify the original request
	signed := req.Clone(req.Context())
	signed.Body = io.NopCloser(bytes.NewReader(body))
	signed.ContentLength = int64(len(body))
	signed.Header.Set(FlashbotsSignatureHeader, header)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(signed)
}

// SignatureHeader returns the X-Flashbots-Signature value for body
func SignatureHeader(key *signer.Identity, body []byte) (string, error) {
	if key == nil {
		return "", errors.New("relay auth key is not configured")
	}

	hashedBody := crypto.Keccak256Hash(body).Hex()
	sig, err := key.Sign(accounts.TextHash([]byte(hashedBody)))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign relay request")
	}

	return key.Address().Hex() + ":" + hexutil.Encode(sig), nil
}
