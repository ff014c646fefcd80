package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sendtx/internal/config"
	"github/chapool/go-sendtx/internal/metrics"
)

func TestObserve(t *testing.T) {
	m, err := metrics.New(config.Sender{})
	require.NoError(t, err)

	m.ObserveRPC("eth_chainId", 5*time.Millisecond, nil)
	m.ObserveRPC("eth_chainId", 5*time.Millisecond, errors.New("boom"))
	m.ObserveSubmission("bundle", nil)
	m.ObserveSubmission("bundle", errors.New("rejected"))
	m.ObserveSubmission("broadcast", nil)
	m.ObserveWatch("confirmed")

	counts := map[string]int{
		"sendtx_rpc_request_duration_seconds": 1,
		"sendtx_rpc_request_errors_total":     1,
		"sendtx_submissions_total":            3,
		"sendtx_watch_outcomes_total":         1,
	}
	for name, want := range counts {
		got, err := testutil.GatherAndCount(m.Registry, name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestNilServiceIsNoop(t *testing.T) {
	var m *metrics.Service

	assert.NotPanics(t, func() {
		m.ObserveRPC("eth_chainId", time.Millisecond, nil)
		m.ObserveSubmission("broadcast", nil)
		m.ObserveWatch("failed")
	})
	assert.NoError(t, m.Flush())
}

func TestFlushWithoutTextfile(t *testing.T) {
	m, err := metrics.New(config.Sender{})
	require.NoError(t, err)

	assert.NoError(t, m.Flush())
}

func TestFlushTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sendtx.prom")

	cfg := config.Sender{Metrics: config.Metrics{Textfile: path}}
	m, err := metrics.New(cfg)
	require.NoError(t, err)

	m.ObserveWatch("timed_out")
	require.NoError(t, m.Flush())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `sendtx_watch_outcomes_total{outcome="timed_out"} 1`)
}

func TestFlushUnwritablePath(t *testing.T) {
	cfg := config.Sender{Metrics: config.Metrics{Textfile: filepath.Join(t.TempDir(), "missing", "sendtx.prom")}}
	m, err := metrics.New(cfg)
	require.NoError(t, err)

	assert.Error(t, m.Flush())
}
