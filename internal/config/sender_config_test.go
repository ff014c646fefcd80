package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sendtx/internal/config"
)

func TestPrintSenderEnv(t *testing.T) {
	cfg := config.DefaultSenderConfigFromEnv()
	out, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)

	assert.NotContains(t, string(out), config.DevPrivateKey[2:])
}

func TestDefaults(t *testing.T) {
	cfg := config.DefaultSenderConfigFromEnv()

	assert.Equal(t, config.DevPrivateKey, cfg.PrivateKey)
	assert.Equal(t, "local", cfg.RPC.URL)
	assert.False(t, cfg.Reverts)
	assert.False(t, cfg.Bundle)
	assert.Equal(t, 20*time.Second, cfg.Watch.Timeout)
	assert.Equal(t, time.Second, cfg.Watch.PollInterval)
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.Level)
}

func TestSenderConfigFromEnv(t *testing.T) {
	t.Setenv("SENDTX_RPC_URL", "uni-sepolia")
	t.Setenv("SENDTX_BUNDLE", "true")
	t.Setenv("SENDTX_REVERTS", "1")
	t.Setenv("SENDTX_WATCH_TIMEOUT", "5s")
	t.Setenv("SENDTX_WATCH_POLL_INTERVAL", "250ms")
	t.Setenv("SENDTX_LOGGER_LEVEL", "debug")
	t.Setenv("SENDTX_METRICS_TEXTFILE", "/tmp/sendtx.prom")

	cfg := config.DefaultSenderConfigFromEnv()

	assert.Equal(t, "uni-sepolia", cfg.RPC.URL)
	assert.True(t, cfg.Bundle)
	assert.True(t, cfg.Reverts)
	assert.Equal(t, 5*time.Second, cfg.Watch.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.PollInterval)
	assert.Equal(t, zerolog.DebugLevel, cfg.Logger.Level)
	assert.Equal(t, "/tmp/sendtx.prom", cfg.Metrics.Textfile)
}

func TestInvalidLoggerLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("SENDTX_LOGGER_LEVEL", "chatty")

	cfg := config.DefaultSenderConfigFromEnv()
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.Level)
}

func TestNormalize(t *testing.T) {
	cfg := config.Sender{}.Normalize()
	assert.Equal(t, config.DefaultWatchTimeout, cfg.Watch.Timeout)
	assert.Equal(t, config.DefaultPollInterval, cfg.Watch.PollInterval)

	cfg = config.Sender{Watch: config.Watch{Timeout: time.Second, PollInterval: time.Millisecond}}.Normalize()
	assert.Equal(t, time.Second, cfg.Watch.Timeout)
	assert.Equal(t, time.Millisecond, cfg.Watch.PollInterval)
}

func TestResolveRPCURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "local", want: "http://localhost:8545"},
		{raw: "uni-sepolia", want: "https://sepolia.unichain.org"},
		{raw: "uni-experimental", want: config.RPCAliases["uni-experimental"]},
		{raw: "https://rpc.example.org/v1/key", want: "https://rpc.example.org/v1/key"},
		{raw: "ws://127.0.0.1:8546", want: "ws://127.0.0.1:8546"},
		{raw: " http://localhost:9545 ", want: "http://localhost:9545"},
		{raw: "/tmp/geth.ipc", want: "/tmp/geth.ipc"},
		{raw: "", wantErr: true},
		{raw: "localhost:8545", wantErr: true},
		{raw: "ftp://example.org", wantErr: true},
		{raw: "http://", wantErr: true},
		{raw: "uni-mainnet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := config.ResolveRPCURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, config.ErrInvalidRPCURL))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDotEnvLoad(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SENDTX_TEST_FROM_FILE=file\nSENDTX_TEST_ALREADY_SET=file\n"), 0o600))

	t.Setenv("SENDTX_TEST_ALREADY_SET", "env")

	set := map[string]string{}
	err := config.DotEnvLoad(envFile, func(k, v string) error {
		set[k] = v
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"SENDTX_TEST_FROM_FILE": "file"}, set)
}

func TestDotEnvTryLoadMissingFile(t *testing.T) {
	called := false
	config.DotEnvTryLoad(filepath.Join(t.TempDir(), "missing.env"), func(string, string) error {
		called = true
		return nil
	})
	assert.False(t, called)

	err := config.DotEnvLoad(filepath.Join(t.TempDir(), "missing.env"), os.Setenv)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
