package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment variable, e.g. SENDTX_RPC_URL
	EnvPrefix = "SENDTX"

	// DevPrivateKey is the first well-known Anvil/Hardhat development account.
	// Never use it on a network with real value.
	DevPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	DefaultRPCAlias     = "local"
	DefaultWatchTimeout = 20 * time.Second
	DefaultPollInterval = time.Second
)

// Viper keys
const (
	KeyPrivateKey         = "private_key"
	KeyRPCURL             = "rpc_url"
	KeyReverts            = "reverts"
	KeyBundle             = "bundle"
	KeyWatchTimeout       = "watch.timeout"
	KeyWatchPollInterval  = "watch.poll_interval"
	KeyRelayAuthKey       = "relay.auth_key"
	KeyLoggerLevel        = "logger.level"
	KeyLoggerPrettyPrint  = "logger.pretty_print_console"
	KeyMetricsTextfile    = "metrics.textfile"
	KeyEnvFile            = "env_file"
	defaultEnvFile        = ".env"
	defaultLoggerLevel    = "info"
	defaultPrettyPrint    = true
	defaultRevertsEnabled = false
	defaultBundleEnabled  = false
)

// ErrInvalidRPCURL is returned when --rpc-url is neither a known alias nor a usable endpoint
var ErrInvalidRPCURL = errors.New("invalid rpc url")

// RPCAliases maps the short network names accepted by --rpc-url to endpoints
var RPCAliases = map[string]string{
	"local":            "http://localhost:8545",
	"uni-sepolia":      "https://sepolia.unichain.org",
	"uni-experimental": "https://experimental.unichain.org",
}

type Logger struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

type RPC struct {
	// URL as given by the user, may be an alias
	URL string
}

type Watch struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

type Relay struct {
	// AuthKey signs relay requests (X-Flashbots-Signature). Optional.
	AuthKey string `json:"-"`
}

type Metrics struct {
	Textfile string
}

// Sender holds the configuration of a single send run
type Sender struct {
	PrivateKey string `json:"-"`
	Reverts    bool
	Bundle     bool

	Logger  Logger
	RPC     RPC
	Watch   Watch
	Relay   Relay
	Metrics Metrics
}

// NewViper returns a viper instance with defaults and ENV bindings for all sender keys.
// Cobra flags are bound on top of it by the send command.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPrivateKey, DevPrivateKey)
	v.SetDefault(KeyRPCURL, DefaultRPCAlias)
	v.SetDefault(KeyReverts, defaultRevertsEnabled)
	v.SetDefault(KeyBundle, defaultBundleEnabled)
	v.SetDefault(KeyWatchTimeout, DefaultWatchTimeout)
	v.SetDefault(KeyWatchPollInterval, DefaultPollInterval)
	v.SetDefault(KeyRelayAuthKey, "")
	v.SetDefault(KeyLoggerLevel, defaultLoggerLevel)
	v.SetDefault(KeyLoggerPrettyPrint, defaultPrettyPrint)
	v.SetDefault(KeyMetricsTextfile, "")
	v.SetDefault(KeyEnvFile, defaultEnvFile)

	return v
}

// SenderConfigFromViper reads the sender configuration out of v
func SenderConfigFromViper(v *viper.Viper) Sender {
	level, err := zerolog.ParseLevel(v.GetString(KeyLoggerLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return Sender{
		PrivateKey: v.GetString(KeyPrivateKey),
		Reverts:    v.GetBool(KeyReverts),
		Bundle:     v.GetBool(KeyBundle),
		Logger: Logger{
			Level:              level,
			PrettyPrintConsole: v.GetBool(KeyLoggerPrettyPrint),
		},
		RPC: RPC{
			URL: v.GetString(KeyRPCURL),
		},
		Watch: Watch{
			Timeout:      v.GetDuration(KeyWatchTimeout),
			PollInterval: v.GetDuration(KeyWatchPollInterval),
		},
		Relay: Relay{
			AuthKey: v.GetString(KeyRelayAuthKey),
		},
		Metrics: Metrics{
			Textfile: v.GetString(KeyMetricsTextfile),
		},
	}
}

// DefaultSenderConfigFromEnv returns the sender configuration built from ENV only
func DefaultSenderConfigFromEnv() Sender {
	return SenderConfigFromViper(NewViper())
}

// ResolveRPCURL resolves aliases ("local", "uni-sepolia", "uni-experimental")
// and validates everything else as an endpoint ethclient can dial.
func ResolveRPCURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.Wrap(ErrInvalidRPCURL, "empty")
	}

	if resolved, ok := RPCAliases[raw]; ok {
		return resolved, nil
	}

	// IPC endpoints are plain file paths
	if strings.HasSuffix(raw, ".ipc") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidRPCURL, "%q: %v", raw, err)
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", errors.Wrapf(ErrInvalidRPCURL, "%q: unsupported scheme %q", raw, u.Scheme)
	}

	if u.Host == "" {
		return "", errors.Wrapf(ErrInvalidRPCURL, "%q: missing host", raw)
	}

	return raw, nil
}

// Normalize fills zero durations with defaults
func (s Sender) Normalize() Sender {
	if s.Watch.Timeout <= 0 {
		s.Watch.Timeout = DefaultWatchTimeout
	}
	if s.Watch.PollInterval <= 0 {
		s.Watch.PollInterval = DefaultPollInterval
	}
	return s
}
