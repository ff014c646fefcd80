package send

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github/chapool/go-sendtx/internal/config"
	"github/chapool/go-sendtx/internal/util"
	"github/chapool/go-sendtx/internal/util/command"
	"github/chapool/go-sendtx/internal/wallet/sender"
)

const (
	privateKeyFlag      = "private-key"
	rpcURLFlag          = "rpc-url"
	envFileFlag         = "env-file"
	logLevelFlag        = "log-level"
	revertsFlag         = "reverts"
	bundleFlag          = "bundle"
	timeoutFlag         = "timeout"
	pollIntervalFlag    = "poll-interval"
	metricsTextfileFlag = "metrics-textfile"
	relayAuthKeyFlag    = "relay-auth-key"
)

// BindPersistentFlags registers the flags shared by every command on cmd and binds them to v.
func BindPersistentFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String(privateKeyFlag, config.DevPrivateKey, "Hex encoded secp256k1 private key (defaults to the Anvil/Hardhat dev account)")
	flags.String(rpcURLFlag, config.DefaultRPCAlias, "RPC endpoint or alias: local, uni-sepolia, uni-experimental")
	flags.String(envFileFlag, ".env", "Optional .env file, variables already set in the environment win")
	flags.String(logLevelFlag, "info", "Log level (trace, debug, info, warn, error)")

	bind(v, config.KeyPrivateKey, flags.Lookup(privateKeyFlag))
	bind(v, config.KeyRPCURL, flags.Lookup(rpcURLFlag))
	bind(v, config.KeyEnvFile, flags.Lookup(envFileFlag))
	bind(v, config.KeyLoggerLevel, flags.Lookup(logLevelFlag))
}

// BindFlags registers the send flags on cmd and binds them to v.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.Bool(revertsFlag, false, "Send a contract creation whose init code always reverts instead of a transfer")
	flags.Bool(bundleFlag, false, "Submit as a single transaction bundle (eth_sendBundle) instead of a broadcast")
	flags.Duration(timeoutFlag, config.DefaultWatchTimeout, "How long to wait for inclusion")
	flags.Duration(pollIntervalFlag, config.DefaultPollInterval, "Receipt polling interval")
	flags.String(metricsTextfileFlag, "", "Write prometheus metrics to this node exporter textfile on exit")
	flags.String(relayAuthKeyFlag, "", "Private key signing X-Flashbots-Signature headers for bundle requests")

	bind(v, config.KeyReverts, flags.Lookup(revertsFlag))
	bind(v, config.KeyBundle, flags.Lookup(bundleFlag))
	bind(v, config.KeyWatchTimeout, flags.Lookup(timeoutFlag))
	bind(v, config.KeyWatchPollInterval, flags.Lookup(pollIntervalFlag))
	bind(v, config.KeyMetricsTextfile, flags.Lookup(metricsTextfileFlag))
	bind(v, config.KeyRelayAuthKey, flags.Lookup(relayAuthKeyFlag))
}

// LoadConfig reads the .env file named by v, then the full sender configuration.
func LoadConfig(v *viper.Viper) config.Sender {
	config.DotEnvTryLoad(v.GetString(config.KeyEnvFile), os.Setenv)
	return config.SenderConfigFromViper(v).Normalize()
}

// RunE returns the cobra handler running one send with the configuration in v.
func RunE(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := LoadConfig(v)

		return command.WithLogger(cmd.Context(), cfg, func(ctx context.Context) error {
			return Send(ctx, cfg, cmd)
		})
	}
}

// Send builds, signs and submits one transaction and waits for it.
// Watch outcomes are printed, only pipeline failures are returned.
func Send(ctx context.Context, cfg config.Sender, cmd *cobra.Command) (err error) {
	defer func() {
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error:          %v\n", err)
		}
	}()

	p, cleanup, err := sender.InitPipeline(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := p.Run(ctx)
	if err != nil {
		util.LogFromContext(ctx).Error().
			Err(err).
			Str("step", string(sender.StepOf(err))).
			Str("run_id", result.RunID).
			Msg("Send failed")
		return err
	}

	util.LogFromContext(ctx).Info().
		Str("run_id", result.RunID).
		Str("outcome", result.Outcome.Name()).
		Msg("Send finished")

	return nil
}

func bind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(errors.Wrapf(err, "failed to bind --%s", flag.Name))
	}
}
