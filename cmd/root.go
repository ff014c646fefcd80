package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-sendtx/cmd/probe"
	"github/chapool/go-sendtx/cmd/send"
	"github/chapool/go-sendtx/internal/config"
)

// New returns the root command. Run without a subcommand it sends one transaction.
func New() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Version: config.GetFormattedBuildArgs(),
		Use:     "sendtx",
		Short:   config.ModuleName,
		Long: fmt.Sprintf(`%v

Builds, signs and submits a single EIP-1559 transaction, then waits for it to be included.
Configured through flags or ENV (prefix %s_).`, config.ModuleName, config.EnvPrefix),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          send.RunE(v),
	}

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	send.BindPersistentFlags(rootCmd, v)
	send.BindFlags(rootCmd, v)

	// attach the subcommands
	rootCmd.AddCommand(
		probe.New(v),
	)

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := New().Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
