package command

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
	"github/chapool/go-sendtx/internal/config"
)

// NewSubcommandGroup returns a command that only groups its subcommands and prints help when run directly.
func NewSubcommandGroup(use string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: use + " related subcommands",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// SetupLogger configures the global zerolog logger. Logs go to stderr so stdout stays reserved for the report.
func SetupLogger(cfg config.Logger) {
	setupLogger(cfg, os.Stderr)
}

func setupLogger(cfg config.Logger, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(cfg.Level)

	if cfg.PrettyPrintConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// WithLogger sets up logging from cfg and runs fn with a context carrying the global logger.
func WithLogger(ctx context.Context, cfg config.Sender, fn func(ctx context.Context) error) error {
	SetupLogger(cfg.Logger)

	return fn(log.Logger.WithContext(ctx))
}
