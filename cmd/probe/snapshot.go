package probe

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-sendtx/cmd/send"
	"github/chapool/go-sendtx/internal/util/command"
	"github/chapool/go-sendtx/internal/wallet/sender"
)

func newSnapshot(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Prints chain state and the fee plan for the configured key without sending anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := send.LoadConfig(v)

			return command.WithLogger(cmd.Context(), cfg, func(ctx context.Context) error {
				p, cleanup, err := sender.InitProbe(ctx, cfg, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				defer cleanup()

				_, _, err = p.Run(ctx)
				return err
			})
		},
	}
}
