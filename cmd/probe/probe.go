package probe

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-sendtx/internal/util/command"
)

func New(v *viper.Viper) *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newSnapshot(v),
	)
}
