package cli

import (
	"github.com/spf13/cobra"

	"bmac/internal/di"
	"bmac/internal/structures"
)

func newServeCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP stats daemon",
		Long:  "Serves the stats API until SIGINT/SIGTERM and shuts down gracefully.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// InitApp blocks until the server is asked to stop.
			_, err := di.InitApp(flags)
			return err
		},
	}
}
