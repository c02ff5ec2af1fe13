package cli

import (
	"github.com/spf13/cobra"

	"bmac/internal/structures"
)

// Version is reported by --version.
const Version = "1.0.0"

// NewRootCmd builds the bmac command tree. Persistent flags land in a
// shared CliFlags that every subcommand hands to its injector.
func NewRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:          "bmac",
		Short:        "Buy Me a Coffee supporter statistics",
		Long:         "bmac fetches a creator's supporter feed, caches it locally and reports supporter statistics.",
		Version:      Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to a config file (defaults apply when omitted)")
	root.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "log at debug level")

	root.AddCommand(
		newStatsCmd(flags),
		newCacheCmd(flags),
		newClearAllCmd(flags),
		newServeCmd(flags),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
