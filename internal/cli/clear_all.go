package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bmac/internal/di"
	"bmac/internal/structures"
)

func newClearAllCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-all",
		Short: "Remove every cached dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := di.InitAnalyzer(flags)
			if err != nil {
				return err
			}
			defer analyzer.Close()

			removed, err := analyzer.Store.InvalidateAll()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if removed == 0 {
				fmt.Fprintln(out, "Cache is already empty")
				return nil
			}
			fmt.Fprintf(out, "All cache cleared successfully (%d entries)\n", removed)
			return nil
		},
	}
}
