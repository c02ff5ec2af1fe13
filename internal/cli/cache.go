package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bmac/internal/di"
	"bmac/internal/structures"
)

func newCacheCmd(flags *structures.CliFlags) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "cache <creator>",
		Short: "Inspect or clear a creator's cached dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := di.InitAnalyzer(flags)
			if err != nil {
				return err
			}
			defer analyzer.Close()

			creator := args[0]
			out := cmd.OutOrStdout()

			if clear {
				removed, err := analyzer.Store.Invalidate(creator)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Cache cleared for %s\n", creator)
				} else {
					fmt.Fprintf(out, "No cache exists for %s\n", creator)
				}
				return nil
			}

			info, ok, err := analyzer.Store.Describe(creator)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "No cache exists for %s\n", creator)
				return nil
			}
			renderCacheInfo(out, info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove the cached dataset for this creator")

	return cmd
}
