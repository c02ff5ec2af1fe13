package cli

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"bmac/internal/di"
	"bmac/internal/models"
	"bmac/internal/structures"
	"bmac/internal/supporter"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newStatsCmd(flags *structures.CliFlags) *cobra.Command {
	var (
		noCache     bool
		format      string
		coffeePrice float64
		pageSize    int
	)

	cmd := &cobra.Command{
		Use:   "stats <creator>",
		Short: "Fetch and analyze a creator's supporters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}

			analyzer, err := di.InitAnalyzer(flags)
			if err != nil {
				return err
			}
			defer analyzer.Close()

			// The flag default is a placeholder; the configured price
			// wins unless the user set one explicitly.
			if !cmd.Flags().Changed("coffee-price") {
				coffeePrice = analyzer.Conf.Analyzer.CoffeePrice
			}
			if coffeePrice < 0 {
				return errors.New("coffee price must not be negative")
			}

			creator := args[0]
			records, err := analyzer.Fetcher.FetchAll(cmd.Context(), creator, !noCache, pageSize)
			if err != nil {
				if errors.Is(err, supporter.ErrCacheCorrupt) {
					return fmt.Errorf("%w (try `bmac cache %s --clear`)", err, creator)
				}
				return err
			}

			report, err := analyzer.Stats.Analyze(records, coffeePrice)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				body, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(body))
				return nil
			}

			if report.NoData {
				fmt.Fprintf(out, "No supporter data found for %s\n", creator)
				return nil
			}

			renderReport(out, creator, report, coffeePrice)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local cache and fetch fresh data")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().Float64VarP(&coffeePrice, "coffee-price", "p", 5.0, "price per coffee used for earnings")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "records per API page (0 uses the configured size)")

	return cmd
}

// renderReport prints the three stats tables in the order the analysis
// builds them. The coffee price is needed again here because pattern
// rows show the dollar amount behind each coffee-count bucket.
func renderReport(out io.Writer, creator string, report *models.StatsReport, coffeePrice float64) {
	renderSummary(out, creator, report.Summary)
	renderPatterns(out, report.SupportPatterns, coffeePrice)
	renderTrends(out, report.MonthlyTrends)
}
