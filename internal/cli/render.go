package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bmac/internal/models"
)

var currencyPrinter = message.NewPrinter(language.English)

// formatCurrency renders a dollar amount with thousands grouping,
// e.g. $1,234.50.
func formatCurrency(amount float64) string {
	return currencyPrinter.Sprintf("$%.2f", amount)
}

func newRenderTable(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}

func renderSummary(out io.Writer, creator string, s models.Summary) {
	t := newRenderTable(out, fmt.Sprintf("📊 Statistics for %s", creator))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total Supporters", s.TotalSupporters},
		{"Total Coffees", s.TotalCoffees},
		{"Total Earnings", formatCurrency(s.TotalEarnings)},
		{"Avg Coffees/Supporter", fmt.Sprintf("%.2f", s.AverageCoffeesPerSupporter)},
		{"Avg Earnings/Supporter", formatCurrency(s.AverageEarningsPerSupporter)},
		{"First Support", s.FirstSupport},
		{"Last Support", s.LastSupport},
		{"Days Active", s.DaysActive},
	})
	t.Render()
	fmt.Fprintln(out)
}

func renderPatterns(out io.Writer, p models.SupportPatterns, coffeePrice float64) {
	t := newRenderTable(out, "👥 Support Patterns")
	t.AppendHeader(table.Row{"Type", "Count"})

	counts := make([]int, 0, len(p.CoffeeDistribution))
	for coffees := range p.CoffeeDistribution {
		counts = append(counts, coffees)
	}
	sort.Ints(counts)
	for _, coffees := range counts {
		supporters := p.CoffeeDistribution[coffees]
		amount := float64(coffees) * coffeePrice * float64(supporters)
		t.AppendRow(table.Row{
			coffeeLabel(coffees),
			fmt.Sprintf("%d (%s)", supporters, formatCurrency(amount)),
		})
	}

	t.AppendRows([]table.Row{
		{"With Messages", p.SupportersWithMessages},
		{"Message Rate", p.MessageRate},
		{"Creator Supporters", p.CreatorSupporters},
	})
	t.Render()
	fmt.Fprintln(out)
}

func coffeeLabel(coffees int) string {
	if coffees > 1 {
		return fmt.Sprintf("%d Coffees", coffees)
	}
	return fmt.Sprintf("%d Coffee", coffees)
}

func renderTrends(out io.Writer, tr models.MonthlyTrends) {
	t := newRenderTable(out, "📈 Monthly Trends")
	t.AppendHeader(table.Row{"Period", "Coffees", "Earnings"})
	t.AppendRows([]table.Row{
		{fmt.Sprintf("Best Month (%s)", tr.BestMonth.Month), tr.BestMonth.Coffees, formatCurrency(tr.BestMonth.Earnings)},
		{fmt.Sprintf("Worst Month (%s)", tr.WorstMonth.Month), tr.WorstMonth.Coffees, formatCurrency(tr.WorstMonth.Earnings)},
		{"Monthly Average", fmt.Sprintf("%.1f", tr.MonthlyAverages.Coffees), formatCurrency(tr.MonthlyAverages.Earnings)},
	})
	t.Render()
}

func renderCacheInfo(out io.Writer, info *models.CacheInfo) {
	t := newRenderTable(out, fmt.Sprintf("💾 Cache Info for %s", info.Creator))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Size", fmt.Sprintf("%.2f KB", float64(info.SizeBytes)/1024)},
		{"Last Modified", info.LastModified.Format("2006-01-02 15:04:05")},
		{"Path", info.Path},
	})
	t.Render()
}
