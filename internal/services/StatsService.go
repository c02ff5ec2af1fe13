package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"bmac/internal/models"
)

// ErrBadRecord marks a record whose payload cannot be analyzed, such as
// a missing or unparseable timestamp. The condition is permanent: the
// upstream payload itself is broken, retrying changes nothing.
var ErrBadRecord = errors.New("malformed support record")

const (
	supportTimeLayout = "2006-01-02T15:04:05"
	dayLayout         = "2006-01-02"
	monthLayout       = "2006-01"
)

type StatsServiceInterface interface {
	Analyze(records []models.SupportRecord, unitPrice float64) (*models.StatsReport, error)
}

// StatsService derives the full report from a supporter dataset. It is
// stateless: Analyze is a pure function of its arguments and never
// mutates the records it is given.
type StatsService struct {
}

func NewStatsService() StatsServiceInterface {
	return &StatsService{}
}

// parseSupportTime reads the upstream timestamp format. Fractional
// seconds vary per record, so anything after the first dot is dropped
// before parsing.
func parseSupportTime(raw string) (time.Time, error) {
	head, _, _ := strings.Cut(raw, ".")
	return time.Parse(supportTimeLayout, head)
}

// monthAgg accumulates one calendar month during the grouping pass.
type monthAgg struct {
	supporters int
	coffees    int
}

// Analyze builds the stats report for a dataset. An empty dataset is a
// valid outcome and yields the NoData report, not an error. All float
// fields carry unrounded values; rounding happens at the presentation
// edge only.
func (ss *StatsService) Analyze(records []models.SupportRecord, unitPrice float64) (*models.StatsReport, error) {
	if len(records) == 0 {
		return &models.StatsReport{NoData: true}, nil
	}

	// Timestamps are derived into a parallel slice, never written back
	// onto the records, so a second Analyze over the same slice sees
	// the raw strings again.
	times := make([]time.Time, len(records))
	for i, rec := range records {
		ts, err := parseSupportTime(rec.CreatedOn)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (%q): %w", ErrBadRecord, rec.ID, rec.CreatedOn, err)
		}
		times[i] = ts
	}

	var (
		totalCoffees      int
		withMessages      int
		creatorSupporters int
		distribution      = make(map[int]int)
		byMonth           = make(map[string]*monthAgg)
		first             = times[0]
		last              = times[0]
	)

	for i, rec := range records {
		totalCoffees += rec.Coffees
		distribution[rec.Coffees]++
		if rec.HasNote() {
			withMessages++
		}
		if rec.IsCreator {
			creatorSupporters++
		}

		ts := times[i]
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}

		month := ts.Format(monthLayout)
		agg := byMonth[month]
		if agg == nil {
			agg = &monthAgg{}
			byMonth[month] = agg
		}
		agg.supporters++
		agg.coffees += rec.Coffees
	}

	total := len(records)
	totalEarnings := float64(totalCoffees) * unitPrice

	return &models.StatsReport{
		Summary: models.Summary{
			TotalSupporters:             total,
			TotalCoffees:                totalCoffees,
			TotalEarnings:               totalEarnings,
			AverageCoffeesPerSupporter:  float64(totalCoffees) / float64(total),
			AverageEarningsPerSupporter: totalEarnings / float64(total),
			FirstSupport:                first.Format(dayLayout),
			LastSupport:                 last.Format(dayLayout),
			DaysActive:                  daysBetween(first, last),
		},
		SupportPatterns: models.SupportPatterns{
			CoffeeDistribution:     distribution,
			SupportersWithMessages: withMessages,
			MessageRate:            fmt.Sprintf("%.1f%%", float64(withMessages)/float64(total)*100),
			CreatorSupporters:      creatorSupporters,
		},
		MonthlyTrends: buildMonthlyTrends(byMonth, unitPrice),
	}, nil
}

// daysBetween counts whole days between the calendar dates of two
// instants, ignoring the time of day on either side.
func daysBetween(first, last time.Time) int {
	f := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	l := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	return int(l.Sub(f).Hours() / 24)
}

func buildMonthlyTrends(byMonth map[string]*monthAgg, unitPrice float64) models.MonthlyTrends {
	labels := make([]string, 0, len(byMonth))
	for label := range byMonth {
		labels = append(labels, label)
	}
	// Lexicographic order of YYYY-MM labels is chronological order.
	slices.Sort(labels)

	months := make([]models.MonthStat, 0, len(labels))
	var (
		sumSupporters int
		sumCoffees    int
		sumEarnings   float64
	)
	for _, label := range labels {
		agg := byMonth[label]
		stat := models.MonthStat{
			Month:      label,
			Supporters: agg.supporters,
			Coffees:    agg.coffees,
			Earnings:   float64(agg.coffees) * unitPrice,
		}
		months = append(months, stat)
		sumSupporters += agg.supporters
		sumCoffees += agg.coffees
		sumEarnings += stat.Earnings
	}

	// Strict comparisons over the ascending months keep the earliest
	// month selected when revenues tie.
	best, worst := months[0], months[0]
	for _, m := range months[1:] {
		if m.Earnings > best.Earnings {
			best = m
		}
		if m.Earnings < worst.Earnings {
			worst = m
		}
	}

	n := float64(len(months))
	return models.MonthlyTrends{
		Months:     months,
		BestMonth:  best,
		WorstMonth: worst,
		MonthlyAverages: models.MonthlyAverages{
			Supporters: float64(sumSupporters) / n,
			Coffees:    float64(sumCoffees) / n,
			Earnings:   sumEarnings / n,
		},
	}
}
