package models

// StatsReport is the full analysis of one creator's supporter dataset.
// Field names mirror the JSON emitted by `stats --format json`.
type StatsReport struct {
	NoData          bool            `json:"no_data,omitempty"`
	Summary         Summary         `json:"summary"`
	SupportPatterns SupportPatterns `json:"support_patterns"`
	MonthlyTrends   MonthlyTrends   `json:"monthly_trends"`
}

type Summary struct {
	TotalSupporters             int     `json:"total_supporters"`
	TotalCoffees                int     `json:"total_coffees"`
	TotalEarnings               float64 `json:"total_earnings"`
	AverageCoffeesPerSupporter  float64 `json:"average_coffees_per_supporter"`
	AverageEarningsPerSupporter float64 `json:"average_earnings_per_supporter"`
	FirstSupport                string  `json:"first_support"`
	LastSupport                 string  `json:"last_support"`
	DaysActive                  int     `json:"days_active"`
}

type SupportPatterns struct {
	CoffeeDistribution     map[int]int `json:"coffee_distribution"`
	SupportersWithMessages int         `json:"supporters_with_messages"`
	MessageRate            string      `json:"message_rate"`
	CreatorSupporters      int         `json:"creator_supporters"`
}

type MonthStat struct {
	Month      string  `json:"month"`
	Supporters int     `json:"supporters"`
	Coffees    int     `json:"coffees"`
	Earnings   float64 `json:"earnings"`
}

type MonthlyAverages struct {
	Supporters float64 `json:"supporters"`
	Coffees    float64 `json:"coffees"`
	Earnings   float64 `json:"earnings"`
}

type MonthlyTrends struct {
	Months          []MonthStat     `json:"months"`
	BestMonth       MonthStat       `json:"best_month"`
	WorstMonth      MonthStat       `json:"worst_month"`
	MonthlyAverages MonthlyAverages `json:"monthly_averages"`
}
