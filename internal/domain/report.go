package domain

// RouteStats is the aggregate for one route within one calendar month.
// Rank is a competition rank on Productivity: equal scores share a rank, and
// the next distinct score resumes at 1 + the number of strictly better routes.
type RouteStats struct {
	Route         string  `json:"route"`
	Trips         int     `json:"trips"`
	TotalDistance int     `json:"total_distance"`
	AvgDistance   float64 `json:"avg_distance"`
	TotalPallets  int     `json:"total_pallets"`
	AvgCustomers  float64 `json:"avg_customers"`
	Productivity  float64 `json:"productivity"`
	Rank          int     `json:"rank"`
}

// MonthlyReport is the full aggregation view for one calendar month.
// It is derived and ephemeral: recomputed from the full record set on every
// request, never persisted.
type MonthlyReport struct {
	Month        string       `json:"month"` // "2026-01"
	TotalTrips   int          `json:"total_trips"`
	TotalPallets int          `json:"total_pallets"`
	Bonus        int          `json:"bonus"` // NT$, rounded to a whole amount
	Routes       []RouteStats `json:"routes"` // sorted by rank ascending
}

// DailySummary is the quick confirmation view for one day's filings.
type DailySummary struct {
	Date          string       `json:"date"` // "2026-01-21"
	Trips         int          `json:"trips"`
	TotalDistance int          `json:"total_distance"`
	TotalPallets  int          `json:"total_pallets"`
	Recent        []TripRecord `json:"recent"` // most recent filings, newest first
}
