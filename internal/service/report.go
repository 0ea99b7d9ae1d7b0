package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ycliang/transport-report/internal/domain"
	"github.com/ycliang/transport-report/internal/repo"
)

// ReportService computes the derived report views. Every report re-reads the
// full record set and recomputes in memory — nothing is persisted.
type ReportService struct {
	records repo.TripRecordRepo
	scoring domain.ScoringPolicy
	rates   domain.BonusRates
	now     func() time.Time
}

// NewReportService constructs a ReportService with the given scoring and
// bonus policies. Pass the domain defaults unless configuration overrides them.
func NewReportService(records repo.TripRecordRepo, scoring domain.ScoringPolicy, rates domain.BonusRates) *ReportService {
	return &ReportService{records: records, scoring: scoring, rates: rates, now: time.Now}
}

// SetNow overrides the service's clock. Intended for tests exercising the
// "current month" and "today" defaults.
func (s *ReportService) SetNow(now func() time.Time) { s.now = now }

// Monthly computes the aggregation view for the given "YYYY-MM" month, or for
// the current month when month is empty.
//
// Returns domain.ErrNoRecords (wrapped) when no record falls inside the
// month — an explicitly empty month, not a zero-filled table. Returns
// domain.ErrValidation for a malformed month string.
func (s *ReportService) Monthly(ctx context.Context, month string) (domain.MonthlyReport, error) {
	if month == "" {
		month = s.now().Format("2006-01")
	}
	ym, err := time.Parse("2006-01", month)
	if err != nil {
		return domain.MonthlyReport{}, fmt.Errorf("%w: month must be formatted YYYY-MM", domain.ErrValidation)
	}

	all, err := s.records.ListAll(ctx)
	if err != nil {
		return domain.MonthlyReport{}, fmt.Errorf("service.ReportService.Monthly: %w", err)
	}

	var monthRecords []domain.TripRecord
	for _, rec := range all {
		if rec.TripDate.Year() == ym.Year() && rec.TripDate.Month() == ym.Month() {
			monthRecords = append(monthRecords, rec)
		}
	}
	if len(monthRecords) == 0 {
		return domain.MonthlyReport{}, fmt.Errorf("service.ReportService.Monthly: month %s: %w", month, domain.ErrNoRecords)
	}

	report := domain.MonthlyReport{
		Month:      month,
		TotalTrips: len(monthRecords),
		Routes:     s.routeStats(monthRecords),
	}

	var bonus float64
	for _, rec := range monthRecords {
		report.TotalPallets += rec.PalletsTotal
		bonus += s.rates.TripBonus(rec)
	}
	report.Bonus = int(math.Round(bonus))

	return report, nil
}

// Daily computes the confirmation view for the given "YYYY-MM-DD" date, or
// for today when date is empty. Returns domain.ErrNoRecords (wrapped) when
// nothing was filed that day.
func (s *ReportService) Daily(ctx context.Context, date string) (domain.DailySummary, error) {
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("%w: date must be formatted YYYY-MM-DD", domain.ErrValidation)
	}

	all, err := s.records.ListAll(ctx)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("service.ReportService.Daily: %w", err)
	}

	summary := domain.DailySummary{Date: date}
	for _, rec := range all {
		y1, m1, d1 := rec.TripDate.Date()
		y2, m2, d2 := day.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			continue
		}
		summary.Trips++
		summary.TotalDistance += rec.Distance
		summary.TotalPallets += rec.PalletsTotal
		if len(summary.Recent) < recentLimit {
			// ListAll is newest first, so the first matches are the
			// most recent filings.
			summary.Recent = append(summary.Recent, rec)
		}
	}
	if summary.Trips == 0 {
		return domain.DailySummary{}, fmt.Errorf("service.ReportService.Daily: date %s: %w", date, domain.ErrNoRecords)
	}

	return summary, nil
}

// recentLimit is how many of the day's filings the daily summary echoes back
// for eyeball confirmation.
const recentLimit = 5

// routeStats groups one month's records by route and computes the per-route
// aggregates, productivity scores, and competition ranks.
func (s *ReportService) routeStats(records []domain.TripRecord) []domain.RouteStats {
	byRoute := make(map[string]*domain.RouteStats)
	customers := make(map[string]int)
	for _, rec := range records {
		st, ok := byRoute[rec.Route]
		if !ok {
			st = &domain.RouteStats{Route: rec.Route}
			byRoute[rec.Route] = st
		}
		st.Trips++
		st.TotalDistance += rec.Distance
		st.TotalPallets += rec.PalletsTotal
		customers[rec.Route] += rec.CustomerCount
	}

	stats := make([]domain.RouteStats, 0, len(byRoute))
	for route, st := range byRoute {
		st.AvgDistance = round1(float64(st.TotalDistance) / float64(st.Trips))
		st.AvgCustomers = round1(float64(customers[route]) / float64(st.Trips))
		st.Productivity = s.scoring.Productivity(st.TotalPallets, st.AvgDistance, st.AvgCustomers)
		stats = append(stats, *st)
	}

	// Sort by productivity descending; route name breaks ties so the table
	// order is deterministic. Ranks are competition ranks: tied scores share
	// a rank and the next distinct score resumes at 1 + the number of
	// strictly better routes.
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Productivity != stats[j].Productivity {
			return stats[i].Productivity > stats[j].Productivity
		}
		return stats[i].Route < stats[j].Route
	})
	for i := range stats {
		if i > 0 && stats[i].Productivity == stats[i-1].Productivity {
			stats[i].Rank = stats[i-1].Rank
			continue
		}
		stats[i].Rank = i + 1
	}

	return stats
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
