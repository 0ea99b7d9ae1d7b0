// Package service contains the business logic for the transport report API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ycliang/transport-report/internal/domain"
	"github.com/ycliang/transport-report/internal/legacy"
	"github.com/ycliang/transport-report/internal/repo"
)

// SubmissionInput carries one day's form input. Optional numeric fields are
// pointers so "left blank" is distinguishable from an explicit zero, matching
// the form's empty-input semantics. Blank optionals default to zero.
type SubmissionInput struct {
	Driver          string
	TripDate        time.Time
	StartTime       string
	EndTime         string
	Route           string
	OdometerStart   *int
	OdometerEnd     *int
	PalletsSent     *int
	PalletsReceived *int
	EmptyBaskets    *int
	EmptyPallets    *int
	CustomerCount   *int
	Remark          string
}

// SubmissionPolicy holds the validation rules that varied across historical
// revisions of the form and are therefore configurable rather than fixed.
type SubmissionPolicy struct {
	// AllowNegativeDistance permits an end odometer reading below the start
	// reading. The permissive historical behavior silently stored negative
	// distances; the default rejects them.
	AllowNegativeDistance bool
}

// SubmissionService validates daily report input and appends trip records.
type SubmissionService struct {
	records repo.TripRecordRepo
	policy  SubmissionPolicy
}

// NewSubmissionService constructs a SubmissionService backed by the provided repo.
func NewSubmissionService(records repo.TripRecordRepo, policy SubmissionPolicy) *SubmissionService {
	return &SubmissionService{records: records, policy: policy}
}

// Submit validates the input, derives the computed fields, and appends
// exactly one record. Returns domain.ErrValidation (wrapped with the failing
// rule) when input violates business rules; repo errors propagate unchanged.
//
// There is no idempotency key: a retry after a successful-but-unacknowledged
// append creates a duplicate row. The store is append-only, so duplicates
// are resolved by hand upstream, as they always were.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (domain.TripRecord, error) {
	rec, err := s.buildRecord(in)
	if err != nil {
		return domain.TripRecord{}, err
	}

	stored, err := s.records.Append(ctx, rec)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.SubmissionService.Submit: %w", err)
	}
	return stored, nil
}

// ImportResult reports the outcome of a legacy batch import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"` // one message per skipped row
}

// ImportLegacy converts a batch of legacy spreadsheet rows through the alias
// adapter and appends the convertible ones. Rows that cannot be resolved are
// skipped and reported, never failing the batch; a store failure mid-batch
// aborts with the error (rows appended so far stay appended — the store has
// no transactions, matching the original sheet).
//
// Legacy rows bypass Submit's validation on purpose: historical data predates
// the current rules (unknown drivers, negative distances) and must still be
// queryable by the reports.
func (s *SubmissionService) ImportLegacy(ctx context.Context, rows []legacy.Row) (ImportResult, error) {
	records, rowErrs := legacy.ConvertAll(rows)

	result := ImportResult{Skipped: len(rowErrs)}
	for _, re := range rowErrs {
		result.Errors = append(result.Errors, re.Error())
	}

	for _, rec := range records {
		if _, err := s.records.Append(ctx, rec); err != nil {
			return result, fmt.Errorf("service.SubmissionService.ImportLegacy: after %d rows: %w", result.Imported, err)
		}
		result.Imported++
	}
	return result, nil
}

// List returns one page of records, newest first. Always returns a non-nil
// slice so callers can safely range over it.
func (s *SubmissionService) List(ctx context.Context, p domain.PaginationParams) ([]domain.TripRecord, int, error) {
	all, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.SubmissionService.List: %w", err)
	}

	total := len(all)
	start := p.Offset()
	if start >= total {
		return []domain.TripRecord{}, total, nil
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// buildRecord enforces the submission rules and derives the computed fields.
//   - Driver must be one of the fixed set.
//   - Route must be selected and known.
//   - Both odometer readings and the customer count must be present.
//   - Odometer readings must be non-negative; distance must be non-negative
//     unless the policy allows otherwise.
func (s *SubmissionService) buildRecord(in SubmissionInput) (domain.TripRecord, error) {
	if !domain.KnownDriver(in.Driver) {
		return domain.TripRecord{}, fmt.Errorf("%w: unknown driver %q", domain.ErrValidation, in.Driver)
	}
	if in.Route == "" {
		return domain.TripRecord{}, fmt.Errorf("%w: route is required", domain.ErrValidation)
	}
	if !domain.KnownRoute(in.Route) {
		return domain.TripRecord{}, fmt.Errorf("%w: unknown route %q", domain.ErrValidation, in.Route)
	}
	if in.TripDate.IsZero() {
		return domain.TripRecord{}, fmt.Errorf("%w: trip date is required", domain.ErrValidation)
	}
	if in.OdometerStart == nil {
		return domain.TripRecord{}, fmt.Errorf("%w: odometer start is required", domain.ErrValidation)
	}
	if in.OdometerEnd == nil {
		return domain.TripRecord{}, fmt.Errorf("%w: odometer end is required", domain.ErrValidation)
	}
	if in.CustomerCount == nil {
		return domain.TripRecord{}, fmt.Errorf("%w: customer count is required", domain.ErrValidation)
	}
	if *in.OdometerStart < 0 || *in.OdometerEnd < 0 {
		return domain.TripRecord{}, fmt.Errorf("%w: odometer readings must be non-negative", domain.ErrValidation)
	}

	distance := *in.OdometerEnd - *in.OdometerStart
	if distance < 0 && !s.policy.AllowNegativeDistance {
		return domain.TripRecord{}, fmt.Errorf("%w: odometer end must not be below odometer start", domain.ErrValidation)
	}

	for name, v := range map[string]*int{
		"pallets sent":     in.PalletsSent,
		"pallets received": in.PalletsReceived,
		"empty baskets":    in.EmptyBaskets,
		"empty pallets":    in.EmptyPallets,
		"customer count":   in.CustomerCount,
	} {
		if v != nil && *v < 0 {
			return domain.TripRecord{}, fmt.Errorf("%w: %s must be non-negative", domain.ErrValidation, name)
		}
	}

	sent := intOrZero(in.PalletsSent)
	received := intOrZero(in.PalletsReceived)

	return domain.TripRecord{
		Driver:          in.Driver,
		TripDate:        in.TripDate,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Route:           in.Route,
		OdometerStart:   *in.OdometerStart,
		OdometerEnd:     *in.OdometerEnd,
		Distance:        distance,
		PalletsSent:     sent,
		PalletsReceived: received,
		PalletsTotal:    sent + received,
		EmptyBaskets:    intOrZero(in.EmptyBaskets),
		EmptyPallets:    intOrZero(in.EmptyPallets),
		CustomerCount:   *in.CustomerCount,
		Remark:          in.Remark,
	}, nil
}

// intOrZero dereferences an optional numeric field, defaulting blank to 0.
func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
