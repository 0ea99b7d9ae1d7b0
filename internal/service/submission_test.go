package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ycliang/transport-report/internal/domain"
	"github.com/ycliang/transport-report/internal/legacy"
	"github.com/ycliang/transport-report/internal/repo"
	"github.com/ycliang/transport-report/internal/service"
)

// mockRecordRepo is a hand-written test double for repo.TripRecordRepo.
// Each method is a function field — set only the ones your test needs.
type mockRecordRepo struct {
	append  func(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error)
	listAll func(ctx context.Context) ([]domain.TripRecord, error)
}

func (m *mockRecordRepo) Append(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	return m.append(ctx, rec)
}
func (m *mockRecordRepo) ListAll(ctx context.Context) ([]domain.TripRecord, error) {
	return m.listAll(ctx)
}

// compile-time check: mockRecordRepo must satisfy repo.TripRecordRepo.
var _ repo.TripRecordRepo = (*mockRecordRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func intPtr(v int) *int { return &v }

// validInput returns a fully filled, valid submission.
func validInput() service.SubmissionInput {
	return service.SubmissionInput{
		Driver:          "司機A",
		TripDate:        time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		StartTime:       "05:00",
		EndTime:         "17:00",
		Route:           "中一線",
		OdometerStart:   intPtr(1000),
		OdometerEnd:     intPtr(1120),
		PalletsSent:     intPtr(8),
		PalletsReceived: intPtr(2),
		EmptyBaskets:    intPtr(4),
		EmptyPallets:    intPtr(2),
		CustomerCount:   intPtr(15),
	}
}

// echoRepo echoes whatever it receives back — useful for tests that only care
// about validation and derivation, not what the DB returns.
func echoRepo() *mockRecordRepo {
	return &mockRecordRepo{
		append: func(_ context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
			return rec, nil
		},
	}
}

func newSubmission(r repo.TripRecordRepo) *service.SubmissionService {
	return service.NewSubmissionService(r, service.SubmissionPolicy{})
}

// ---- Submit tests ----------------------------------------------------------

func TestSubmit_DerivesDistanceAndPalletTotal(t *testing.T) {
	svc := newSubmission(echoRepo())

	got, err := svc.Submit(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, 120, got.Distance, "distance = end - start")
	assert.Equal(t, 10, got.PalletsTotal, "total = sent + received")
}

func TestSubmit_BlankOptionalsDefaultToZero(t *testing.T) {
	svc := newSubmission(echoRepo())

	in := validInput()
	in.PalletsSent = nil
	in.PalletsReceived = nil
	in.EmptyBaskets = nil
	in.EmptyPallets = nil

	got, err := svc.Submit(context.Background(), in)

	require.NoError(t, err)
	assert.Zero(t, got.PalletsSent)
	assert.Zero(t, got.PalletsReceived)
	assert.Zero(t, got.PalletsTotal)
	assert.Zero(t, got.EmptyBaskets)
	assert.Zero(t, got.EmptyPallets)
}

func TestSubmit_RequiredFields(t *testing.T) {
	svc := newSubmission(echoRepo())

	for name, mutate := range map[string]func(*service.SubmissionInput){
		"unknown driver":         func(in *service.SubmissionInput) { in.Driver = "nobody" },
		"route unselected":       func(in *service.SubmissionInput) { in.Route = "" },
		"unknown route":          func(in *service.SubmissionInput) { in.Route = "北九線" },
		"missing trip date":      func(in *service.SubmissionInput) { in.TripDate = time.Time{} },
		"missing odometer start": func(in *service.SubmissionInput) { in.OdometerStart = nil },
		"missing odometer end":   func(in *service.SubmissionInput) { in.OdometerEnd = nil },
		"missing customer count": func(in *service.SubmissionInput) { in.CustomerCount = nil },
	} {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Submit(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSubmit_NegativeDistanceRejectedByDefault(t *testing.T) {
	svc := newSubmission(echoRepo())

	in := validInput()
	in.OdometerStart = intPtr(1120)
	in.OdometerEnd = intPtr(1000)

	_, err := svc.Submit(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmit_NegativeDistanceAllowedByPolicy(t *testing.T) {
	svc := service.NewSubmissionService(echoRepo(), service.SubmissionPolicy{AllowNegativeDistance: true})

	in := validInput()
	in.OdometerStart = intPtr(1120)
	in.OdometerEnd = intPtr(1000)

	got, err := svc.Submit(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, -120, got.Distance)
}

func TestSubmit_NegativeCountsRejected(t *testing.T) {
	svc := newSubmission(echoRepo())

	in := validInput()
	in.EmptyBaskets = intPtr(-1)

	_, err := svc.Submit(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmit_RepoError(t *testing.T) {
	repoErr := errors.New("store unavailable")
	r := &mockRecordRepo{
		append: func(_ context.Context, _ domain.TripRecord) (domain.TripRecord, error) {
			return domain.TripRecord{}, repoErr
		},
	}
	svc := newSubmission(r)

	_, err := svc.Submit(context.Background(), validInput())

	// The service should propagate repo errors unchanged; no record is stored
	// and nothing retries.
	assert.ErrorIs(t, err, repoErr)
}

func TestSubmit_ValidationFailureAppendsNothing(t *testing.T) {
	appended := 0
	r := &mockRecordRepo{
		append: func(_ context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
			appended++
			return rec, nil
		},
	}
	svc := newSubmission(r)

	in := validInput()
	in.Route = ""
	_, err := svc.Submit(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, appended, "no row may be appended on validation failure")
}

// ---- ImportLegacy tests ----------------------------------------------------

func TestImportLegacy_CountsImportedAndSkipped(t *testing.T) {
	var stored []domain.TripRecord
	r := &mockRecordRepo{
		append: func(_ context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
			stored = append(stored, rec)
			return rec, nil
		},
	}
	svc := newSubmission(r)

	rows := []legacy.Row{
		{"司機": "司機A", "日期": "2026/1/5", "路線別": "中一線", "空籃": "3"},
		{"日期": "2026-01-06", "路線別": "中二線"}, // no driver — skipped
	}

	result, err := svc.ImportLegacy(context.Background(), rows)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, stored, 1)
	assert.Equal(t, 3, stored[0].EmptyBaskets)
}

func TestImportLegacy_StoreErrorAborts(t *testing.T) {
	storeErr := errors.New("append failed")
	r := &mockRecordRepo{
		append: func(_ context.Context, _ domain.TripRecord) (domain.TripRecord, error) {
			return domain.TripRecord{}, storeErr
		},
	}
	svc := newSubmission(r)

	rows := []legacy.Row{{"司機": "司機A", "日期": "2026-01-05", "路線別": "中一線"}}
	_, err := svc.ImportLegacy(context.Background(), rows)

	assert.ErrorIs(t, err, storeErr)
}

// ---- List tests ------------------------------------------------------------

func TestList_Pages(t *testing.T) {
	all := make([]domain.TripRecord, 5)
	for i := range all {
		all[i].Remark = marker(i)
	}
	r := &mockRecordRepo{
		listAll: func(_ context.Context) ([]domain.TripRecord, error) { return all, nil },
	}
	svc := newSubmission(r)

	page, total, err := svc.List(context.Background(), domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, marker(2), page[0].Remark)
}

func TestList_PastEndReturnsEmptyNotNil(t *testing.T) {
	r := &mockRecordRepo{
		listAll: func(_ context.Context) ([]domain.TripRecord, error) { return nil, nil },
	}
	svc := newSubmission(r)

	page, total, err := svc.List(context.Background(), domain.PaginationParams{Page: 3, Limit: 20})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

// marker gives each fixture record a distinct marker.
func marker(i int) string {
	return time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("01-02")
}
