// Package handler implements the HTTP handlers for the transport report API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (record.go, report.go, health.go) but all share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ycliang/transport-report/internal/domain"
	"github.com/ycliang/transport-report/internal/legacy"
	"github.com/ycliang/transport-report/internal/service"
)

// RecordServicer defines the business operations the record handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RecordServicer interface {
	Submit(ctx context.Context, in service.SubmissionInput) (domain.TripRecord, error)
	ImportLegacy(ctx context.Context, rows []legacy.Row) (service.ImportResult, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.TripRecord, int, error)
}

// ReportServicer defines the report operations the report handlers depend on.
type ReportServicer interface {
	Monthly(ctx context.Context, month string) (domain.MonthlyReport, error)
	Daily(ctx context.Context, date string) (domain.DailySummary, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	records RecordServicer
	reports ReportServicer
	openapi []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the raw spec document served at /openapi.yaml; pass spec.OpenAPI.
func NewServer(records RecordServicer, reports ReportServicer, openapi []byte) *Server {
	return &Server{records: records, reports: reports, openapi: openapi}
}

// Routes registers every endpoint on r. Mount it at the router root;
// API resources live under /api/v1, operational endpoints at the top level.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/records", s.createRecord)
		r.Post("/records/import", s.importRecords)
		r.Get("/records", s.listRecords)
		r.Get("/reports/monthly", s.getMonthlyReport)
		r.Get("/reports/daily", s.getDailyReport)
	})
}

// Handler returns a standalone http.Handler with all routes registered.
// Convenient for tests; main wires Routes into its own middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
