package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ycliang/transport-report/internal/domain"
	"github.com/ycliang/transport-report/internal/legacy"
	"github.com/ycliang/transport-report/internal/service"
)

// createRecordRequest is the JSON body of POST /api/v1/records.
// Optional numeric fields are pointers so a blank form field (absent key)
// is distinguishable from an explicit zero.
type createRecordRequest struct {
	Driver          string `json:"driver"`
	TripDate        string `json:"trip_date"` // "YYYY-MM-DD"
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Route           string `json:"route"`
	OdometerStart   *int   `json:"odometer_start"`
	OdometerEnd     *int   `json:"odometer_end"`
	PalletsSent     *int   `json:"pallets_sent"`
	PalletsReceived *int   `json:"pallets_received"`
	EmptyBaskets    *int   `json:"empty_baskets"`
	EmptyPallets    *int   `json:"empty_pallets"`
	CustomerCount   *int   `json:"customer_count"`
	Remark          string `json:"remark"`
}

// createRecord handles POST /api/v1/records.
// A successful submission appends exactly one row; a validation failure
// appends nothing. Store failures surface as a 500 with no automatic retry.
func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body must be valid JSON")
		return
	}

	in := service.SubmissionInput{
		Driver:          req.Driver,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Route:           req.Route,
		OdometerStart:   req.OdometerStart,
		OdometerEnd:     req.OdometerEnd,
		PalletsSent:     req.PalletsSent,
		PalletsReceived: req.PalletsReceived,
		EmptyBaskets:    req.EmptyBaskets,
		EmptyPallets:    req.EmptyPallets,
		CustomerCount:   req.CustomerCount,
		Remark:          req.Remark,
	}
	if req.TripDate != "" {
		d, err := legacy.ParseDate(req.TripDate)
		if err != nil {
			requestError(w, "trip_date must be formatted YYYY-MM-DD")
			return
		}
		in.TripDate = d
	}

	created, err := s.records.Submit(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// importRecordsRequest is the JSON body of POST /api/v1/records/import:
// a batch of legacy spreadsheet rows keyed by their original header names.
type importRecordsRequest struct {
	Rows []map[string]string `json:"rows"`
}

// importRecords handles POST /api/v1/records/import.
// Unresolvable rows are skipped and reported; they never fail the batch.
func (s *Server) importRecords(w http.ResponseWriter, r *http.Request) {
	var req importRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body must be valid JSON")
		return
	}
	if len(req.Rows) == 0 {
		requestError(w, "rows is required")
		return
	}

	rows := make([]legacy.Row, len(req.Rows))
	for i, m := range req.Rows {
		rows[i] = legacy.Row(m)
	}

	result, err := s.records.ImportLegacy(r.Context(), rows)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// listRecordsResponse is the paged JSON body of GET /api/v1/records.
type listRecordsResponse struct {
	Data       []domain.TripRecord `json:"data"`
	Pagination pagination          `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// listRecords handles GET /api/v1/records.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	records, total, err := s.records.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listRecordsResponse{
		Data: records,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// queryInt parses an optional integer query parameter, returning nil when the
// parameter is absent or not a number.
func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
