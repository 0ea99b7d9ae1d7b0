package handler

import (
	"net/http"
)

// getMonthlyReport handles GET /api/v1/reports/monthly.
// ?month=YYYY-MM selects the month; omitted means the current month.
// A month with no filings returns 404 with code no_records — explicitly
// empty, never a zero-filled table.
func (s *Server) getMonthlyReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Monthly(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// getDailyReport handles GET /api/v1/reports/daily.
// ?date=YYYY-MM-DD selects the day; omitted means today.
func (s *Server) getDailyReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
