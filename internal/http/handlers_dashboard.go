package http

import (
	"net/http"
)

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	year, err := ParseYear(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := s.svc.Reports.Monthly(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"year":          report.Year,
		"chart_data":    report.Buckets,
		"summary":       report.Summary,
		"current_month": report.Summary.CurrentMonth,
	})
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	year, err := ParseYear(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := s.svc.Reports.Summary(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}

func (s *Server) handleDashboardDaily(w http.ResponseWriter, r *http.Request) {
	mp, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := s.svc.Reports.Daily(r.Context(), mp.Year, mp.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"year":    report.Year,
		"month":   report.Month,
		"data":    report.Days,
	})
}

func (s *Server) handleDashboardFinancial(w http.ResponseWriter, r *http.Request) {
	mp, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	fs, err := s.svc.Reports.Financial(r.Context(), mp.Year, mp.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "year": mp.Year, "month": mp.Month, "data": fs})
}
