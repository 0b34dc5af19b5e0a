package api

import "net/http"

func (s *Server) handleMetricsOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.MetricsService.Overview(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleMetricsSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.MetricsService.Series(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"series": series})
}
