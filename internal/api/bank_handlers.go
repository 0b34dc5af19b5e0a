package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/models"
)

// parseFilters reads the ?filters= query parameter, a comma-separated list
// of category keys.
func parseFilters(r *http.Request) ([]models.Category, error) {
	raw := r.URL.Query().Get("filters")
	if raw == "" {
		return nil, nil
	}
	var filters []models.Category
	for _, part := range strings.Split(raw, ",") {
		cat, ok := models.ParseCategory(strings.TrimSpace(part))
		if !ok {
			return nil, errors.NewBadRequestError("unknown filter category: " + part)
		}
		filters = append(filters, cat)
	}
	return filters, nil
}

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	banks, err := s.BankService.List(r.Context(), filters)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"banks": banks})
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	bank, err := s.BankService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bank)
}

// handleImport rescans the bank directory and enqueues an import job per
// document found.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	paths, err := s.ImportService.ScanDir(r.Context(), s.BankDir)
	if err != nil {
		handleError(w, r, err)
		return
	}
	enqueued := 0
	for _, path := range paths {
		if err := s.JobQueue.EnqueueBankImport(path); err != nil {
			log.Warn("failed to enqueue import for %s: %v", path, err)
			continue
		}
		enqueued++
	}
	respondJSON(w, http.StatusAccepted, map[string]any{"enqueued": enqueued})
}

func (s *Server) handleToggleMark(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "id")

	marked, err := s.SessionService.ToggleMark(r.Context(), questionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"question_id": questionID,
		"marked":      marked,
	})
}
