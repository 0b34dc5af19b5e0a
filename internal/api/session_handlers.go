package api

import (
	"net/http"
	"time"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/services"
	"github.com/quizdeck/quizdeck/internal/session"
)

type startSessionRequest struct {
	BankID          string   `json:"bank_id"`
	QuestionCount   int      `json:"question_count"`
	TutorMode       bool     `json:"tutor_mode"`
	TimerEnabled    bool     `json:"timer_enabled"`
	TimePerQuestion int      `json:"time_per_question_seconds"`
	Filters         []string `json:"filters"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var filters []models.Category
	for _, f := range req.Filters {
		cat, ok := models.ParseCategory(f)
		if !ok {
			handleError(w, r, errors.NewBadRequestError("unknown filter category: "+f))
			return
		}
		filters = append(filters, cat)
	}

	state, err := s.SessionService.Start(r.Context(), services.StartRequest{
		BankID:          req.BankID,
		QuestionCount:   req.QuestionCount,
		TutorMode:       req.TutorMode,
		TimerEnabled:    req.TimerEnabled,
		TimePerQuestion: time.Duration(req.TimePerQuestion) * time.Second,
		Filters:         filters,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.SessionService.State(r.Context()))
}

type answerRequest struct {
	OptionIndex int `json:"option_index"`
}

// Out-of-turn intents are silent no-ops in the engine; the handlers simply
// return the resulting state, so the client never needs an error path for
// engine desynchronization.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.SessionService.Answer(r.Context(), req.OptionIndex))
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.SessionService.Continue(r.Context()))
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	dir := session.Direction(req.Direction)
	if dir != session.DirectionPrevious && dir != session.DirectionNext {
		handleError(w, r, errors.NewBadRequestError("direction must be 'previous' or 'next'"))
		return
	}
	respondJSON(w, http.StatusOK, s.SessionService.Navigate(r.Context(), dir))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.SessionService.Pause(r.Context()))
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.SessionService.Resume(r.Context()))
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.SessionService.Quit(r.Context()))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.SessionService.Restart(r.Context()))
}
