package session

import (
	"time"

	"github.com/quizdeck/quizdeck/internal/models"
)

// State is a read-only snapshot of the engine for the presentation layer.
type State struct {
	Phase           Phase            `json:"phase"`
	BankID          string           `json:"bank_id,omitempty"`
	QuestionCount   int              `json:"question_count"`
	CurrentIndex    int              `json:"current_index"`
	Question        *models.Question `json:"question,omitempty"`
	SelectedAnswer  int              `json:"selected_answer"`
	IsAnswered      bool             `json:"is_answered"`
	ShowExplanation bool             `json:"show_explanation"`
	Score           int              `json:"score"`
	Attempted       int              `json:"attempted"`
	Paused          bool             `json:"paused"`
	TutorMode       bool             `json:"tutor_mode"`
	TimerEnabled    bool             `json:"timer_enabled"`
	TimePerQuestion time.Duration    `json:"time_per_question_ns,omitempty"`
	TimeRemaining   time.Duration    `json:"time_remaining_ns,omitempty"`
	Marked          bool             `json:"marked"`
}

// Snapshot returns a copy of the engine's current state. The contained
// question is a copy; mutating it does not affect the session.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Phase:           e.phase,
		BankID:          e.bankID,
		QuestionCount:   len(e.questions),
		CurrentIndex:    e.current,
		SelectedAnswer:  e.selected,
		IsAnswered:      e.answered,
		ShowExplanation: e.showExplanation,
		Score:           e.score,
		Attempted:       len(e.attempts),
		Paused:          e.paused,
		TutorMode:       e.cfg.TutorMode,
		TimerEnabled:    e.cfg.TimerEnabled,
		TimePerQuestion: e.cfg.TimePerQuestion,
	}
	if e.phase == PhaseActive || e.phase == PhaseAnsweredWaiting {
		q := e.questions[e.current]
		q.Options = append([]string(nil), q.Options...)
		q.Marked = e.marked[q.ID]
		st.Question = &q
		st.Marked = q.Marked
		if e.paused {
			st.TimeRemaining = e.remaining
		} else if e.timer != nil {
			st.TimeRemaining = e.timer.remaining(e.now())
		}
	}
	return st
}

// IsMarked reports the session-visible mark for a question.
func (e *Engine) IsMarked(questionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.marked[questionID]
}
