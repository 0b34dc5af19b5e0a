package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
	"github.com/quizdeck/quizdeck/internal/session"
)

// StartRequest carries the user's session configuration.
type StartRequest struct {
	BankID          string
	QuestionCount   int
	TutorMode       bool
	TimerEnabled    bool
	TimePerQuestion time.Duration
	Filters         []models.Category
}

// SessionService owns the single active quiz session. It resolves the
// filtered bank for Start, persists mark toggles to the catalog and appends
// the engine's emitted records to the history log.
type SessionService interface {
	Start(ctx context.Context, req StartRequest) (session.State, error)
	State(ctx context.Context) session.State
	Answer(ctx context.Context, optionIndex int) session.State
	Continue(ctx context.Context) session.State
	Navigate(ctx context.Context, dir session.Direction) session.State
	Pause(ctx context.Context) session.State
	Resume(ctx context.Context) session.State
	Quit(ctx context.Context) session.State
	Restart(ctx context.Context) session.State
	ToggleMark(ctx context.Context, questionID string) (bool, error)
	Close()
}

type sessionService struct {
	engine          *session.Engine
	catalogRepo     repository.CatalogRepository
	historyRepo     repository.HistoryRepository
	bankSvc         BankService
	defaultDuration time.Duration
}

// NewSessionService creates a new SessionService. defaultDuration is the
// per-question time applied when a timer session does not specify one.
func NewSessionService(catalogRepo repository.CatalogRepository, historyRepo repository.HistoryRepository, bankSvc BankService, defaultDuration time.Duration) SessionService {
	s := &sessionService{
		catalogRepo:     catalogRepo,
		historyRepo:     historyRepo,
		bankSvc:         bankSvc,
		defaultDuration: defaultDuration,
	}
	s.engine = session.NewEngine(s)
	return s
}

// Record implements session.RecordSink: every record the engine emits is
// appended to the history log. The history is append-only; a failed append
// is logged but cannot be retried without risking a duplicate.
func (s *sessionService) Record(record models.HistoryRecord) {
	ctx := context.Background()
	if err := s.historyRepo.Append(ctx, record); err != nil {
		logger.Error("failed to append history record %s: %v", record.ID, err)
	}
}

func (s *sessionService) Start(ctx context.Context, req StartRequest) (session.State, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: bank_id=%s, count=%d, tutor=%t, timer=%t",
		req.BankID, req.QuestionCount, req.TutorMode, req.TimerEnabled)

	if req.TimerEnabled && req.TimePerQuestion == 0 {
		req.TimePerQuestion = s.defaultDuration
	}

	bank, err := s.bankSvc.GetFiltered(ctx, req.BankID, req.Filters)
	if err != nil {
		return s.engine.Snapshot(), err
	}
	// A bank the active filters reduce to nothing is indistinguishable from
	// a missing bank for session purposes.
	if err := s.engine.Start(bank, session.Config{
		QuestionCount:   req.QuestionCount,
		TutorMode:       req.TutorMode,
		TimerEnabled:    req.TimerEnabled,
		TimePerQuestion: req.TimePerQuestion,
	}); err != nil {
		log.Warn("session start rejected: %v", err)
		return s.engine.Snapshot(), err
	}
	return s.engine.Snapshot(), nil
}

func (s *sessionService) State(ctx context.Context) session.State {
	return s.engine.Snapshot()
}

func (s *sessionService) Answer(ctx context.Context, optionIndex int) session.State {
	s.engine.Answer(optionIndex)
	return s.engine.Snapshot()
}

func (s *sessionService) Continue(ctx context.Context) session.State {
	s.engine.Continue()
	return s.engine.Snapshot()
}

func (s *sessionService) Navigate(ctx context.Context, dir session.Direction) session.State {
	s.engine.Navigate(dir)
	return s.engine.Snapshot()
}

func (s *sessionService) Pause(ctx context.Context) session.State {
	s.engine.Pause()
	return s.engine.Snapshot()
}

func (s *sessionService) Resume(ctx context.Context) session.State {
	s.engine.Resume()
	return s.engine.Snapshot()
}

func (s *sessionService) Quit(ctx context.Context) session.State {
	s.engine.Quit()
	return s.engine.Snapshot()
}

func (s *sessionService) Restart(ctx context.Context) session.State {
	s.engine.Restart()
	return s.engine.Snapshot()
}

// ToggleMark flips the mark on the underlying catalog question and mirrors
// the result into the session. The new value is derived from the stored
// flag, not this engine's view, which does not know marks made before it
// was created.
func (s *sessionService) ToggleMark(ctx context.Context, questionID string) (bool, error) {
	log := logger.FromContext(ctx)

	marked, err := s.catalogRepo.ToggleMarked(ctx, questionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, errors.NewNotFoundError("question", questionID)
		}
		log.Error("failed to toggle mark for question %s: %v", questionID, err)
		return false, errors.NewInternalError(err)
	}
	s.engine.SetMark(questionID, marked)
	log.Debug("question mark toggled: id=%s, marked=%t", questionID, marked)
	return marked, nil
}

func (s *sessionService) Close() {
	s.engine.Close()
}
