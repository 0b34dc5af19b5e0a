package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
	"github.com/quizdeck/quizdeck/internal/repository/sqlite"
	"github.com/quizdeck/quizdeck/internal/services"
	"github.com/quizdeck/quizdeck/internal/session"
	"github.com/quizdeck/quizdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	catalogRepo repository.CatalogRepository
	historyRepo repository.HistoryRepository
	bankSvc     services.BankService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	catalogRepo := sqlite.NewCatalogRepository(database.DB)
	historyRepo := sqlite.NewHistoryRepository(database.DB)
	return &sessionFixture{
		catalogRepo: catalogRepo,
		historyRepo: historyRepo,
		bankSvc:     services.NewBankService(catalogRepo, historyRepo),
	}
}

// newService builds a SessionService with a fresh engine over the fixture's
// repositories, as after a process restart.
func (f *sessionFixture) newService(t *testing.T, defaultDuration time.Duration) services.SessionService {
	t.Helper()
	svc := services.NewSessionService(f.catalogRepo, f.historyRepo, f.bankSvc, defaultDuration)
	t.Cleanup(svc.Close)
	return svc
}

func (f *sessionFixture) seedBank(t *testing.T) {
	t.Helper()
	bank := models.QuestionBank{
		ID:   "anatomy",
		Name: "Anatomy",
		Questions: []models.Question{
			{ID: "q1", BankID: "anatomy", Prompt: "First?", Options: []string{"a", "b"}, CorrectIndex: 0},
			{ID: "q2", BankID: "anatomy", Prompt: "Second?", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
	}
	require.NoError(t, f.catalogRepo.ImportBank(context.Background(), bank))
}

func (f *sessionFixture) storedMark(t *testing.T, questionID string) bool {
	t.Helper()
	questions, err := f.catalogRepo.ListQuestions(context.Background(), models.QuestionFilter{BankID: "anatomy"})
	require.NoError(t, err)
	for _, q := range questions {
		if q.ID == questionID {
			return q.Marked
		}
	}
	t.Fatalf("question %s not in catalog", questionID)
	return false
}

func TestToggleMark_FlipsStoredFlag(t *testing.T) {
	f := newSessionFixture(t)
	f.seedBank(t)
	svc := f.newService(t, time.Minute)
	ctx := context.Background()

	marked, err := svc.ToggleMark(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, marked)
	assert.True(t, f.storedMark(t, "q1"))

	marked, err = svc.ToggleMark(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, marked)
	assert.False(t, f.storedMark(t, "q1"))
}

func TestToggleMark_UnmarksPreexistingMark(t *testing.T) {
	f := newSessionFixture(t)
	f.seedBank(t)
	ctx := context.Background()

	marked, err := f.catalogRepo.ToggleMarked(ctx, "q1")
	require.NoError(t, err)
	require.True(t, marked)

	// A fresh service has never seen q1's mark; toggling an already-marked
	// question must still unmark it.
	svc := f.newService(t, time.Minute)
	marked, err = svc.ToggleMark(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, marked)
	assert.False(t, f.storedMark(t, "q1"))
}

func TestToggleMark_UnknownQuestion(t *testing.T) {
	f := newSessionFixture(t)
	f.seedBank(t)
	svc := f.newService(t, time.Minute)

	_, err := svc.ToggleMark(context.Background(), "nope")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}

func TestStart_AppliesDefaultTimerDuration(t *testing.T) {
	f := newSessionFixture(t)
	f.seedBank(t)
	svc := f.newService(t, 45*time.Second)

	state, err := svc.Start(context.Background(), services.StartRequest{
		BankID:        "anatomy",
		QuestionCount: 2,
		TimerEnabled:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseActive, state.Phase)
	assert.Equal(t, 45*time.Second, state.TimePerQuestion)
}

func TestStart_ExplicitDurationWinsOverDefault(t *testing.T) {
	f := newSessionFixture(t)
	f.seedBank(t)
	svc := f.newService(t, 45*time.Second)

	state, err := svc.Start(context.Background(), services.StartRequest{
		BankID:          "anatomy",
		QuestionCount:   2,
		TimerEnabled:    true,
		TimePerQuestion: 10 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, state.TimePerQuestion)
}
