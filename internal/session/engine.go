package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/models"
)

// Phase is the top-level mode of the engine. Exactly one phase holds at any
// time: Idle (dashboard), Active (a question is live), AnsweredWaiting
// (tutor mode, explanation shown, awaiting continue) or Finished (score card).
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseActive          Phase = "active"
	PhaseAnsweredWaiting Phase = "answered_waiting"
	PhaseFinished        Phase = "finished"
)

// Direction is a navigation intent.
type Direction string

const (
	DirectionPrevious Direction = "previous"
	DirectionNext     Direction = "next"
)

// Config holds the immutable per-session mode flags.
type Config struct {
	QuestionCount   int
	TutorMode       bool
	TimerEnabled    bool
	TimePerQuestion time.Duration
}

// RecordSink receives the single history record a session emits when it
// completes or is quit.
type RecordSink interface {
	Record(record models.HistoryRecord)
}

// Engine is the quiz session state machine. It is the single mutation
// surface for all session state; every intent is a synchronous, bounded
// transition guarded by one mutex, so a manual answer and a firing timer
// resolve deterministically to first-writer-wins.
type Engine struct {
	mu   sync.Mutex
	rng  *rand.Rand
	now  func() time.Time
	sink RecordSink
	log  *logger.Logger

	phase     Phase
	cfg       Config
	bankID    string
	questions []models.Question

	current         int
	attempts        map[int]models.QuestionAttempt
	selected        int
	answered        bool
	showExplanation bool
	score           int
	paused          bool
	marked          map[string]bool

	timer     *questionTimer
	timerGen  uint64
	remaining time.Duration // captured at pause, re-armed on resume
}

// NewEngine creates an idle engine. Emitted records are delivered to sink.
func NewEngine(sink RecordSink) *Engine {
	return &Engine{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		sink:     sink,
		log:      logger.Default().WithPrefix("session"),
		phase:    PhaseIdle,
		selected: models.NoAnswer,
		marked:   map[string]bool{},
	}
}

// Start samples cfg.QuestionCount questions from bank (random permutation,
// then prefix) and begins a session. The sampled order is fixed for the
// session. The only surfaced failure is InvalidConfiguration; on error the
// call has no side effects.
func (e *Engine) Start(bank *models.QuestionBank, cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseIdle {
		return errors.NewInvalidConfigurationError("a session is already in progress")
	}
	if bank == nil || len(bank.Questions) == 0 {
		return errors.NewInvalidConfigurationError("question bank is empty or does not exist")
	}
	if cfg.QuestionCount < 1 || cfg.QuestionCount > len(bank.Questions) {
		return errors.NewInvalidConfigurationError(fmt.Sprintf(
			"question count must be between 1 and %d, got %d", len(bank.Questions), cfg.QuestionCount))
	}
	if cfg.TimerEnabled && cfg.TimePerQuestion <= 0 {
		return errors.NewInvalidConfigurationError("time per question must be positive when the timer is enabled")
	}

	questions := make([]models.Question, 0, cfg.QuestionCount)
	for _, i := range e.rng.Perm(len(bank.Questions)) {
		questions = append(questions, bank.Questions[i])
		if len(questions) == cfg.QuestionCount {
			break
		}
	}
	for _, q := range questions {
		if q.Marked {
			e.marked[q.ID] = true
		}
	}

	e.cfg = cfg
	e.bankID = bank.ID
	e.questions = questions
	e.current = 0
	e.attempts = make(map[int]models.QuestionAttempt, cfg.QuestionCount)
	e.selected = models.NoAnswer
	e.answered = false
	e.showExplanation = false
	e.score = 0
	e.paused = false
	e.phase = PhaseActive

	e.log.Info("session started: bank_id=%s, questions=%d, tutor=%t, timer=%t",
		bank.ID, cfg.QuestionCount, cfg.TutorMode, cfg.TimerEnabled)

	if cfg.TimerEnabled {
		e.armTimerLocked(cfg.TimePerQuestion)
	}
	return nil
}

// Answer records the user's choice for the current question. Out-of-turn
// calls (wrong phase, paused, already answered, option out of range) are
// silent no-ops.
func (e *Engine) Answer(optionIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive || e.paused || e.answered {
		return
	}
	if optionIndex < 0 || optionIndex >= len(e.questions[e.current].Options) {
		return
	}
	e.recordAttemptLocked(optionIndex)
}

// fireTimeout is invoked by the armed timer. A stale generation, a recorded
// answer or a pause makes it a no-op; otherwise it records an omission.
func (e *Engine) fireTimeout(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.timerGen || e.phase != PhaseActive || e.paused || e.answered {
		return
	}
	e.log.Debug("question timed out: index=%d", e.current)
	e.recordAttemptLocked(models.NoAnswer)
}

// recordAttemptLocked is the single write path shared by Answer and the
// timeout. The timer is cancelled before any state changes so no second
// writer can slip in.
func (e *Engine) recordAttemptLocked(optionIndex int) {
	e.cancelTimerLocked()

	q := e.questions[e.current]
	attempt := models.QuestionAttempt{
		QuestionID:     q.ID,
		SelectedAnswer: optionIndex,
		IsCorrect:      optionIndex != models.NoAnswer && optionIndex == q.CorrectIndex,
	}
	e.attempts[e.current] = attempt
	e.selected = optionIndex
	e.answered = true
	if attempt.IsCorrect {
		e.score++
	}

	if e.cfg.TutorMode {
		e.phase = PhaseAnsweredWaiting
		e.showExplanation = true
		return
	}
	e.advanceLocked()
}

// Continue leaves the tutor-mode explanation view and advances.
func (e *Engine) Continue() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseAnsweredWaiting {
		return
	}
	e.phase = PhaseActive
	e.showExplanation = false
	e.advanceLocked()
}

// Navigate moves between questions. Previous is display-only rewind onto
// already answered questions and is blocked entirely in timer mode, so a
// timed-out question can never be reopened. Next requires the current
// question to be answered and is equivalent to advancing.
func (e *Engine) Navigate(dir Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive {
		return
	}
	switch dir {
	case DirectionPrevious:
		if e.cfg.TimerEnabled || e.current == 0 {
			return
		}
		e.current--
		e.restoreCurrentLocked()
	case DirectionNext:
		if !e.answered {
			return
		}
		e.advanceLocked()
	}
}

// advanceLocked moves past the current (answered) question. On the last
// question it finalizes the session and emits the history record.
func (e *Engine) advanceLocked() {
	if e.current == len(e.questions)-1 {
		e.cancelTimerLocked()
		e.emitRecordLocked()
		e.phase = PhaseFinished
		e.log.Info("session finished: score=%d/%d", e.score, len(e.questions))
		return
	}

	e.current++
	e.restoreCurrentLocked()
}

// restoreCurrentLocked resets the transient per-question fields for the new
// current question, re-arming the timer when it is still unanswered.
func (e *Engine) restoreCurrentLocked() {
	e.cancelTimerLocked()
	e.showExplanation = false
	if attempt, ok := e.attempts[e.current]; ok {
		e.selected = attempt.SelectedAnswer
		e.answered = true
		return
	}
	e.selected = models.NoAnswer
	e.answered = false
	if e.cfg.TimerEnabled {
		if e.paused {
			e.remaining = e.cfg.TimePerQuestion
		} else {
			e.armTimerLocked(e.cfg.TimePerQuestion)
		}
	}
}

// Pause suspends the session. The live timer is cancelled outright and its
// remaining duration captured; answers and timeouts are rejected until
// Resume.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive || e.paused {
		return
	}
	e.paused = true
	e.remaining = 0
	if e.timer != nil {
		e.remaining = e.timer.remaining(e.now())
	}
	e.cancelTimerLocked()
	e.log.Debug("session paused: remaining=%s", e.remaining)
}

// Resume lifts a pause. A fresh timer is armed for the remainder captured at
// pause time, not the full configured duration, so pausing cannot be used to
// reset the countdown.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive || !e.paused {
		return
	}
	e.paused = false
	if e.cfg.TimerEnabled && !e.answered {
		e.armTimerLocked(e.remaining)
	}
	e.log.Debug("session resumed")
}

// SetMark records the catalog's current mark for a question so snapshots
// reflect it. Marks are cross-session annotations, allowed in any phase;
// the catalog is the authoritative store and this engine only mirrors it.
func (e *Engine) SetMark(questionID string, marked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.marked[questionID] = marked
}

// Quit abandons the session, emitting a record that carries only the
// attempts actually recorded, and returns to Idle without passing through
// Finished.
func (e *Engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive && e.phase != PhaseAnsweredWaiting {
		return
	}
	e.cancelTimerLocked()
	e.emitRecordLocked()
	e.log.Info("session quit: attempted=%d/%d, score=%d", len(e.attempts), len(e.questions), e.score)
	e.resetLocked()
}

// Restart returns from the score card to the dashboard. Marks and history
// are untouched.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseFinished {
		return
	}
	e.resetLocked()
}

// Close releases the engine's timer. Safe to call in any phase.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
}

func (e *Engine) resetLocked() {
	e.phase = PhaseIdle
	e.bankID = ""
	e.questions = nil
	e.attempts = nil
	e.current = 0
	e.selected = models.NoAnswer
	e.answered = false
	e.showExplanation = false
	e.score = 0
	e.paused = false
	e.remaining = 0
}

// emitRecordLocked builds the session's history record from the recorded
// attempts in presentation order. It runs exactly once per session: both
// callers (finishing the last question, quitting) transition out of the
// active phases before any further intent can reach here.
func (e *Engine) emitRecordLocked() {
	attempts := make([]models.QuestionAttempt, 0, len(e.attempts))
	for i := range e.questions {
		if attempt, ok := e.attempts[i]; ok {
			attempts = append(attempts, attempt)
		}
	}
	record := models.HistoryRecord{
		ID:             fmt.Sprintf("%d", e.now().UnixNano()),
		Date:           e.now(),
		BankID:         e.bankID,
		Score:          e.score,
		TotalQuestions: len(e.questions),
		Attempts:       attempts,
	}
	if e.sink != nil {
		e.sink.Record(record)
	}
}

func (e *Engine) armTimerLocked(d time.Duration) {
	e.cancelTimerLocked()
	e.timerGen++
	gen := e.timerGen
	e.timer = newQuestionTimer(d, func() { e.fireTimeout(gen) })
}

// cancelTimerLocked stops any pending timer and invalidates in-flight fires.
// Called on every exit path from Active.
func (e *Engine) cancelTimerLocked() {
	if e.timer != nil {
		e.timer.cancel()
		e.timer = nil
	}
	e.timerGen++
}
