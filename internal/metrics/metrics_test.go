package metrics_test

import (
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/metrics"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []models.QuestionBank {
	return []models.QuestionBank{
		{
			ID:   "b1",
			Name: "Bank One",
			Questions: []models.Question{
				{ID: "q1", BankID: "b1", Options: []string{"a", "b"}, CorrectIndex: 0},
				{ID: "q2", BankID: "b1", Options: []string{"a", "b"}, CorrectIndex: 1, Marked: true},
				{ID: "q3", BankID: "b1", Options: []string{"a", "b"}, CorrectIndex: 0},
			},
		},
		{
			ID:   "b2",
			Name: "Bank Two",
			Questions: []models.Question{
				{ID: "q4", BankID: "b2", Options: []string{"a", "b"}, CorrectIndex: 0},
			},
		},
	}
}

func record(id string, attempts ...models.QuestionAttempt) models.HistoryRecord {
	score := 0
	for _, a := range attempts {
		if a.IsCorrect {
			score++
		}
	}
	return models.HistoryRecord{
		ID:             id,
		Date:           time.Now(),
		BankID:         "b1",
		Score:          score,
		TotalQuestions: len(attempts),
		Attempts:       attempts,
	}
}

func TestClassify_Counts(t *testing.T) {
	history := []models.HistoryRecord{
		record("r1",
			models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true},
			models.QuestionAttempt{QuestionID: "q2", SelectedAnswer: 0, IsCorrect: false},
			models.QuestionAttempt{QuestionID: "q3", SelectedAnswer: models.NoAnswer, IsCorrect: false},
		),
	}

	counts := metrics.NewEngine().Classify(catalog(), history)

	assert.Equal(t, 3, counts.Used)
	assert.Equal(t, 1, counts.Unused) // q4
	assert.Equal(t, 1, counts.Correct)
	assert.Equal(t, 2, counts.Incorrect) // q2 wrong + q3 omitted
	assert.Equal(t, 1, counts.Omitted)
	assert.Equal(t, 1, counts.Marked)
}

func TestClassify_OverlappingOutcomes(t *testing.T) {
	// q1 answered correctly in one session and incorrectly in another: it
	// belongs to both sets.
	history := []models.HistoryRecord{
		record("r1", models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true}),
		record("r2", models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 1, IsCorrect: false}),
	}

	counts := metrics.NewEngine().Classify(catalog(), history)

	assert.Equal(t, 1, counts.Used)
	assert.Equal(t, 1, counts.Correct)
	assert.Equal(t, 1, counts.Incorrect)
	assert.Equal(t, 0, counts.Omitted)
}

func TestClassify_MemoizesLastInputs(t *testing.T) {
	eng := metrics.NewEngine()
	history := []models.HistoryRecord{
		record("r1", models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true}),
	}

	first := eng.Classify(catalog(), history)
	second := eng.Classify(catalog(), history)
	assert.Equal(t, first, second)

	// Growing history invalidates the memo.
	history = append(history, record("r2", models.QuestionAttempt{QuestionID: "q4", SelectedAnswer: 1, IsCorrect: false}))
	third := eng.Classify(catalog(), history)
	assert.Equal(t, 2, third.Used)
}

func TestOverallAccuracy(t *testing.T) {
	assert.Equal(t, float64(0), metrics.OverallAccuracy(models.CategoryCounts{}))
	assert.Equal(t, float64(0), metrics.OverallAccuracy(models.CategoryCounts{Marked: 3}))

	assert.InDelta(t, 75.0, metrics.OverallAccuracy(models.CategoryCounts{Correct: 3, Incorrect: 1}), 0.001)
	assert.InDelta(t, 100.0, metrics.OverallAccuracy(models.CategoryCounts{Correct: 2}), 0.001)
}

func TestFilterCatalog_NoFiltersReturnsInput(t *testing.T) {
	in := catalog()
	out := metrics.FilterCatalog(in, nil, nil)
	assert.Equal(t, in, out)
}

func TestFilterCatalog_CorrectFilter(t *testing.T) {
	history := []models.HistoryRecord{
		record("r1",
			models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true},
			models.QuestionAttempt{QuestionID: "q2", SelectedAnswer: 0, IsCorrect: false},
		),
	}

	out := metrics.FilterCatalog(catalog(), history, []models.Category{models.CategoryCorrect})

	// Only q1 survives; bank two is dropped entirely.
	require.Len(t, out, 1)
	assert.Equal(t, "b1", out[0].ID)
	require.Len(t, out[0].Questions, 1)
	assert.Equal(t, "q1", out[0].Questions[0].ID)
}

func TestFilterCatalog_FiltersAreOred(t *testing.T) {
	history := []models.HistoryRecord{
		record("r1", models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true}),
	}

	out := metrics.FilterCatalog(catalog(), history, []models.Category{
		models.CategoryCorrect, models.CategoryMarked,
	})

	// q1 matches correct, q2 matches marked.
	require.Len(t, out, 1)
	require.Len(t, out[0].Questions, 2)
	assert.Equal(t, "q1", out[0].Questions[0].ID)
	assert.Equal(t, "q2", out[0].Questions[1].ID)
}

func TestFilterCatalog_UnusedFilter(t *testing.T) {
	history := []models.HistoryRecord{
		record("r1", models.QuestionAttempt{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true}),
	}

	out := metrics.FilterCatalog(catalog(), history, []models.Category{models.CategoryUnused})

	require.Len(t, out, 2)
	assert.Len(t, out[0].Questions, 2) // q2, q3
	assert.Len(t, out[1].Questions, 1) // q4
}

func TestHistorySeries(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	history := []models.HistoryRecord{
		{ID: "r1", Date: t1, Score: 3, TotalQuestions: 4},
		{ID: "r2", Date: t2, Score: 0, TotalQuestions: 5},
	}

	series := metrics.HistorySeries(history)

	require.Len(t, series, 2)
	assert.Equal(t, 0, series[0].Index)
	assert.InDelta(t, 75.0, series[0].Percentage, 0.001)
	assert.Equal(t, t1, series[0].Date)
	assert.Equal(t, 1, series[1].Index)
	assert.InDelta(t, 0.0, series[1].Percentage, 0.001)
}

func TestHistorySeries_Empty(t *testing.T) {
	assert.Empty(t, metrics.HistorySeries(nil))
}
