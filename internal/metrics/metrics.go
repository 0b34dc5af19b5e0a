// Package metrics derives usage, correctness and omission statistics from
// the question catalog and the attempt history. Everything here is a pure
// function of its inputs; the session engine's running score is never
// consulted, categories are recomputed from the full history on every query.
package metrics

import (
	"fmt"
	"sync"

	"github.com/quizdeck/quizdeck/internal/models"
)

// classification holds the per-question membership sets built from one scan
// of the history. Sets overlap: a question attempted more than once across
// sessions with differing outcomes is in both correct and incorrect.
type classification struct {
	seen      map[string]bool
	correct   map[string]bool
	incorrect map[string]bool
	omitted   map[string]bool
}

func classify(history []models.HistoryRecord) classification {
	c := classification{
		seen:      map[string]bool{},
		correct:   map[string]bool{},
		incorrect: map[string]bool{},
		omitted:   map[string]bool{},
	}
	for _, record := range history {
		for _, attempt := range record.Attempts {
			c.seen[attempt.QuestionID] = true
			if attempt.IsCorrect {
				c.correct[attempt.QuestionID] = true
			} else {
				// An omission counts as incorrect.
				c.incorrect[attempt.QuestionID] = true
			}
			if attempt.Omitted() {
				c.omitted[attempt.QuestionID] = true
			}
		}
	}
	return c
}

func (c classification) matches(q models.Question, cat models.Category) bool {
	switch cat {
	case models.CategoryUnused:
		return !c.seen[q.ID]
	case models.CategoryUsed:
		return c.seen[q.ID]
	case models.CategoryCorrect:
		return c.correct[q.ID]
	case models.CategoryIncorrect:
		return c.incorrect[q.ID]
	case models.CategoryOmitted:
		return c.omitted[q.ID]
	case models.CategoryMarked:
		return q.Marked
	}
	return false
}

// Engine answers metrics queries, memoizing the classification of the last
// identical inputs. It holds no state beyond that memo.
type Engine struct {
	mu       sync.Mutex
	memoKey  string
	memoCnts models.CategoryCounts
}

// NewEngine creates a metrics engine.
func NewEngine() *Engine {
	return &Engine{}
}

// fingerprint identifies a (catalog, history) input pair cheaply: history is
// append-only, so its length plus the last record id pins it down; the
// catalog can only change through imports and mark toggles.
func fingerprint(catalog []models.QuestionBank, history []models.HistoryRecord) string {
	questions, marked := 0, 0
	for _, bank := range catalog {
		questions += len(bank.Questions)
		for _, q := range bank.Questions {
			if q.Marked {
				marked++
			}
		}
	}
	lastID := ""
	if len(history) > 0 {
		lastID = history[len(history)-1].ID
	}
	return fmt.Sprintf("%d:%d:%d:%s", questions, marked, len(history), lastID)
}

// Classify scans every attempt in history and returns per-category counts
// over the catalog's questions. Counts are set sizes, not a partition.
func (e *Engine) Classify(catalog []models.QuestionBank, history []models.HistoryRecord) models.CategoryCounts {
	key := fingerprint(catalog, history)

	e.mu.Lock()
	if e.memoKey == key {
		counts := e.memoCnts
		e.mu.Unlock()
		return counts
	}
	e.mu.Unlock()

	c := classify(history)
	var counts models.CategoryCounts
	for _, bank := range catalog {
		for _, q := range bank.Questions {
			if c.seen[q.ID] {
				counts.Used++
			} else {
				counts.Unused++
			}
			if c.correct[q.ID] {
				counts.Correct++
			}
			if c.incorrect[q.ID] {
				counts.Incorrect++
			}
			if c.omitted[q.ID] {
				counts.Omitted++
			}
			if q.Marked {
				counts.Marked++
			}
		}
	}

	e.mu.Lock()
	e.memoKey, e.memoCnts = key, counts
	e.mu.Unlock()
	return counts
}

// OverallAccuracy is correct/(correct+incorrect) as a percentage, with an
// explicit zero guard so an empty history yields 0 rather than NaN.
func OverallAccuracy(counts models.CategoryCounts) float64 {
	total := counts.Correct + counts.Incorrect
	if total == 0 {
		return 0
	}
	return float64(counts.Correct) / float64(total) * 100
}

// FilterCatalog retains the questions matching any of the active category
// filters (logical OR), dropping banks left empty. With no active filters
// the catalog is returned unchanged.
func FilterCatalog(catalog []models.QuestionBank, history []models.HistoryRecord, active []models.Category) []models.QuestionBank {
	if len(active) == 0 {
		return catalog
	}
	c := classify(history)

	var out []models.QuestionBank
	for _, bank := range catalog {
		var kept []models.Question
		for _, q := range bank.Questions {
			for _, cat := range active {
				if c.matches(q, cat) {
					kept = append(kept, q)
					break
				}
			}
		}
		if len(kept) == 0 {
			continue
		}
		filtered := bank
		filtered.Questions = kept
		out = append(out, filtered)
	}
	return out
}

// HistorySeries returns one score point per history record in chronological
// order. Recomputed on every call; the result is an independent slice.
func HistorySeries(history []models.HistoryRecord) []models.ScorePoint {
	points := make([]models.ScorePoint, 0, len(history))
	for i, record := range history {
		points = append(points, models.ScorePoint{
			Index:      i,
			Percentage: record.Percentage(),
			Date:       record.Date,
		})
	}
	return points
}
