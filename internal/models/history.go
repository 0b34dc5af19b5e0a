package models

import "time"

// NoAnswer is the sentinel selected-answer index for an omitted attempt
// (timeout or explicit skip).
const NoAnswer = -1

// QuestionAttempt is one recorded answer (or omission) for one question
// within one session.
type QuestionAttempt struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer int    `json:"selected_answer"` // NoAnswer when omitted
	IsCorrect      bool   `json:"is_correct"`
}

// Omitted reports whether the attempt recorded no selected option.
func (a QuestionAttempt) Omitted() bool {
	return a.SelectedAnswer == NoAnswer
}

// HistoryRecord is the immutable outcome of one session, appended to the
// history log exactly once when the session completes or is quit. Attempts
// are in the order the questions were presented; a quit record carries only
// the questions that were genuinely attempted.
type HistoryRecord struct {
	ID             string            `json:"id"`
	Date           time.Time         `json:"date"`
	BankID         string            `json:"bank_id"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Attempts       []QuestionAttempt `json:"attempts"`
}

// Percentage returns the record's score as a percentage of its total.
func (r HistoryRecord) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalQuestions) * 100
}

// ScorePoint is one point in the chronological score series.
type ScorePoint struct {
	Index      int       `json:"index"`
	Percentage float64   `json:"percentage"`
	Date       time.Time `json:"date"`
}
