package sqlite

import (
	"context"
	"database/sql"

	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(database *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: database}
}

func (r *historyRepository) Append(ctx context.Context, record models.HistoryRecord) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("appending history record: id=%s, bank_id=%s, score=%d/%d",
		record.ID, record.BankID, record.Score, record.TotalQuestions)

	return db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO history_records (id, bank_id, taken_at, score, total_questions)
VALUES (?, ?, ?, ?, ?)
`, record.ID, record.BankID, record.Date, record.Score, record.TotalQuestions)
		if err != nil {
			return err
		}
		for i, a := range record.Attempts {
			_, err := tx.ExecContext(ctx, `
INSERT INTO history_attempts (record_id, position, question_id, selected_answer, is_correct)
VALUES (?, ?, ?, ?, ?)
`, record.ID, i, a.QuestionID, a.SelectedAnswer, a.IsCorrect)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *historyRepository) ReadAll(ctx context.Context) ([]models.HistoryRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("reading full history")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, bank_id, taken_at, score, total_questions
FROM history_records
ORDER BY taken_at, id
`)
	if err != nil {
		log.Error("failed to read history records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.BankID, &rec.Date, &rec.Score, &rec.TotalQuestions); err != nil {
			log.Error("failed to scan history record: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		attempts, err := r.attemptsForRecord(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Attempts = attempts
	}
	log.Debug("read %d history records", len(records))
	return records, nil
}

func (r *historyRepository) attemptsForRecord(ctx context.Context, recordID string) ([]models.QuestionAttempt, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT question_id, selected_answer, is_correct
FROM history_attempts
WHERE record_id = ?
ORDER BY position
`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuestionAttempt
	for rows.Next() {
		var a models.QuestionAttempt
		if err := rows.Scan(&a.QuestionID, &a.SelectedAnswer, &a.IsCorrect); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *historyRepository) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_records`).Scan(&count)
	return count, err
}
