package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository implementation
func NewCatalogRepository(database *sql.DB) repository.CatalogRepository {
	return &catalogRepository{db: database}
}

func (r *catalogRepository) ListBanks(ctx context.Context) ([]models.QuestionBank, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("listing banks")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description
FROM banks
ORDER BY position, name
`)
	if err != nil {
		log.Error("failed to list banks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var banks []models.QuestionBank
	for rows.Next() {
		var b models.QuestionBank
		if err := rows.Scan(&b.ID, &b.Name, &b.Description); err != nil {
			log.Error("failed to scan bank row: %v", err)
			return nil, err
		}
		banks = append(banks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range banks {
		questions, err := r.ListQuestions(ctx, models.QuestionFilter{BankID: banks[i].ID})
		if err != nil {
			return nil, err
		}
		banks[i].Questions = questions
	}
	log.Debug("found %d banks", len(banks))
	return banks, nil
}

func (r *catalogRepository) GetBank(ctx context.Context, id string) (*models.QuestionBank, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("getting bank: id=%s", id)

	var b models.QuestionBank
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, description
FROM banks
WHERE id = ?
`, id).Scan(&b.ID, &b.Name, &b.Description)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("bank not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get bank: %v", err)
		return nil, err
	}

	questions, err := r.ListQuestions(ctx, models.QuestionFilter{BankID: b.ID})
	if err != nil {
		return nil, err
	}
	b.Questions = questions
	log.Debug("bank found: name=%s, questions=%d", b.Name, len(b.Questions))
	return &b, nil
}

func (r *catalogRepository) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("listing questions: bank_id=%s, marked_only=%t", filter.BankID, filter.MarkedOnly)

	query := sqlBuilder.Select(
		"id", "bank_id", "prompt", "options_json", "correct_index",
		"explanation", "media_kind", "media_source", "media_timing", "is_marked",
	).From("questions")

	// Dynamic WHERE clauses
	if filter.BankID != "" {
		query = query.Where(squirrel.Eq{"bank_id": filter.BankID})
	}
	if filter.MarkedOnly {
		query = query.Where(squirrel.Eq{"is_marked": true})
	}
	query = query.OrderBy("bank_id", "position")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, q)
	}
	log.Debug("found %d questions", len(questions))
	return questions, rows.Err()
}

func scanQuestion(rows *sql.Rows) (models.Question, error) {
	var q models.Question
	var optionsJSON string
	var mediaKind, mediaSource, mediaTiming sql.NullString
	if err := rows.Scan(&q.ID, &q.BankID, &q.Prompt, &optionsJSON, &q.CorrectIndex,
		&q.Explanation, &mediaKind, &mediaSource, &mediaTiming, &q.Marked); err != nil {
		return q, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return q, fmt.Errorf("decode options for question %s: %w", q.ID, err)
	}
	if mediaKind.Valid {
		q.Media = &models.Media{
			Kind:   models.MediaKind(mediaKind.String),
			Source: mediaSource.String,
			Timing: models.MediaTiming(mediaTiming.String),
		}
	}
	return q, nil
}

// ToggleMarked inverts the stored marked flag and returns the new value.
// The stored flag is authoritative: deriving the new value in SQL means a
// toggle is correct even when the caller's view of the flag is stale.
func (r *catalogRepository) ToggleMarked(ctx context.Context, questionID string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("toggling mark: question_id=%s", questionID)

	var marked bool
	err := r.db.QueryRowContext(ctx, `
UPDATE questions SET is_marked = NOT is_marked WHERE id = ? RETURNING is_marked
`, questionID).Scan(&marked)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("question not found: id=%s", questionID)
		return false, sql.ErrNoRows
	}
	if err != nil {
		log.Error("failed to toggle marked flag: %v", err)
		return false, err
	}
	return marked, nil
}

func (r *catalogRepository) ImportBank(ctx context.Context, bank models.QuestionBank) error {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("importing bank: id=%s, name=%s, questions=%d", bank.ID, bank.Name, len(bank.Questions))

	return db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO banks (id, name, description)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description
`, bank.ID, bank.Name, bank.Description)
		if err != nil {
			return err
		}

		for i, q := range bank.Questions {
			optionsJSON, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			var mediaKind, mediaSource, mediaTiming any
			if q.Media != nil {
				mediaKind = string(q.Media.Kind)
				mediaSource = q.Media.Source
				mediaTiming = string(q.Media.Timing)
			}
			// Re-importing a bank must not wipe cross-session marks.
			_, err = tx.ExecContext(ctx, `
INSERT INTO questions (id, bank_id, prompt, options_json, correct_index, explanation, media_kind, media_source, media_timing, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    bank_id = excluded.bank_id,
    prompt = excluded.prompt,
    options_json = excluded.options_json,
    correct_index = excluded.correct_index,
    explanation = excluded.explanation,
    media_kind = excluded.media_kind,
    media_source = excluded.media_source,
    media_timing = excluded.media_timing,
    position = excluded.position
`, q.ID, bank.ID, q.Prompt, string(optionsJSON), q.CorrectIndex, q.Explanation, mediaKind, mediaSource, mediaTiming, i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
