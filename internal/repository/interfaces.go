package repository

import (
	"context"

	"github.com/quizdeck/quizdeck/internal/models"
)

// CatalogRepository handles question bank data access. Banks and questions
// are read-only from the engine's perspective except the marked flag.
type CatalogRepository interface {
	ListBanks(ctx context.Context) ([]models.QuestionBank, error)
	GetBank(ctx context.Context, id string) (*models.QuestionBank, error)
	ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	ToggleMarked(ctx context.Context, questionID string) (bool, error)
	ImportBank(ctx context.Context, bank models.QuestionBank) error
}

// HistoryRepository handles the append-only session history log.
type HistoryRepository interface {
	Append(ctx context.Context, record models.HistoryRecord) error
	ReadAll(ctx context.Context) ([]models.HistoryRecord, error)
	CountRecords(ctx context.Context) (int, error)
}
