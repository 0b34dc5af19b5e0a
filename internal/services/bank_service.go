package services

import (
	"context"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/metrics"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
)

// BankService handles question bank lookup, optionally narrowed by the
// performance-category filters of the metrics engine.
type BankService interface {
	List(ctx context.Context, filters []models.Category) ([]models.QuestionBank, error)
	Get(ctx context.Context, id string) (*models.QuestionBank, error)
	GetFiltered(ctx context.Context, id string, filters []models.Category) (*models.QuestionBank, error)
}

type bankService struct {
	catalogRepo repository.CatalogRepository
	historyRepo repository.HistoryRepository
}

// NewBankService creates a new BankService
func NewBankService(catalogRepo repository.CatalogRepository, historyRepo repository.HistoryRepository) BankService {
	return &bankService{catalogRepo: catalogRepo, historyRepo: historyRepo}
}

func (s *bankService) List(ctx context.Context, filters []models.Category) ([]models.QuestionBank, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing banks: filters=%v", filters)

	banks, err := s.catalogRepo.ListBanks(ctx)
	if err != nil {
		log.Error("failed to list banks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(filters) == 0 {
		return banks, nil
	}

	history, err := s.historyRepo.ReadAll(ctx)
	if err != nil {
		log.Error("failed to read history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return metrics.FilterCatalog(banks, history, filters), nil
}

func (s *bankService) Get(ctx context.Context, id string) (*models.QuestionBank, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting bank: id=%s", id)

	bank, err := s.catalogRepo.GetBank(ctx, id)
	if err != nil {
		log.Error("failed to get bank: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if bank == nil {
		return nil, errors.NewNotFoundError("question bank", id)
	}
	return bank, nil
}

// GetFiltered returns the bank as the active filters see it, or nil when
// every question is filtered out.
func (s *bankService) GetFiltered(ctx context.Context, id string, filters []models.Category) (*models.QuestionBank, error) {
	banks, err := s.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for i := range banks {
		if banks[i].ID == id {
			return &banks[i], nil
		}
	}
	return nil, nil
}
