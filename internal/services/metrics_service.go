package services

import (
	"context"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/metrics"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
)

// MetricsService exposes the derived history statistics.
type MetricsService interface {
	Overview(ctx context.Context) (*models.MetricsOverview, error)
	Series(ctx context.Context) ([]models.ScorePoint, error)
}

type metricsService struct {
	catalogRepo repository.CatalogRepository
	historyRepo repository.HistoryRepository
	engine      *metrics.Engine
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(catalogRepo repository.CatalogRepository, historyRepo repository.HistoryRepository) MetricsService {
	return &metricsService{
		catalogRepo: catalogRepo,
		historyRepo: historyRepo,
		engine:      metrics.NewEngine(),
	}
}

func (s *metricsService) Overview(ctx context.Context) (*models.MetricsOverview, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing metrics overview")

	catalog, err := s.catalogRepo.ListBanks(ctx)
	if err != nil {
		log.Error("failed to list banks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	history, err := s.historyRepo.ReadAll(ctx)
	if err != nil {
		log.Error("failed to read history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	sessions, err := s.historyRepo.CountRecords(ctx)
	if err != nil {
		log.Error("failed to count history records: %v", err)
		return nil, errors.NewInternalError(err)
	}

	counts := s.engine.Classify(catalog, history)
	total := 0
	for _, bank := range catalog {
		total += len(bank.Questions)
	}
	return &models.MetricsOverview{
		Counts:         counts,
		Accuracy:       metrics.OverallAccuracy(counts),
		TotalQuestions: total,
		TotalSessions:  sessions,
	}, nil
}

func (s *metricsService) Series(ctx context.Context) ([]models.ScorePoint, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing score series")

	history, err := s.historyRepo.ReadAll(ctx)
	if err != nil {
		log.Error("failed to read history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return metrics.HistorySeries(history), nil
}
