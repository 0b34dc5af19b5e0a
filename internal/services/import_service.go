package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quizdeck/quizdeck/internal/errors"
	"github.com/quizdeck/quizdeck/internal/id"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
)

// ImportService loads question bank JSON documents into the catalog.
type ImportService interface {
	ImportFile(ctx context.Context, path string) (*models.QuestionBank, error)
	ScanDir(ctx context.Context, dir string) ([]string, error)
}

type importService struct {
	catalogRepo repository.CatalogRepository
}

// NewImportService creates a new ImportService
func NewImportService(catalogRepo repository.CatalogRepository) ImportService {
	return &importService{catalogRepo: catalogRepo}
}

// bankDocument is the on-disk question bank format.
type bankDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Questions   []struct {
		ID           string        `json:"id"`
		Prompt       string        `json:"prompt"`
		Options      []string      `json:"options"`
		CorrectIndex int           `json:"correct_index"`
		Explanation  string        `json:"explanation"`
		Media        *models.Media `json:"media"`
	} `json:"questions"`
}

func (s *importService) ImportFile(ctx context.Context, path string) (*models.QuestionBank, error) {
	log := logger.FromContext(ctx)
	log.Info("importing bank file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read bank file: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var doc bankDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewValidationError("bank file", fmt.Sprintf("invalid JSON: %v", err))
	}

	bank, err := doc.toBank()
	if err != nil {
		return nil, err
	}
	if err := s.catalogRepo.ImportBank(ctx, *bank); err != nil {
		log.Error("failed to import bank %s: %v", bank.ID, err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("bank imported: id=%s, name=%s, questions=%d", bank.ID, bank.Name, len(bank.Questions))
	return bank, nil
}

func (doc bankDocument) toBank() (*models.QuestionBank, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, errors.NewValidationError("name", "bank name cannot be empty")
	}
	if len(doc.Questions) == 0 {
		return nil, errors.NewValidationError("questions", "bank has no questions")
	}

	bank := models.QuestionBank{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
	}
	if bank.ID == "" {
		bank.ID = id.Generate()
	}

	for i, q := range doc.Questions {
		if len(q.Options) < 2 {
			return nil, errors.NewValidationError("options", fmt.Sprintf("question %d needs at least 2 options", i))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, errors.NewValidationError("correct_index", fmt.Sprintf("question %d correct index out of range", i))
		}
		if q.Media != nil {
			switch q.Media.Kind {
			case models.MediaImage, models.MediaVideo, models.MediaAudio:
			default:
				return nil, errors.NewValidationError("media", fmt.Sprintf("question %d has unknown media kind %q", i, q.Media.Kind))
			}
			switch q.Media.Timing {
			case models.MediaWithQuestion, models.MediaWithAnswer:
			default:
				return nil, errors.NewValidationError("media", fmt.Sprintf("question %d has unknown media timing %q", i, q.Media.Timing))
			}
		}
		questionID := q.ID
		if questionID == "" {
			questionID = id.Generate()
		}
		bank.Questions = append(bank.Questions, models.Question{
			ID:           questionID,
			BankID:       bank.ID,
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
			Media:        q.Media,
		})
	}
	return &bank, nil
}

// ScanDir lists the bank JSON documents under dir. A missing directory is
// not an error; the app simply starts with an empty catalog.
func (s *importService) ScanDir(ctx context.Context, dir string) ([]string, error) {
	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		log.Warn("bank directory %s does not exist, skipping scan", dir)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to scan bank directory: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	log.Debug("found %d bank files in %s", len(paths), dir)
	return paths, nil
}
