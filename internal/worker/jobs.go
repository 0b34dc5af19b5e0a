package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quizdeck/quizdeck/internal/models"
)

// BankImporter is the slice of the import service the job needs.
type BankImporter interface {
	ImportFile(ctx context.Context, path string) (*models.QuestionBank, error)
}

// BankImportJob loads one question bank document into the catalog.
type BankImportJob struct {
	Importer BankImporter
	Path     string
}

func (j *BankImportJob) Name() string {
	return fmt.Sprintf("import-bank(%s)", filepath.Base(j.Path))
}

func (j *BankImportJob) Run(ctx context.Context) error {
	_, err := j.Importer.ImportFile(ctx, j.Path)
	return err
}
