package jobs

import (
	"github.com/quizdeck/quizdeck/internal/worker"
)

// WorkerQueue implements JobQueue using the import worker pool
type WorkerQueue struct {
	importPool *worker.Pool
	importer   worker.BankImporter
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool *worker.Pool, importer worker.BankImporter) JobQueue {
	return &WorkerQueue{
		importPool: importPool,
		importer:   importer,
	}
}

func (q *WorkerQueue) EnqueueBankImport(path string) error {
	return q.importPool.Submit(&worker.BankImportJob{
		Importer: q.importer,
		Path:     path,
	})
}
