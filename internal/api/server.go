package api

import (
	"github.com/quizdeck/quizdeck/internal/jobs"
	"github.com/quizdeck/quizdeck/internal/services"
)

// Server holds the handler dependencies.
type Server struct {
	SessionService services.SessionService
	MetricsService services.MetricsService
	BankService    services.BankService
	ImportService  services.ImportService
	JobQueue       jobs.JobQueue
	BankDir        string
}
