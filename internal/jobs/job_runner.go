package jobs

import (
	"github.com/assignon/verzendconnect/internal/config"
	"github.com/assignon/verzendconnect/internal/logger"
	"github.com/assignon/verzendconnect/internal/repository"
	"github.com/assignon/verzendconnect/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentalSvc service.RentalService
	noteRepo  repository.NotificationRepository
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentalSvc service.RentalService, noteRepo repository.NotificationRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentalSvc: rentalSvc,
		noteRepo:  noteRepo,
		config:    cfg,
	}
}

// Config returns the loaded application configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.FlagOverdueRentals()
}
