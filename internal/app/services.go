package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/jobs/pipeline/translation_fill"
	jobruntime "github.com/yungbote/literacy-backend/internal/jobs/runtime"
	"github.com/yungbote/literacy-backend/internal/jobs/worker"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/services"
	"github.com/yungbote/literacy-backend/internal/temporalx/temporalworker"
	"github.com/yungbote/literacy-backend/internal/translation"
)

type Services struct {
	Scheduler *translation.Scheduler
	Jobs      services.JobService
	Content   services.ContentService
	Sweep     services.SweepService
	Coverage  services.CoverageService

	JobWorker      *worker.Worker
	TemporalRunner *temporalworker.Runner
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	var leaser translation.Leaser
	if clients.Redis != nil {
		leaser = translation.NewRedisLeaser(clients.Redis)
		log.Info("Unit leases backed by redis")
	} else {
		leaser = translation.NewMemoryLeaser()
	}

	scanner := translation.NewScanner(log, reposet.Content, reposet.TranslationRecords, cfg.Languages).
		TrustCompleteFlag(cfg.Scheduler.TrustComplete)
	writer := translation.NewWriter(log, reposet.TranslationRecords)
	fieldTranslator := translation.NewFieldTranslator(log, clients.Provider)
	scheduler := translation.NewScheduler(log, scanner, fieldTranslator, writer, leaser, cfg.Scheduler)

	jobSvc := services.NewJobService(db, log, reposet.JobRuns)
	contentSvc := services.NewContentService(db, log, reposet.Content, reposet.TranslationRecords, writer, jobSvc, cfg.Languages)
	sweepSvc := services.NewSweepService(log, scheduler, cfg.Sweep)
	coverageSvc := services.NewCoverageService(log, reposet.Content, reposet.TranslationRecords, scanner)

	registry := jobruntime.NewRegistry()
	if err := registry.Register(translation_fill.New(log, scheduler, cfg.JobBudget)); err != nil {
		return Services{}, fmt.Errorf("register %s: %w", translation_fill.JobType, err)
	}
	jobWorker := worker.NewWorker(db, log, reposet.JobRuns, registry, cfg.Worker)

	var runner *temporalworker.Runner
	if clients.Temporal != nil {
		r, err := temporalworker.NewRunner(log, clients.Temporal, cfg.Temporal, sweepSvc)
		if err != nil {
			return Services{}, fmt.Errorf("init temporal worker: %w", err)
		}
		runner = r
	}

	return Services{
		Scheduler:      scheduler,
		Jobs:           jobSvc,
		Content:        contentSvc,
		Sweep:          sweepSvc,
		Coverage:       coverageSvc,
		JobWorker:      jobWorker,
		TemporalRunner: runner,
	}, nil
}
