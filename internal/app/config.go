package app

import (
	"time"

	"github.com/yungbote/literacy-backend/internal/http/middleware"
	"github.com/yungbote/literacy-backend/internal/jobs/worker"
	"github.com/yungbote/literacy-backend/internal/platform/envutil"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/platform/translator"
	"github.com/yungbote/literacy-backend/internal/services"
	"github.com/yungbote/literacy-backend/internal/temporalx"
	"github.com/yungbote/literacy-backend/internal/translation"
)

type Config struct {
	Port        string
	Environment string
	ServiceName string
	Version     string
	MetricsAddr string

	Auth      middleware.AuthConfig
	Languages translation.LanguageSet
	Provider  translator.Config
	Scheduler translation.SchedulerConfig
	Sweep     services.SweepConfig
	Worker    worker.Config
	Temporal  temporalx.Config

	// JobBudget bounds a single translation_fill job.
	JobBudget time.Duration
}

func LoadConfig(log *logger.Logger) (Config, error) {
	langs, err := translation.LoadLanguageSet()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		ServiceName: envutil.String("SERVICE_NAME", "literacy-backend"),
		Version:     envutil.String("APP_VERSION", ""),
		MetricsAddr: envutil.String("METRICS_ADDR", ":9090"),
		Auth: middleware.AuthConfig{
			JWTSecret:            envutil.String("JWT_SECRET_KEY", ""),
			MaintenanceKey:       envutil.String("MAINTENANCE_KEY", ""),
			MaintenanceKeyBcrypt: envutil.String("MAINTENANCE_KEY_BCRYPT", ""),
			CronSecret:           envutil.String("CRON_SECRET", ""),
		},
		Languages: langs,
		Provider:  translator.LoadConfig(),
		Scheduler: translation.LoadSchedulerConfig(),
		Sweep:     services.LoadSweepConfig(),
		Worker:    worker.LoadConfig(),
		Temporal:  temporalx.LoadConfig(),
		JobBudget: envutil.Seconds("TRANSLATION_JOB_BUDGET_SECONDS", 120),
	}

	if cfg.Auth.CronSecret == "" {
		log.Warn("CRON_SECRET not set; cron sweep endpoint will reject every request")
	}
	if cfg.Auth.JWTSecret == "" && cfg.Auth.MaintenanceKey == "" && cfg.Auth.MaintenanceKeyBcrypt == "" {
		log.Warn("no admin credentials configured; admin endpoints will reject every request")
	}
	log.Info("Language set loaded", "source", langs.Source, "targets", len(langs.Targets))
	return cfg, nil
}
