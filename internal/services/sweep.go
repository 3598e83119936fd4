package services

import (
	"context"
	"fmt"
	"time"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/observability"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/envutil"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/translation"
)

const (
	TriggerCron   = "cron"
	TriggerAdmin  = "admin"
	TriggerTicker = "ticker"
	TriggerJob    = "job"
)

type SweepConfig struct {
	// EntityCap applies per kind.
	EntityCap int
	// Budget is shared by every kind of one sweep; zero means no deadline.
	Budget   time.Duration
	Interval time.Duration
}

func LoadSweepConfig() SweepConfig {
	return SweepConfig{
		EntityCap: envutil.Int("TRANSLATION_ENTITY_CAP", 20),
		Budget:    envutil.Seconds("TRANSLATION_BUDGET_SECONDS", 50),
		Interval:  envutil.Seconds("TRANSLATION_SWEEP_INTERVAL_SECONDS", 300),
	}
}

type SweepRequest struct {
	Trigger string
	// Kind restricts the sweep to one kind; empty sweeps all kinds in order.
	Kind      string
	Languages []string
	Offset    int
	// Limit overrides the configured entity cap when > 0.
	Limit int
}

type SweepResult struct {
	Trigger             string                    `json:"trigger"`
	Kinds               []translation.BatchResult `json:"kinds"`
	EntitiesProcessed   int                       `json:"entities_processed"`
	TranslationsWritten int                       `json:"translations_written"`
	FailedUnits         int                       `json:"failed_units"`
	SkippedUnits        int                       `json:"skipped_units"`
	RemainingGaps       int                       `json:"remaining_gaps"`
	MoreRemaining       bool                      `json:"more_remaining"`
	TimedOut            bool                      `json:"timed_out"`
	ElapsedMS           int64                     `json:"elapsed_ms"`
}

type SweepService interface {
	Sweep(ctx context.Context, req SweepRequest) (SweepResult, error)
	// RunTicker sweeps every Interval until ctx is done. A zero interval
	// returns immediately.
	RunTicker(ctx context.Context)
}

type sweepService struct {
	log       *logger.Logger
	scheduler *translation.Scheduler
	cfg       SweepConfig
	now       func() time.Time
}

func NewSweepService(baseLog *logger.Logger, scheduler *translation.Scheduler, cfg SweepConfig) SweepService {
	if cfg.EntityCap <= 0 {
		cfg.EntityCap = 20
	}
	return &sweepService{
		log:       baseLog.With("service", "SweepService"),
		scheduler: scheduler,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *sweepService) Sweep(ctx context.Context, req SweepRequest) (SweepResult, error) {
	start := time.Now()
	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerAdmin
	}
	out := SweepResult{Trigger: trigger, Kinds: []translation.BatchResult{}}

	kinds := types.ContentKinds
	if req.Kind != "" {
		if !types.IsContentKind(req.Kind) {
			return out, fmt.Errorf("unknown kind %q: %w", req.Kind, apierr.ErrInvalidArgument)
		}
		kinds = []string{req.Kind}
	}
	if _, err := s.scheduler.Languages().Resolve(req.Languages); err != nil {
		return out, fmt.Errorf("%v: %w", err, apierr.ErrInvalidArgument)
	}
	limit := s.cfg.EntityCap
	if req.Limit > 0 {
		limit = req.Limit
	}

	var deadline time.Time
	if s.cfg.Budget > 0 {
		deadline = s.now().Add(s.cfg.Budget)
	}

	for _, kind := range kinds {
		var budget time.Duration
		if !deadline.IsZero() {
			budget = deadline.Sub(s.now())
			if budget <= 0 {
				out.TimedOut = true
				out.MoreRemaining = true
				s.log.Info("sweep budget spent, skipping kind", "kind", kind, "trigger", trigger)
				continue
			}
		}
		kindStart := time.Now()
		res, err := s.scheduler.Run(ctx, translation.RunRequest{
			Kind:      kind,
			EntityCap: limit,
			Budget:    budget,
			Languages: req.Languages,
			Offset:    req.Offset,
		})
		outcome := string(res.State)
		if err != nil {
			outcome = "error"
		}
		observability.Current().ObserveSweep(kind, trigger, outcome, time.Since(kindStart))
		if err != nil {
			return out, fmt.Errorf("sweep %s: %w", kind, err)
		}

		out.Kinds = append(out.Kinds, res)
		out.EntitiesProcessed += res.EntitiesProcessed
		out.TranslationsWritten += res.TranslationsWritten
		out.FailedUnits += res.FailedUnits
		out.SkippedUnits += res.SkippedUnits
		out.RemainingGaps += res.RemainingGaps
		out.MoreRemaining = out.MoreRemaining || res.MoreRemaining
		out.TimedOut = out.TimedOut || res.TimedOut
	}
	out.ElapsedMS = time.Since(start).Milliseconds()

	s.log.Info("translation sweep finished",
		"trigger", trigger,
		"written", out.TranslationsWritten,
		"failed", out.FailedUnits,
		"remaining_gaps", out.RemainingGaps,
		"timed_out", out.TimedOut,
		"elapsed_ms", out.ElapsedMS,
	)
	return out, nil
}

func (s *sweepService) RunTicker(ctx context.Context) {
	if s.cfg.Interval <= 0 {
		s.log.Info("sweep ticker disabled")
		return
	}
	s.log.Info("Starting sweep ticker", "interval", s.cfg.Interval.String())
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweep ticker stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, SweepRequest{Trigger: TriggerTicker}); err != nil {
				s.log.Warn("ticker sweep failed", "error", err)
			}
		}
	}
}
