package translation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/observability"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/envutil"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type State string

const (
	StateIdle        State = "idle"
	StateScanning    State = "scanning"
	StateTranslating State = "translating"
	StateWriting     State = "writing"
	StateDone        State = "done"
	StateTimedOut    State = "timed_out"
)

type SchedulerConfig struct {
	UnitConcurrency int
	SampleLimit     int
	LeaseTTL        time.Duration
	// TrustComplete is handed to the scanner; see Detector.TrustComplete.
	TrustComplete   bool
}

func LoadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		UnitConcurrency: envutil.Int("TRANSLATION_UNIT_CONCURRENCY", 1),
		SampleLimit:     envutil.Int("TRANSLATION_SAMPLE_LIMIT", 20),
		LeaseTTL:        envutil.Seconds("TRANSLATION_LEASE_TTL_SECONDS", 120),
		TrustComplete:   envutil.Bool("TRANSLATION_TRUST_COMPLETE_FLAG", false),
	}
}

type RunRequest struct {
	Kind string
	// EntityCap bounds the entities selected by the scan.
	EntityCap int
	// Budget is the wall-clock allowance; zero means no deadline.
	Budget    time.Duration
	Languages []string
	Offset    int
}

type UnitOutcome struct {
	Kind         string   `json:"kind"`
	EntityID     string   `json:"entity_id"`
	Language     string   `json:"language"`
	Status       string   `json:"status"`
	FailedFields []string `json:"failed_fields,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type BatchResult struct {
	Kind                string        `json:"kind"`
	State               State         `json:"state"`
	EntitiesProcessed   int           `json:"entities_processed"`
	TranslationsWritten int           `json:"translations_written"`
	FailedUnits         int           `json:"failed_units"`
	PartialUnits        int           `json:"partial_units"`
	SkippedUnits        int           `json:"skipped_units"`
	TimedOut            bool          `json:"timed_out"`
	RemainingGaps       int           `json:"remaining_gaps"`
	MoreRemaining       bool          `json:"more_remaining"`
	Elapsed             time.Duration `json:"-"`
	ElapsedMS           int64         `json:"elapsed_ms"`
	Items               []UnitOutcome `json:"items"`
}

// Scheduler closes gaps in bounded batches. Every invocation rescans from
// scratch; nothing is carried between runs.
type Scheduler struct {
	log        *logger.Logger
	scanner    *Scanner
	translator *FieldTranslator
	writer     *Writer
	leaser     Leaser
	cfg        SchedulerConfig
	now        func() time.Time
}

func NewScheduler(log *logger.Logger, scanner *Scanner, translator *FieldTranslator, writer *Writer, leaser Leaser, cfg SchedulerConfig) *Scheduler {
	if cfg.UnitConcurrency <= 0 {
		cfg.UnitConcurrency = 1
	}
	if cfg.SampleLimit < 0 {
		cfg.SampleLimit = 0
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 2 * time.Minute
	}
	return &Scheduler{
		log:        log.With("component", "TranslationScheduler"),
		scanner:    scanner,
		translator: translator,
		writer:     writer,
		leaser:     leaser,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Scheduler) Languages() LanguageSet { return s.scanner.Languages() }

// batch is the mutable state of one invocation.
type batch struct {
	mu       sync.Mutex
	res      BatchResult
	state    State
	deadline time.Time
	budgeted bool
	timedOut atomic.Bool
}

func (s *Scheduler) setState(b *batch, st State) {
	b.mu.Lock()
	prev := b.state
	b.state = st
	b.mu.Unlock()
	if prev != st {
		s.log.Debug("translation batch state", "kind", b.res.Kind, "from", prev, "to", st)
	}
}

// Run scans once for up to EntityCap entities with gaps and translates their
// missing languages until done or the budget runs out. The deadline is checked
// before every (entity, language) unit and no unit starts after it.
func (s *Scheduler) Run(ctx context.Context, req RunRequest) (BatchResult, error) {
	wallStart := time.Now()
	b := s.newBatch(req.Kind, req.Budget)

	s.setState(b, StateScanning)
	cands, err := s.scanner.Scan(ctx, req.Kind, ScanOptions{
		Limit:     req.EntityCap,
		Offset:    req.Offset,
		Languages: req.Languages,
	})
	if err != nil {
		return b.res, err
	}

	for _, c := range cands {
		if b.timedOut.Load() {
			break
		}
		s.processEntity(ctx, b, c)
	}

	remaining, err := s.scanner.CountGaps(ctx, req.Kind, req.Languages)
	if err != nil {
		s.log.Warn("remaining gap count failed", "kind", req.Kind, "error", err)
	} else {
		b.res.RemainingGaps = remaining.Gaps
		if len(req.Languages) == 0 {
			observability.Current().SetCoverageGaps(req.Kind, int64(remaining.Gaps))
		}
	}
	s.finish(b, wallStart)

	s.log.Info("translation batch finished",
		"kind", req.Kind,
		"state", b.res.State,
		"entities", b.res.EntitiesProcessed,
		"written", b.res.TranslationsWritten,
		"failed", b.res.FailedUnits,
		"skipped", b.res.SkippedUnits,
		"remaining_gaps", b.res.RemainingGaps,
		"elapsed_ms", b.res.ElapsedMS,
	)
	return b.res, nil
}

// RunEntity fills every missing target language of one entity.
func (s *Scheduler) RunEntity(ctx context.Context, kind string, id uuid.UUID, budget time.Duration) (BatchResult, error) {
	wallStart := time.Now()
	b := s.newBatch(kind, budget)

	s.setState(b, StateScanning)
	entity, err := s.scanner.content.GetByID(dbctx.Background(ctx), kind, id)
	if err != nil {
		return b.res, err
	}
	c, err := s.scanner.Inspect(ctx, entity, nil)
	if err != nil {
		return b.res, fmt.Errorf("inspect %s %s: %w", kind, id, err)
	}
	if len(c.Gaps) > 0 {
		s.processEntity(ctx, b, c)
	}

	after, err := s.scanner.Inspect(ctx, entity, nil)
	if err != nil {
		s.log.Warn("remaining gap count failed", "kind", kind, "entity_id", id, "error", err)
	} else {
		b.res.RemainingGaps = len(after.Gaps)
	}
	s.finish(b, wallStart)
	return b.res, nil
}

func (s *Scheduler) newBatch(kind string, budget time.Duration) *batch {
	b := &batch{
		res:   BatchResult{Kind: kind, Items: []UnitOutcome{}},
		state: StateIdle,
	}
	if budget > 0 {
		b.budgeted = true
		b.deadline = s.now().Add(budget)
	}
	return b
}

func (s *Scheduler) finish(b *batch, wallStart time.Time) {
	st := StateDone
	if b.timedOut.Load() {
		st = StateTimedOut
		b.res.TimedOut = true
	}
	s.setState(b, st)
	b.res.State = st
	b.res.MoreRemaining = b.res.RemainingGaps > 0
	b.res.Elapsed = time.Since(wallStart)
	b.res.ElapsedMS = b.res.Elapsed.Milliseconds()
}

// expired consumes one clock reading.
func (s *Scheduler) expired(ctx context.Context, b *batch) bool {
	if ctx.Err() != nil {
		return true
	}
	return b.budgeted && !s.now().Before(b.deadline)
}

func (s *Scheduler) processEntity(ctx context.Context, b *batch, c Candidate) {
	var (
		g       errgroup.Group
		started atomic.Bool
	)
	g.SetLimit(s.cfg.UnitConcurrency)
	for _, lang := range c.Gaps {
		if b.timedOut.Load() {
			break
		}
		lang := lang
		g.Go(func() error {
			if s.expired(ctx, b) {
				b.timedOut.Store(true)
				return nil
			}
			if s.runUnit(ctx, b, c, lang) {
				started.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()
	if started.Load() {
		b.mu.Lock()
		b.res.EntitiesProcessed++
		b.mu.Unlock()
	}
}

// runUnit reports false when the unit was leased elsewhere and not attempted.
func (s *Scheduler) runUnit(ctx context.Context, b *batch, c Candidate, lang string) bool {
	kind := c.Entity.Kind()
	id := c.Entity.GetID()
	ctx, span := observability.StartSpan(ctx, "translation.unit",
		attribute.String("kind", kind),
		attribute.String("entity_id", id.String()),
		attribute.String("language", lang),
	)
	defer span.End()

	if s.leaser != nil {
		release, ok, err := s.leaser.Acquire(ctx, unitKey(id, lang), s.cfg.LeaseTTL)
		switch {
		case err != nil:
			s.log.Warn("unit lease unavailable, continuing without", "entity_id", id, "language", lang, "error", err)
		case !ok:
			s.record(b, UnitOutcome{Kind: kind, EntityID: id.String(), Language: lang, Status: "skipped"}, "skipped")
			return false
		default:
			defer release()
		}
	}

	s.setState(b, StateTranslating)
	schema, _ := SchemaFor(kind)
	sourceLang := c.Entity.GetSourceLanguage()
	if sourceLang == "" {
		sourceLang = s.scanner.Languages().Source
	}
	fr := s.translator.TranslateFields(ctx, schema, c.Source, sourceLang, lang)

	s.setState(b, StateWriting)
	out := UnitOutcome{
		Kind:         kind,
		EntityID:     id.String(),
		Language:     lang,
		Status:       fr.Status,
		FailedFields: fr.FailedFields,
	}
	err := s.writer.Write(ctx, UnitResult{
		Kind:         kind,
		EntityID:     id,
		Language:     lang,
		Fields:       fr.Fields,
		Status:       fr.Status,
		FailedFields: fr.FailedFields,
		Provider:     s.translator.ProviderName(),
	})
	if err != nil {
		s.log.Error("translation write failed", "kind", kind, "entity_id", id, "language", lang, "error", err)
		out.Error = err.Error()
		s.record(b, out, "write_error")
		return true
	}
	s.record(b, out, fr.Status)
	return true
}

func (s *Scheduler) record(b *batch, out UnitOutcome, outcome string) {
	b.mu.Lock()
	switch outcome {
	case "skipped":
		b.res.SkippedUnits++
	case "write_error":
		b.res.FailedUnits++
	default:
		b.res.TranslationsWritten++
		switch outcome {
		case types.TranslationStatusFailed:
			b.res.FailedUnits++
		case types.TranslationStatusPartial:
			b.res.PartialUnits++
		}
	}
	if len(b.res.Items) < s.cfg.SampleLimit {
		b.res.Items = append(b.res.Items, out)
	}
	b.mu.Unlock()
	observability.Current().IncSweepUnit(out.Kind, outcome)
}
