package translation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	"github.com/yungbote/literacy-backend/internal/data/repos/testutil"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type stubProvider struct {
	mu     sync.Mutex
	calls  int
	failOn map[string]bool // target languages that always fail
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Translate(_ context.Context, text, _, target string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failOn[target] {
		return "", errors.New("stub provider failure")
	}
	return "[" + target + "] " + text, nil
}

func (p *stubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type engine struct {
	tx         *gorm.DB
	content    repos.ContentRepo
	records    repos.TranslationRecordRepo
	scanner    *Scanner
	translator *FieldTranslator
	writer     *Writer
	scheduler  *Scheduler
	provider   *stubProvider
}

func newEngine(t *testing.T, langs LanguageSet, cfg SchedulerConfig, leaser Leaser) *engine {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := logger.Nop()

	content := repos.NewContentRepo(tx, log)
	records := repos.NewTranslationRecordRepo(tx, log)
	provider := &stubProvider{failOn: map[string]bool{}}
	scanner := NewScanner(log, content, records, langs)
	translator := NewFieldTranslator(log, provider)
	writer := NewWriter(log, records)
	return &engine{
		tx:         tx,
		content:    content,
		records:    records,
		scanner:    scanner,
		translator: translator,
		writer:     writer,
		scheduler:  NewScheduler(log, scanner, translator, writer, leaser, cfg),
		provider:   provider,
	}
}

// steppingClock advances one second per reading, starting at base.
func steppingClock(base time.Time) func() time.Time {
	var n int64
	return func() time.Time {
		i := atomic.AddInt64(&n, 1) - 1
		return base.Add(time.Duration(i) * time.Second)
	}
}
