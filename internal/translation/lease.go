package translation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Leaser claims a unit for a short time so overlapping invocations do not
// call the provider twice for the same gap. ok=false means someone else holds
// the claim. Correctness never depends on it: writes are idempotent.
type Leaser interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

func unitKey(entityID uuid.UUID, lang string) string {
	return fmt.Sprintf("translation:lease:%s:%s", entityID, lang)
}

// MemoryLeaser only coordinates invocations inside one process.
type MemoryLeaser struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewMemoryLeaser() *MemoryLeaser {
	return &MemoryLeaser{held: map[string]time.Time{}, now: time.Now}
}

func (l *MemoryLeaser) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return func() {}, false, nil
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(exp) {
			delete(l.held, key)
		}
	}, true, nil
}
