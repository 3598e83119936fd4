package translation_fill

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/translation"
)

const JobType = "translation_fill"

// EntityRunner fills every missing target language of one entity.
type EntityRunner interface {
	RunEntity(ctx context.Context, kind string, id uuid.UUID, budget time.Duration) (translation.BatchResult, error)
}

type Pipeline struct {
	log    *logger.Logger
	runner EntityRunner
	budget time.Duration
}

func New(baseLog *logger.Logger, runner EntityRunner, budget time.Duration) *Pipeline {
	return &Pipeline{
		log:    baseLog.With("job", JobType),
		runner: runner,
		budget: budget,
	}
}

func (p *Pipeline) Type() string { return JobType }
