package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/literacy-backend/internal/clients/redis"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/platform/translator"
	"github.com/yungbote/literacy-backend/internal/temporalx"
)

type Clients struct {
	Redis    *goredis.Client
	Provider translator.Client
	Temporal temporalsdkclient.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (optional; unit leases fall back to in-process)
	rdb, err := redis.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	// Translation provider
	provider, err := translator.New(log, cfg.Provider)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init translation provider: %w", err)
	}

	// Temporal (optional; the in-process ticker drives sweeps otherwise)
	tc, err := temporalx.NewClient(log, cfg.Temporal)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init temporal client: %w", err)
	}

	return Clients{
		Redis:    rdb,
		Provider: provider,
		Temporal: tc,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
