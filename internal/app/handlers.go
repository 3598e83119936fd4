package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/literacy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/literacy-backend/internal/http/middleware"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type Handlers struct {
	Sweep    *httpH.SweepHandler
	Coverage *httpH.CoverageHandler
	Content  *httpH.ContentHandler
	Jobs     *httpH.JobHandler
	Health   *httpH.HealthHandler

	Auth *httpMW.AuthMiddleware
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Sweep:    httpH.NewSweepHandler(log, serviceset.Sweep),
		Coverage: httpH.NewCoverageHandler(serviceset.Coverage),
		Content:  httpH.NewContentHandler(serviceset.Content),
		Jobs:     httpH.NewJobHandler(serviceset.Jobs),
		Health:   httpH.NewHealthHandler(db),
		Auth:     httpMW.NewAuthMiddleware(log, cfg.Auth),
	}
}
