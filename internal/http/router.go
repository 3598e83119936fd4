package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/literacy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/literacy-backend/internal/http/middleware"
	"github.com/yungbote/literacy-backend/internal/observability"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware

	SweepHandler    *httpH.SweepHandler
	CoverageHandler *httpH.CoverageHandler
	ContentHandler  *httpH.ContentHandler
	JobHandler      *httpH.JobHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if observability.TracingEnabled() {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	cron := api.Group("/cron")
	{
		if cfg.AuthMiddleware != nil {
			cron.Use(cfg.AuthMiddleware.RequireCron())
		}
		if cfg.SweepHandler != nil {
			cron.POST("/translations/sweep", cfg.SweepHandler.Cron)
			cron.GET("/translations/sweep", cfg.SweepHandler.Cron)
		}
	}

	admin := api.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		// Translations
		if cfg.SweepHandler != nil {
			admin.POST("/translations/sweep", cfg.SweepHandler.Admin)
		}
		if cfg.CoverageHandler != nil {
			admin.GET("/translations/coverage", cfg.CoverageHandler.Report)
			admin.GET("/translations/coverage/:kind/:id", cfg.CoverageHandler.Entity)
		}

		// Content
		if cfg.ContentHandler != nil {
			admin.POST("/content/:kind", cfg.ContentHandler.Create)
			admin.DELETE("/content/:kind/:id", cfg.ContentHandler.Delete)
		}

		// Jobs
		if cfg.JobHandler != nil {
			admin.GET("/jobs/:id", cfg.JobHandler.GetJob)
		}
	}

	return r
}
