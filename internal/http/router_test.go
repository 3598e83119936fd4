package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/literacy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/literacy-backend/internal/http/middleware"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/services"
)

type stubSweep struct{ calls int }

func (s *stubSweep) Sweep(_ context.Context, req services.SweepRequest) (services.SweepResult, error) {
	s.calls++
	return services.SweepResult{Trigger: req.Trigger}, nil
}

func (s *stubSweep) RunTicker(context.Context) {}

func TestRouterGuardsSweepRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sweep := &stubSweep{}
	r := NewRouter(RouterConfig{
		Log:            logger.Nop(),
		AuthMiddleware: httpMW.NewAuthMiddleware(logger.Nop(), httpMW.AuthConfig{CronSecret: "cr0n", MaintenanceKey: "m41nt"}),
		SweepHandler:   httpH.NewSweepHandler(logger.Nop(), sweep),
		HealthHandler:  httpH.NewHealthHandler(nil),
	})

	cases := []struct {
		name   string
		method string
		target string
		header map[string]string
		status int
	}{
		{name: "health is public", method: http.MethodGet, target: "/healthcheck", status: http.StatusOK},
		{name: "cron get with key", method: http.MethodGet, target: "/api/cron/translations/sweep?key=cr0n", status: http.StatusOK},
		{name: "cron post with header", method: http.MethodPost, target: "/api/cron/translations/sweep", header: map[string]string{"X-Cron-Secret": "cr0n"}, status: http.StatusOK},
		{name: "cron without secret", method: http.MethodPost, target: "/api/cron/translations/sweep", status: http.StatusUnauthorized},
		{name: "cron secret is not admin", method: http.MethodPost, target: "/api/admin/translations/sweep", header: map[string]string{"X-Cron-Secret": "cr0n"}, status: http.StatusUnauthorized},
		{name: "admin with maintenance key", method: http.MethodPost, target: "/api/admin/translations/sweep", header: map[string]string{"X-Maintenance-Key": "m41nt"}, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Fatalf("expected request id header")
			}
		})
	}
	if sweep.calls != 3 {
		t.Fatalf("expected 3 authorised sweeps, got %d", sweep.calls)
	}
}
