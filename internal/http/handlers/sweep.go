package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/literacy-backend/internal/http/response"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/services"
)

type SweepHandler struct {
	log   *logger.Logger
	sweep services.SweepService
}

func NewSweepHandler(log *logger.Logger, sweep services.SweepService) *SweepHandler {
	return &SweepHandler{log: log.With("handler", "SweepHandler"), sweep: sweep}
}

// POST|GET /api/cron/translations/sweep
//
// Per-item samples are left out of the cron response.
func (h *SweepHandler) Cron(c *gin.Context) {
	res, err := h.sweep.Sweep(c.Request.Context(), services.SweepRequest{Trigger: services.TriggerCron})
	if err != nil {
		h.log.Error("cron sweep failed", "error", err)
		response.RespondErr(c, err)
		return
	}
	for i := range res.Kinds {
		res.Kinds[i].Items = nil
	}
	response.RespondOK(c, res)
}

// POST /api/admin/translations/sweep?kind=&language=&offset=&limit=
func (h *SweepHandler) Admin(c *gin.Context) {
	req, err := parseSweepQuery(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.sweep.Sweep(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

func parseSweepQuery(c *gin.Context) (services.SweepRequest, error) {
	req := services.SweepRequest{
		Trigger: services.TriggerAdmin,
		Kind:    strings.TrimSpace(c.Query("kind")),
	}
	for _, raw := range c.QueryArray("language") {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				req.Languages = append(req.Languages, p)
			}
		}
	}
	var err error
	if req.Offset, err = nonNegativeQuery(c, "offset"); err != nil {
		return req, err
	}
	if req.Limit, err = nonNegativeQuery(c, "limit"); err != nil {
		return req, err
	}
	return req, nil
}

func nonNegativeQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierr.New(http.StatusBadRequest, "invalid_"+name, fmt.Errorf("%s must be a non-negative integer", name))
	}
	return n, nil
}
