package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/http/response"
	"github.com/yungbote/literacy-backend/internal/services"
)

type CoverageHandler struct {
	coverage services.CoverageService
}

func NewCoverageHandler(coverage services.CoverageService) *CoverageHandler {
	return &CoverageHandler{coverage: coverage}
}

// GET /api/admin/translations/coverage?kind=
func (h *CoverageHandler) Report(c *gin.Context) {
	report, err := h.coverage.Report(c.Request.Context(), strings.TrimSpace(c.Query("kind")))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, report)
}

// GET /api/admin/translations/coverage/:kind/:id
func (h *CoverageHandler) Entity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_id", err)
		return
	}
	cov, err := h.coverage.Entity(c.Request.Context(), c.Param("kind"), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"coverage": cov})
}
