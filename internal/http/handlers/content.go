package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/http/response"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/services"
)

type ContentHandler struct {
	content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func newEntity(kind string) (types.ContentEntity, bool) {
	switch kind {
	case types.KindQuizQuestion:
		return &types.QuizQuestion{}, true
	case types.KindCurriculumLevel:
		return &types.CurriculumLevel{}, true
	case types.KindTrainingModule:
		return &types.TrainingModule{}, true
	default:
		return nil, false
	}
}

// POST /api/admin/content/:kind
func (h *ContentHandler) Create(c *gin.Context) {
	kind := c.Param("kind")
	entity, ok := newEntity(kind)
	if !ok {
		response.RespondErr(c, fmt.Errorf("unknown kind %q: %w", kind, apierr.ErrInvalidArgument))
		return
	}
	if err := c.ShouldBindJSON(entity); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, job, err := h.content.Create(c.Request.Context(), entity)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entity": created, "job": job})
}

// DELETE /api/admin/content/:kind/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	kind := c.Param("kind")
	if !types.IsContentKind(kind) {
		response.RespondErr(c, fmt.Errorf("unknown kind %q: %w", kind, apierr.ErrInvalidArgument))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_id", err)
		return
	}
	removed, err := h.content.Delete(c.Request.Context(), kind, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "records_removed": removed})
}
