package handler

import (
	"fmt"
	"net/http"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/middleware"
	"github.com/damoang/angple-content/internal/service"
	"github.com/damoang/angple-content/pkg/ginutil"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler handles workspace integrity requests
type WorkspaceHandler struct {
	workspaces *service.WorkspaceService
	messages   *i18n.Bundle
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaces *service.WorkspaceService, messages *i18n.Bundle) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, messages: messages}
}

// IntegrityRequest selects what to check: every staged row of tables, or
// explicit live/version pairs.
type IntegrityRequest struct {
	Tables   []string                  `json:"tables"`
	Elements []domain.IntegrityElement `json:"elements" binding:"dive"`
}

// CheckIntegrity handles POST /workspaces/:id/integrity
// @Summary 워크스페이스 무결성 검사
// @Tags workspaces
// @Accept json
// @Produce json
// @Param id path int true "workspace ID"
// @Success 200 {object} common.APIResponse{data=domain.IntegrityReport}
// @Router /workspaces/{id}/integrity [post]
func (h *WorkspaceHandler) CheckIntegrity(c *gin.Context) {
	workspaceID, ok := ginutil.ParamID(c, "id")
	if !ok {
		writeError(c, h.messages, http.StatusBadRequest, "error.bad_request",
			fmt.Errorf("%w: workspace id %q", common.ErrInvalidInput, c.Param("id")))
		return
	}

	var req IntegrityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.messages, http.StatusBadRequest, "error.bad_request", err)
		return
	}

	locale := middleware.GetPrincipal(c).Locale
	var (
		report *domain.IntegrityReport
		err    error
	)
	switch {
	case len(req.Elements) > 0:
		report, err = h.workspaces.CheckElements(c.Request.Context(), locale, req.Elements)
	case len(req.Tables) > 0:
		report, err = h.workspaces.CheckWorkspace(c.Request.Context(), locale, workspaceID, req.Tables)
	default:
		err = fmt.Errorf("%w: tables or elements required", common.ErrInvalidInput)
	}
	if err != nil {
		respondError(c, h.messages, err)
		return
	}

	common.SuccessResponse(c, report, &common.Meta{Status: report.Status.String()})
}
