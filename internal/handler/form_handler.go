package handler

import (
	"fmt"
	"net/http"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/form"
	"github.com/damoang/angple-content/internal/middleware"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// FormHandler handles form definition HTTP requests
type FormHandler struct {
	forms    *form.Service
	messages *i18n.Bundle
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(forms *form.Service, messages *i18n.Bundle) *FormHandler {
	return &FormHandler{forms: forms, messages: messages}
}

// UniqueIdentifierRequest 고유 식별자 요청
type UniqueIdentifierRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// UniquePersistenceIdentifierRequest 고유 저장 경로 요청
type UniquePersistenceIdentifierRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	SavePath   string `json:"save_path" binding:"required"`
}

// StorageFolderResponse is one accessible storage folder
type StorageFolderResponse struct {
	Mount      string `json:"mount"`
	StorageUID int    `json:"storage_uid"`
	Identifier string `json:"identifier"`
}

func (h *FormHandler) manager(c *gin.Context) *form.Manager {
	return h.forms.ForRequest(middleware.GetPrincipal(c))
}

// fail uses form-specific messages for the common outcomes
func (h *FormHandler) fail(c *gin.Context, err error) {
	status := common.StatusFromError(err)
	key := errorMessageKey(status)
	switch status {
	case http.StatusNotFound:
		key = "form.not_found"
	case http.StatusForbidden:
		key = "form.not_allowed"
	case http.StatusConflict:
		key = "form.duplicate"
	}
	writeError(c, h.messages, status, key, err)
}

func (h *FormHandler) requireQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		writeError(c, h.messages, http.StatusBadRequest, "error.bad_request",
			fmt.Errorf("%w: query parameter %q is required", common.ErrInvalidInput, name))
		return "", false
	}
	return v, true
}

// ListForms handles GET /forms
// @Summary 폼 정의 목록
// @Tags forms
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.FormSummary}
// @Router /forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	forms, err := h.manager(c).ListForms(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	common.SuccessResponse(c, forms, &common.Meta{Total: int64(len(forms))})
}

// HasForms handles GET /forms/any
func (h *FormHandler) HasForms(c *gin.Context) {
	common.SuccessResponse(c, gin.H{"has_forms": h.manager(c).HasForms(c.Request.Context())}, nil)
}

// GetDefinition handles GET /forms/definition?id=
// @Summary 폼 정의 조회
// @Tags forms
// @Produce json
// @Param id query string true "persistence identifier"
// @Success 200 {object} common.APIResponse
// @Router /forms/definition [get]
func (h *FormHandler) GetDefinition(c *gin.Context) {
	id, ok := h.requireQuery(c, "id")
	if !ok {
		return
	}
	def, err := h.manager(c).Load(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	var meta *common.Meta
	if def.IsInvalid() {
		meta = &common.Meta{Status: h.messages.T(middleware.GetLocale(c), "form.invalid_document")}
	}
	common.SuccessResponse(c, def, meta)
}

// SaveDefinition handles PUT /forms/definition?id=
// @Summary 폼 정의 저장
// @Tags forms
// @Accept json
// @Produce json
// @Param id query string true "persistence identifier"
// @Success 200 {object} common.APIResponse
// @Router /forms/definition [put]
func (h *FormHandler) SaveDefinition(c *gin.Context) {
	id, ok := h.requireQuery(c, "id")
	if !ok {
		return
	}
	var def domain.FormDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		writeError(c, h.messages, http.StatusBadRequest, "error.bad_request", err)
		return
	}
	if err := h.manager(c).Save(c.Request.Context(), id, def); err != nil {
		h.fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{
		"persistence_identifier": id,
		"message":                h.messages.T(middleware.GetLocale(c), "form.save_success"),
	}, nil)
}

// DeleteDefinition handles DELETE /forms/definition?id=
func (h *FormHandler) DeleteDefinition(c *gin.Context) {
	id, ok := h.requireQuery(c, "id")
	if !ok {
		return
	}
	if err := h.manager(c).Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{
		"persistence_identifier": id,
		"message":                h.messages.T(middleware.GetLocale(c), "form.delete_success"),
	}, nil)
}

// Exists handles GET /forms/exists?id=
func (h *FormHandler) Exists(c *gin.Context) {
	id, ok := h.requireQuery(c, "id")
	if !ok {
		return
	}
	common.SuccessResponse(c, gin.H{"exists": h.manager(c).Exists(c.Request.Context(), id)}, nil)
}

// UniqueIdentifier handles POST /forms/unique-identifier
func (h *FormHandler) UniqueIdentifier(c *gin.Context) {
	var req UniqueIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.messages, http.StatusBadRequest, "error.bad_request", err)
		return
	}
	id, err := h.manager(c).UniqueIdentifier(c.Request.Context(), req.Identifier)
	if err != nil {
		h.fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"identifier": id}, nil)
}

// UniquePersistenceIdentifier handles POST /forms/unique-persistence-identifier
func (h *FormHandler) UniquePersistenceIdentifier(c *gin.Context) {
	var req UniquePersistenceIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.messages, http.StatusBadRequest, "error.bad_request", err)
		return
	}
	m := h.manager(c)
	if !m.IsAllowedPersistencePath(c.Request.Context(), req.SavePath) {
		h.fail(c, &form.PersistenceError{Identifier: req.SavePath,
			Message: fmt.Sprintf("save path %q is not allowed", req.SavePath)})
		return
	}
	id, err := m.UniquePersistenceIdentifier(c.Request.Context(), req.Identifier, req.SavePath)
	if err != nil {
		h.fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"persistence_identifier": id}, nil)
}

// AllowedPath handles GET /forms/allowed-path?path=
func (h *FormHandler) AllowedPath(c *gin.Context) {
	p, ok := h.requireQuery(c, "path")
	if !ok {
		return
	}
	common.SuccessResponse(c, gin.H{"allowed": h.manager(c).IsAllowedPersistencePath(c.Request.Context(), p)}, nil)
}

// StorageFolders handles GET /forms/storage-folders
func (h *FormHandler) StorageFolders(c *gin.Context) {
	folders := h.manager(c).AccessibleFormStorageFolders(c.Request.Context())
	out := make([]StorageFolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, StorageFolderResponse{
			Mount:      f.Mount,
			StorageUID: f.Folder.Storage().UID(),
			Identifier: f.Folder.Identifier,
		})
	}
	common.SuccessResponse(c, out, &common.Meta{Total: int64(len(out))})
}

// ExtensionFolders handles GET /forms/extension-folders
func (h *FormHandler) ExtensionFolders(c *gin.Context) {
	folders := h.manager(c).AccessibleExtensionFolders()
	paths := make([]string, 0, len(folders))
	for _, f := range folders {
		paths = append(paths, f.Path)
	}
	common.SuccessResponse(c, paths, &common.Meta{Total: int64(len(paths))})
}
