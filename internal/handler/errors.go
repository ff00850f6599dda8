package handler

import (
	"net/http"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/middleware"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// respondError maps err onto a status and a localized message
func respondError(c *gin.Context, messages *i18n.Bundle, err error) {
	status := common.StatusFromError(err)
	writeError(c, messages, status, errorMessageKey(status), err)
}

func writeError(c *gin.Context, messages *i18n.Bundle, status int, key string, err error) {
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)
	common.ErrorResponse(c, status, messages.T(middleware.GetLocale(c), key), err)
}

func errorMessageKey(status int) string {
	switch status {
	case http.StatusNotFound:
		return "error.not_found"
	case http.StatusForbidden:
		return "error.forbidden"
	case http.StatusConflict:
		return "error.conflict"
	case http.StatusBadRequest:
		return "error.bad_request"
	case http.StatusUnauthorized:
		return "error.unauthorized"
	default:
		return "error.internal"
	}
}
