package middleware

import (
	"net/http"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// RequireAdmin allows only principals with the admin flag. JWTAuth must run first.
func RequireAdmin(messages *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).Admin {
			common.ErrorResponse(c, http.StatusForbidden, messages.T(GetLocale(c), "error.admin_required"), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
