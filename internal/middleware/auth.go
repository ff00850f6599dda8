package middleware

import (
	"errors"
	"strings"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/damoang/angple-content/pkg/jwt"
	"github.com/damoang/angple-content/pkg/storage"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 4. Store principal in context
		c.Set("userID", claims.UserID)
		c.Set(principalKey, principalFromClaims(c, claims))

		c.Next()
	}
}

// principalFromClaims builds the explicit request context. The token locale
// wins over Accept-Language.
func principalFromClaims(c *gin.Context, claims *jwt.Claims) domain.Principal {
	locale := GetLocale(c)
	if claims.Locale != "" {
		locale = i18n.Locale(claims.Locale)
	}

	actions := make([]storage.Action, 0, len(claims.Actions))
	for _, a := range claims.Actions {
		actions = append(actions, storage.Action(a))
	}

	return domain.Principal{
		UserID: claims.UserID,
		Admin:  claims.Admin,
		Locale: locale,
		Storage: storage.Permissions{
			Admin:   claims.Admin,
			Actions: actions,
			Mounts:  claims.Mounts,
		},
	}
}

// GetPrincipal extracts the principal from context. 인증 전이면 권한 없는 principal
func GetPrincipal(c *gin.Context) domain.Principal {
	if v, exists := c.Get(principalKey); exists {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{Locale: GetLocale(c)}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}
