package routes

import (
	"github.com/damoang/angple-content/internal/handler"
	"github.com/damoang/angple-content/internal/middleware"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/damoang/angple-content/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	formHandler *handler.FormHandler,
	workspaceHandler *handler.WorkspaceHandler,
	healthHandler *handler.HealthHandler,
	jwtManager *jwt.Manager,
	messages *i18n.Bundle,
	apiMiddleware ...gin.HandlerFunc,
) {
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager))
	api.Use(apiMiddleware...)

	// Form definitions (폼 정의)
	forms := api.Group("/forms")
	forms.GET("", formHandler.ListForms)
	forms.GET("/any", formHandler.HasForms)
	forms.GET("/definition", formHandler.GetDefinition)
	forms.PUT("/definition", formHandler.SaveDefinition)
	forms.DELETE("/definition", formHandler.DeleteDefinition)
	forms.GET("/exists", formHandler.Exists)
	forms.POST("/unique-identifier", formHandler.UniqueIdentifier)
	forms.POST("/unique-persistence-identifier", formHandler.UniquePersistenceIdentifier)
	forms.GET("/allowed-path", formHandler.AllowedPath)
	forms.GET("/storage-folders", formHandler.StorageFolders)
	forms.GET("/extension-folders", formHandler.ExtensionFolders)

	// Workspace integrity (워크스페이스 무결성)
	workspaces := api.Group("/workspaces", middleware.RequireAdmin(messages))
	workspaces.POST("/:id/integrity", workspaceHandler.CheckIntegrity)
}
