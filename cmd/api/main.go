package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damoang/angple-content/internal/bootstrap"
	"github.com/damoang/angple-content/internal/config"
	"github.com/damoang/angple-content/internal/handler"
	"github.com/damoang/angple-content/internal/middleware"
	"github.com/damoang/angple-content/internal/routes"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/damoang/angple-content/pkg/jwt"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	log := pkglogger.Component("api")
	log.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting angple-content")

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	rt, err := bootstrap.Build(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer rt.Close()

	// Gin 라우터 생성
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.I18n(rt.Messages, i18n.Locale(cfg.I18n.Fallback)))
	router.Use(middleware.Metrics())

	var apiMiddleware []gin.HandlerFunc
	if cfg.RateLimit.Enabled && rt.Redis != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(rt.Redis, rt.Messages, middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		}))
	}

	routes.Setup(router,
		handler.NewFormHandler(rt.Forms, rt.Messages),
		handler.NewWorkspaceHandler(rt.Workspaces, rt.Messages),
		handler.NewHealthHandler(rt.DB, rt.Redis),
		jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		rt.Messages,
		apiMiddleware...,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
