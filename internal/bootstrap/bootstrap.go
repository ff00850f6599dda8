// Package bootstrap wires config into the runtime services shared by the API
// server and the formctl CLI.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/damoang/angple-content/internal/config"
	"github.com/damoang/angple-content/internal/form"
	"github.com/damoang/angple-content/internal/repository"
	"github.com/damoang/angple-content/internal/service"
	"github.com/damoang/angple-content/pkg/i18n"
	pkgredis "github.com/damoang/angple-content/pkg/redis"
	"github.com/damoang/angple-content/pkg/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Runtime 조립된 서비스 묶음
type Runtime struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Messages   *i18n.Bundle
	Forms      *form.Service
	Schemas    *repository.SchemaRegistry
	Workspaces *service.WorkspaceService
}

// Build opens the DB (and Redis when enabled) and assembles every service
func Build(cfg *config.Config, log *zerolog.Logger) (*Runtime, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	fileIndex := repository.NewFileIndexRepository(db)
	if err := fileIndex.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("file index migration: %w", err)
	}

	// Redis 연결 (선택)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, identifier reservation disabled")
			redisClient = nil
		} else {
			log.Info().Msg("connected to redis")
		}
	}

	storages, err := BuildStorages(cfg.Storages)
	if err != nil {
		return nil, err
	}

	formOpts := []form.Option{
		form.WithBundleRoot(cfg.Bundles.Root),
		form.WithFileIndexer(fileIndex),
		form.WithLogger(component(log, "form")),
	}
	if redisClient != nil {
		formOpts = append(formOpts, form.WithReserver(form.NewRedisReserver(redisClient)))
	}

	messages := i18n.NewDefaultBundle(i18n.Locale(cfg.I18n.Fallback))
	if cfg.I18n.Dir != "" {
		if err := messages.LoadDir(cfg.I18n.Dir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.I18n.Dir).Msg("i18n LoadDir failed")
		}
	}

	schemas := repository.NewSchemaRegistry(cfg.Tables)
	records := repository.NewRecordRepository(db, schemas)

	return &Runtime{
		Config:     cfg,
		DB:         db,
		Redis:      redisClient,
		Messages:   messages,
		Forms:      form.NewService(storages, cfg.Form, formOpts...),
		Schemas:    schemas,
		Workspaces: service.NewWorkspaceService(records, schemas, messages, component(log, "integrity")),
	}, nil
}

func component(log *zerolog.Logger, name string) *zerolog.Logger {
	l := log.With().Str("component", name).Logger()
	return &l
}

// Close releases the DB pool and the Redis client
func (r *Runtime) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if sqlDB, err := r.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// BuildStorages 설정의 마운트를 스토리지 저장소로 변환
func BuildStorages(mounts []config.StorageConfig) (*storage.Repository, error) {
	repo := storage.NewRepository()
	for _, m := range mounts {
		var driver storage.Driver
		switch m.Driver {
		case "", "local":
			if err := os.MkdirAll(m.BasePath, 0755); err != nil {
				return nil, fmt.Errorf("storage %d: %w", m.UID, err)
			}
			driver = storage.NewLocalDriver(m.BasePath)
		case "s3":
			driver = storage.NewS3Driver(m.S3)
		default:
			return nil, fmt.Errorf("storage %d: unknown driver %q", m.UID, m.Driver)
		}
		repo.Add(storage.New(storage.Config{
			UID:       m.UID,
			Name:      m.Name,
			Browsable: m.IsBrowsable(),
		}, driver))
	}
	return repo, nil
}

// OpenDB 레코드 DB 연결 초기화
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.GetDSN())
	default:
		dialector = mysql.Open(cfg.Database.GetDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
