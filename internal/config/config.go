package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/form"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/damoang/angple-content/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 설정
type Config struct {
	Env       string               `yaml:"env"`
	Server    ServerConfig         `yaml:"server"`
	Database  DatabaseConfig       `yaml:"database"`
	Redis     RedisConfig          `yaml:"redis"`
	JWT       JWTConfig            `yaml:"jwt"`
	CORS      CORSConfig           `yaml:"cors"`
	RateLimit RateLimitConfig      `yaml:"rate_limit"`
	I18n      I18nConfig           `yaml:"i18n"`
	Storages  []StorageConfig      `yaml:"storages"`
	Bundles   BundlesConfig        `yaml:"bundles"`
	Tables    []domain.TableSchema `yaml:"tables"`
	Form      form.Settings        `yaml:"form"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug | release | test
}

// DatabaseConfig 레코드 저장소 DB 설정
type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // mysql | sqlite
	DSN             string `yaml:"dsn"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 초
}

// GetDSN returns the explicit DSN or builds a MySQL one from the parts
func (d DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig Redis 설정 (식별자 예약용, 선택)
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig JWT 설정
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // 초
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// RateLimitConfig API 요청 제한 (Redis 필요)
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

// I18nConfig 메시지 번들 설정
type I18nConfig struct {
	Dir      string `yaml:"dir"`
	Fallback string `yaml:"fallback"`
}

// StorageConfig one storage mount
type StorageConfig struct {
	UID       int              `yaml:"uid"`
	Name      string           `yaml:"name"`
	Driver    string           `yaml:"driver"` // local | s3
	BasePath  string           `yaml:"base_path"`
	Browsable *bool            `yaml:"browsable"`
	S3        storage.S3Config `yaml:"s3"`
}

// IsBrowsable defaults to true when unset
func (s StorageConfig) IsBrowsable() bool {
	return s.Browsable == nil || *s.Browsable
}

// BundlesConfig code bundle ("EXT:") 경로 설정
type BundlesConfig struct {
	Root string `yaml:"root"`
}

// Load reads a YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the baseline configuration
func Default() *Config {
	return &Config{
		Env:    "local",
		Server: ServerConfig{Port: 8083, Mode: "debug"},
		Database: DatabaseConfig{
			Driver:          "mysql",
			MaxIdleConns:    5,
			MaxOpenConns:    20,
			ConnMaxLifetime: 300,
		},
		Redis:     RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:       JWTConfig{ExpiresIn: 3600},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 120},
		I18n:      I18nConfig{Fallback: "en"},
		Form:      form.DefaultSettings(),
	}
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	seen := make(map[int]bool, len(c.Storages))
	for _, s := range c.Storages {
		if seen[s.UID] {
			return fmt.Errorf("duplicate storage uid %d", s.UID)
		}
		seen[s.UID] = true
		switch s.Driver {
		case "local", "":
			if s.BasePath == "" {
				return fmt.Errorf("storage %d: base_path is required", s.UID)
			}
		case "s3":
			if s.S3.Bucket == "" {
				return fmt.Errorf("storage %d: s3.bucket is required", s.UID)
			}
		default:
			return fmt.Errorf("storage %d: unknown driver %q", s.UID, s.Driver)
		}
	}
	for _, t := range c.Tables {
		if t.Table == "" {
			return fmt.Errorf("table schema without table name")
		}
	}
	return nil
}

// IsDevelopment reports whether the env is a local/dev one
func (c *Config) IsDevelopment() bool {
	return pkglogger.IsDevelopmentEnv(c.Env)
}

// ReservationTTL returns the identifier reservation TTL
func (c *Config) ReservationTTL() time.Duration {
	return c.Form.ReservationTTL
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("REDIS_PORT")); err == nil {
		cfg.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		cfg.Server.Port = v
	}
	if v := os.Getenv("BUNDLES_ROOT"); v != "" {
		cfg.Bundles.Root = v
	}
}

// LogResolved logs the effective configuration without secrets
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Int("storages", len(cfg.Storages)).
		Int("tables", len(cfg.Tables)).
		Str("bundles_root", cfg.Bundles.Root).
		Strs("allowed_file_mounts", cfg.Form.AllowedFileMounts).
		Strs("allowed_extension_paths", cfg.Form.AllowedExtensionPaths).
		Bool("jwt_secret_set", cfg.JWT.Secret != "").
		Msg("config resolved")
}
