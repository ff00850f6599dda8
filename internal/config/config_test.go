package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: test
server:
  port: 9000
storages:
  - uid: 1
    name: fileadmin
    driver: local
    base_path: /srv/fileadmin
  - uid: 2
    name: archive
    driver: s3
    browsable: false
    s3:
      bucket: forms
      region: ap-northeast-2
bundles:
  root: /srv/bundles
tables:
  - table: pages
    label_field: title
    language_field: sys_language_uid
    translation_parent_field: l10n_parent
form:
  allowed_file_mounts: ["1:/forms/"]
  allowed_extension_paths: ["EXT:site/forms/"]
  allow_save_to_extension_paths: true
  sort_by_keys: [identifier]
  sort_ascending: false
  reservation_ttl: 45s
  definition_overrides:
    contact:
      label: Overridden
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, 9000, cfg.Server.Port)
	require.Len(t, cfg.Storages, 2)
	assert.True(t, cfg.Storages[0].IsBrowsable())
	assert.False(t, cfg.Storages[1].IsBrowsable())
	assert.Equal(t, "forms", cfg.Storages[1].S3.Bucket)
	assert.Equal(t, "/srv/bundles", cfg.Bundles.Root)
	require.Len(t, cfg.Tables, 1)
	assert.True(t, cfg.Tables[0].IsLocalizable())

	assert.Equal(t, []string{"1:/forms/"}, cfg.Form.AllowedFileMounts)
	assert.True(t, cfg.Form.AllowSaveToExtensionPaths)
	assert.False(t, cfg.Form.AllowDeleteFromExtensionPaths)
	assert.Equal(t, []string{"identifier"}, cfg.Form.SortByKeys)
	assert.False(t, cfg.Form.SortAscending)
	assert.Equal(t, 45*time.Second, cfg.ReservationTTL())
	assert.Equal(t, "Overridden", cfg.Form.DefinitionOverrides["contact"]["label"])
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "env: local\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "fileUid"}, cfg.Form.SortByKeys)
	assert.True(t, cfg.Form.SortAscending)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8083, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(writeConfig(t, "jwt:\n  secret: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "file::memory:", cfg.Database.GetDSN())
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
storages:
  - uid: 1
    driver: local
    base_path: /a
  - uid: 1
    driver: local
    base_path: /b
`))
	assert.ErrorContains(t, err, "duplicate storage uid")

	_, err = Load(writeConfig(t, "storages:\n  - uid: 3\n    driver: ftp\n"))
	assert.ErrorContains(t, err, "unknown driver")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	d := DatabaseConfig{User: "cms", Password: "pw", Host: "db", Port: 3306, DBName: "content"}
	assert.Equal(t, "cms:pw@tcp(db:3306)/content?charset=utf8mb4&parseTime=True&loc=Local", d.GetDSN())
}

func TestLoad_RateLimitDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "rate_limit:\n  requests_per_minute: 30\n"))
	require.NoError(t, err)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
}

func TestDotEnvCandidates(t *testing.T) {
	assert.Equal(t, []string{".env.local", ".env"}, dotEnvCandidates(""))
	assert.Equal(t, []string{".env.prod.local", ".env.local", ".env.prod", ".env"}, dotEnvCandidates("prod"))
}

func TestLoadDotEnv_DoesNotOverrideOSEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FORMCTL_TEST_A=file\nFORMCTL_TEST_B=file\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("FORMCTL_TEST_B=local\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "")
	t.Setenv("FORMCTL_TEST_A", "os")
	t.Setenv("FORMCTL_TEST_B", "")
	require.NoError(t, os.Unsetenv("FORMCTL_TEST_B"))

	loaded := LoadDotEnv()
	assert.Equal(t, []string{".env.local", ".env"}, loaded)
	assert.Equal(t, "os", os.Getenv("FORMCTL_TEST_A"))
	assert.Equal(t, "local", os.Getenv("FORMCTL_TEST_B"))
}
