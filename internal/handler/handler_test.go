package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/form"
	"github.com/damoang/angple-content/internal/handler"
	"github.com/damoang/angple-content/internal/middleware"
	"github.com/damoang/angple-content/internal/repository"
	"github.com/damoang/angple-content/internal/routes"
	"github.com/damoang/angple-content/internal/service"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/damoang/angple-content/pkg/jwt"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/damoang/angple-content/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	router      *gin.Engine
	jwt         *jwt.Manager
	storageBase string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storageBase := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(storageBase, "forms"), 0755))
	storages := storage.NewRepository(
		storage.New(storage.Config{UID: 1, Name: "fileadmin", Browsable: true}, storage.NewLocalDriver(storageBase)),
	)
	settings := form.DefaultSettings()
	settings.AllowedFileMounts = []string{"1:/forms/"}
	forms := form.NewService(storages, settings, form.WithBundleRoot(t.TempDir()), form.WithLogger(pkglogger.Nop()))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE pages (
		uid INTEGER PRIMARY KEY, title TEXT, sys_language_uid INTEGER DEFAULT 0,
		l10n_parent INTEGER DEFAULT 0, version_state INTEGER DEFAULT 0,
		live_uid INTEGER DEFAULT 0, workspace_id INTEGER DEFAULT 0)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO pages (uid, title, version_state, workspace_id) VALUES (5, 'About', 1, 3)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO pages (uid, title, sys_language_uid, l10n_parent, workspace_id) VALUES (21, 'Über uns', 1, 5, 3)`).Error)

	schemas := repository.NewSchemaRegistry([]domain.TableSchema{{
		Table: "pages", LabelField: "title", LanguageField: "sys_language_uid", TranslationParentField: "l10n_parent",
	}})
	messages := i18n.NewDefaultBundle(i18n.LocaleEn)
	workspaces := service.NewWorkspaceService(repository.NewRecordRepository(db, schemas), schemas, messages, pkglogger.Nop())

	manager := jwt.NewManager("test-secret", 60)
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.I18n(messages, i18n.LocaleEn))
	routes.Setup(router,
		handler.NewFormHandler(forms, messages),
		handler.NewWorkspaceHandler(workspaces, messages),
		handler.NewHealthHandler(db, nil),
		manager,
		messages,
		middleware.RateLimit(nil, messages, middleware.DefaultRateLimitConfig()),
	)
	return &testServer{router: router, jwt: manager, storageBase: storageBase}
}

func (s *testServer) do(t *testing.T, claims jwt.Claims, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	token, err := s.jwt.GenerateToken(claims)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

var admin = jwt.Claims{UserID: "1", Admin: true}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestFormHandler_SaveListLoad(t *testing.T) {
	s := newTestServer(t)
	def := map[string]any{"identifier": "contact", "type": "Form", "label": "Contact"}

	w := s.do(t, admin, http.MethodPut, "/api/v1/forms/definition?id=1:/forms/contact.form.yaml", def)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, admin, http.MethodGet, "/api/v1/forms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	forms := body["data"].([]any)
	require.Len(t, forms, 1)
	assert.Equal(t, "1:/forms/contact.form.yaml", forms[0].(map[string]any)["persistenceIdentifier"])

	w = s.do(t, admin, http.MethodGet, "/api/v1/forms/definition?id=1:/forms/contact.form.yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, def, decode(t, w)["data"])
}

func TestFormHandler_PolicyViolationIsForbidden(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, admin, http.MethodPut, "/api/v1/forms/definition?id=1:/forms/contact.yaml",
		map[string]any{"identifier": "contact", "type": "Form"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w)["error"].(map[string]any)["code"])
}

func TestFormHandler_MissingFileIsNotFound(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, admin, http.MethodGet, "/api/v1/forms/definition?id=1:/forms/missing.form.yaml", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, admin, http.MethodGet, "/api/v1/forms/definition", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormHandler_UniquePersistenceIdentifier(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.storageBase, "forms", "contact.form.yaml"), []byte("identifier: contact\ntype: Form\n"), 0644))

	w := s.do(t, admin, http.MethodPost, "/api/v1/forms/unique-persistence-identifier",
		map[string]string{"identifier": "contact", "save_path": "1:/forms/"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1:/forms/contact_1.form.yaml", decode(t, w)["data"].(map[string]any)["persistence_identifier"])

	w = s.do(t, admin, http.MethodPost, "/api/v1/forms/unique-persistence-identifier",
		map[string]string{"identifier": "contact", "save_path": "1:/elsewhere/"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFormHandler_NonAdminPermissions(t *testing.T) {
	s := newTestServer(t)
	reader := jwt.Claims{UserID: "9", Actions: []string{"read"}, Mounts: []string{"1:/forms/"}}

	w := s.do(t, reader, http.MethodPut, "/api/v1/forms/definition?id=1:/forms/contact.form.yaml",
		map[string]any{"identifier": "contact", "type": "Form"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, reader, http.MethodGet, "/api/v1/forms/allowed-path?path=1:/forms/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["data"].(map[string]any)["allowed"])
}

func TestWorkspaceHandler_CheckIntegrity(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, admin, http.MethodPost, "/api/v1/workspaces/3/integrity", map[string]any{"tables": []string{"pages"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(domain.SeverityWarning), data["status"])
	issues := data["issues"].(map[string]any)
	assert.Contains(t, issues, "pages:21")
	assert.Contains(t, issues, "pages:5")

	w = s.do(t, admin, http.MethodPost, "/api/v1/workspaces/3/integrity", map[string]any{"tables": []string{"users"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, admin, http.MethodPost, "/api/v1/workspaces/abc/integrity", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceHandler_RequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	editor := jwt.Claims{UserID: "9", Actions: []string{"read", "write"}, Mounts: []string{"1:/forms/"}}

	w := s.do(t, editor, http.MethodPost, "/api/v1/workspaces/3/integrity", map[string]any{"tables": []string{"pages"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
