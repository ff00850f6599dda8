package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/repository"
	"github.com/damoang/angple-content/pkg/i18n"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockRecordStore 레코드 저장소 모의 객체
type mockRecordStore struct {
	mock.Mock
}

func (m *mockRecordStore) Fetch(ctx context.Context, table string, uid int64) (domain.Row, error) {
	args := m.Called(ctx, table, uid)
	row, _ := args.Get(0).(domain.Row)
	return row, args.Error(1)
}

func (m *mockRecordStore) FindVersions(ctx context.Context, schema domain.TableSchema, workspaceID int64) ([]domain.Row, error) {
	args := m.Called(ctx, schema, workspaceID)
	rows, _ := args.Get(0).([]domain.Row)
	return rows, args.Error(1)
}

func testSchemas() *repository.SchemaRegistry {
	return repository.NewSchemaRegistry([]domain.TableSchema{
		{
			Table:                  "pages",
			LabelField:             "title",
			LanguageField:          "sys_language_uid",
			TranslationParentField: "l10n_parent",
		},
		{Table: "tags", LabelField: "name"},
	})
}

func newTestIntegrityService(store RecordFetcher) *IntegrityService {
	return NewIntegrityService(store, testSchemas(), i18n.NewDefaultBundle(i18n.LocaleEn), pkglogger.Nop())
}

// translation staged in a workspace, pointing at default-language parent 5
func translatedPage() *domain.CombinedRecord {
	return domain.NewCombinedRecord("pages",
		domain.Row{"uid": int64(20), "title": "Über uns"},
		domain.Row{"uid": int64(21), "title": "Über uns", "sys_language_uid": int64(1), "l10n_parent": int64(5)},
	)
}

func TestCheckElement_ParentIsNewPlaceholder(t *testing.T) {
	ctx := context.Background()
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(domain.Row{"uid": int64(5), "version_state": int64(1)}, nil)
	svc := newTestIntegrityService(store)

	svc.CheckElement(ctx, i18n.LocaleEn, translatedPage())

	warnings := svc.Issues("pages:20")
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.SeverityWarning, warnings[0].Status)
	assert.Contains(t, warnings[0].Message, "Über uns")

	infos := svc.Issues("pages:5")
	require.Len(t, infos, 1)
	assert.Equal(t, domain.SeverityInfo, infos[0].Status)

	assert.Len(t, svc.AllIssues(), 2)
	assert.Equal(t, domain.SeverityWarning, svc.Status(""))
	assert.Equal(t, "warning", svc.StatusRepresentation(""))
	assert.Equal(t, "info", svc.StatusRepresentation("pages:5"))
	assert.Equal(t, []string{warnings[0].Message, infos[0].Message}, svc.IssueMessages(""))
	store.AssertExpectations(t)
}

func TestCheckElement_ParentIsPublished(t *testing.T) {
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(domain.Row{"uid": int64(5), "version_state": int64(0)}, nil)
	svc := newTestIntegrityService(store)

	svc.CheckElement(context.Background(), i18n.LocaleEn, translatedPage())

	assert.Empty(t, svc.AllIssues())
	assert.Equal(t, domain.SeveritySuccess, svc.Status(""))
	assert.Equal(t, "success", svc.StatusRepresentation("pages:20"))
}

func TestCheckElement_SkipsWithoutLookup(t *testing.T) {
	store := &mockRecordStore{}
	svc := newTestIntegrityService(store)
	ctx := context.Background()

	// default language row
	svc.CheckElement(ctx, i18n.LocaleEn, domain.NewCombinedRecord("pages", nil,
		domain.Row{"uid": int64(30), "sys_language_uid": int64(0), "l10n_parent": int64(5)}))
	// translation without parent pointer
	svc.CheckElement(ctx, i18n.LocaleEn, domain.NewCombinedRecord("pages", nil,
		domain.Row{"uid": int64(31), "sys_language_uid": int64(1), "l10n_parent": int64(0)}))
	// table without localization
	svc.CheckElement(ctx, i18n.LocaleEn, domain.NewCombinedRecord("tags", nil,
		domain.Row{"uid": int64(32), "name": "go"}))
	// unknown table
	svc.CheckElement(ctx, i18n.LocaleEn, domain.NewCombinedRecord("unknown", nil, domain.Row{"uid": int64(33)}))

	assert.Empty(t, svc.AllIssues())
	store.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckElement_MissingParentFailsOpen(t *testing.T) {
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(nil, fmt.Errorf("%w: pages:5", common.ErrNotFound))
	svc := newTestIntegrityService(store)

	svc.CheckElement(context.Background(), i18n.LocaleEn, translatedPage())
	assert.Empty(t, svc.AllIssues())
}

func TestCheck_StatusIsMonotonic(t *testing.T) {
	ctx := context.Background()
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(domain.Row{"uid": int64(5), "version_state": int64(1)}, nil)
	store.On("Fetch", mock.Anything, "pages", int64(6)).
		Return(domain.Row{"uid": int64(6), "version_state": int64(0)}, nil)
	svc := newTestIntegrityService(store)

	published := domain.NewCombinedRecord("pages", domain.Row{"uid": int64(40)},
		domain.Row{"uid": int64(41), "sys_language_uid": int64(2), "l10n_parent": int64(6)})
	svc.SetAffectedElements([]*domain.CombinedRecord{published, translatedPage(), published})

	before := svc.Status("")
	require.NoError(t, svc.Check(ctx, i18n.LocaleEn))
	after := svc.Status("")
	assert.GreaterOrEqual(t, int(after), int(before))

	// 같은 요소를 다시 검사해도 상태는 내려가지 않음
	svc.CheckElement(ctx, i18n.LocaleEn, published)
	assert.Equal(t, after, svc.Status(""))
	assert.Len(t, svc.Issues("pages:20"), 1)

	svc.Reset()
	assert.Empty(t, svc.Issues(""))
	assert.Equal(t, domain.SeveritySuccess, svc.Status(""))
}

func TestCheck_NoTitleFallback(t *testing.T) {
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(domain.Row{"uid": int64(5), "version_state": "1"}, nil)
	svc := newTestIntegrityService(store)

	svc.CheckElement(context.Background(), i18n.LocaleEn, domain.NewCombinedRecord("pages", nil,
		domain.Row{"uid": int64(50), "sys_language_uid": int64(1), "l10n_parent": int64(5)}))

	issues := svc.Issues("pages:50")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "[No title]")
}

func TestCheck_StoreFailureIsNotAnError(t *testing.T) {
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(5)).Return(nil, fmt.Errorf("connection refused"))
	svc := newTestIntegrityService(store)
	svc.SetAffectedElements([]*domain.CombinedRecord{translatedPage()})

	require.NoError(t, svc.Check(context.Background(), i18n.LocaleEn))
	assert.Empty(t, svc.AllIssues())
	assert.Equal(t, domain.SeveritySuccess, svc.Status(""))
}

func TestCheck_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestIntegrityService(&mockRecordStore{})
	svc.SetAffectedElements([]*domain.CombinedRecord{translatedPage()})

	assert.ErrorIs(t, svc.Check(ctx, i18n.LocaleEn), context.Canceled)
	assert.Empty(t, svc.AllIssues())
}
