package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/pkg/i18n"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWorkspaceService(store RecordStore) *WorkspaceService {
	return NewWorkspaceService(store, testSchemas(), i18n.NewDefaultBundle(i18n.LocaleEn), pkglogger.Nop())
}

func TestCheckWorkspace(t *testing.T) {
	ctx := context.Background()
	store := &mockRecordStore{}
	schema, _ := testSchemas().Lookup("pages")

	store.On("FindVersions", mock.Anything, schema, int64(3)).Return([]domain.Row{
		// new default-language page
		{"uid": int64(5), "title": "About", "version_state": int64(1), "live_uid": int64(0)},
		// translation of the new page, staged against live row 20
		{"uid": int64(21), "title": "Über uns", "sys_language_uid": int64(1), "l10n_parent": int64(5), "live_uid": int64(20)},
	}, nil)
	store.On("Fetch", mock.Anything, "pages", int64(20)).Return(domain.Row{"uid": int64(20), "title": "Über uns"}, nil)
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(domain.Row{"uid": int64(5), "version_state": int64(1)}, nil)

	report, err := newTestWorkspaceService(store).CheckWorkspace(ctx, i18n.LocaleEn, 3, []string{"pages"})
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityWarning, report.Status)
	assert.Equal(t, "Warning", report.StatusLabel)
	assert.Equal(t, 2, report.Checked)
	require.Len(t, report.Issues["pages:20"], 1)
	require.Len(t, report.Issues["pages:5"], 1)
	store.AssertExpectations(t)
}

func TestCheckWorkspace_UnknownTable(t *testing.T) {
	_, err := newTestWorkspaceService(&mockRecordStore{}).CheckWorkspace(context.Background(), i18n.LocaleEn, 3, []string{"users"})
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestCheckElements(t *testing.T) {
	ctx := context.Background()
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(21)).
		Return(domain.Row{"uid": int64(21), "sys_language_uid": int64(1), "l10n_parent": int64(5)}, nil)
	store.On("Fetch", mock.Anything, "pages", int64(20)).
		Return(nil, fmt.Errorf("%w: pages:20", common.ErrNotFound))
	store.On("Fetch", mock.Anything, "pages", int64(5)).
		Return(domain.Row{"uid": int64(5), "version_state": int64(0)}, nil)

	report, err := newTestWorkspaceService(store).CheckElements(ctx, i18n.LocaleKo, []domain.IntegrityElement{
		{Table: "pages", LiveUID: 20, VersionUID: 21},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SeveritySuccess, report.Status)
	assert.Equal(t, "문제 없음", report.StatusLabel)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, report.Checked)
}

func TestCombine_MissingVersion(t *testing.T) {
	store := &mockRecordStore{}
	store.On("Fetch", mock.Anything, "pages", int64(99)).
		Return(nil, fmt.Errorf("%w: pages:99", common.ErrNotFound))

	_, err := newTestWorkspaceService(store).Combine(context.Background(), "pages", 0, 99)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
