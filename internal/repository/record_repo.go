package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"gorm.io/gorm"
)

// RecordRepository reads raw rows of the registered content tables
type RecordRepository struct {
	db      *gorm.DB
	schemas *SchemaRegistry
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *gorm.DB, schemas *SchemaRegistry) *RecordRepository {
	return &RecordRepository{db: db, schemas: schemas}
}

// Fetch uid로 한 행 조회. 삭제된 행은 제외
func (r *RecordRepository) Fetch(ctx context.Context, table string, uid int64) (domain.Row, error) {
	schema, ok := r.schemas.Lookup(table)
	if !ok {
		return nil, fmt.Errorf("%w: unknown table %q", common.ErrInvalidInput, table)
	}

	row := map[string]any{}
	q := r.db.WithContext(ctx).Table(schema.Table).Where("uid = ?", uid)
	if schema.DeleteField != "" {
		q = q.Where(map[string]any{schema.DeleteField: 0})
	}
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(row) == 0) {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, domain.RecordIdentifier(table, uid))
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", domain.RecordIdentifier(table, uid), err)
	}
	return domain.Row(row), nil
}

// FindVersions returns the staged rows of one workspace ordered by uid
func (r *RecordRepository) FindVersions(ctx context.Context, schema domain.TableSchema, workspaceID int64) ([]domain.Row, error) {
	if _, ok := r.schemas.Lookup(schema.Table); !ok {
		return nil, fmt.Errorf("%w: unknown table %q", common.ErrInvalidInput, schema.Table)
	}
	if schema.WorkspaceField == "" {
		return nil, fmt.Errorf("%w: table %q is not versioned", common.ErrInvalidInput, schema.Table)
	}

	var rows []map[string]any
	q := r.db.WithContext(ctx).Table(schema.Table).Where(map[string]any{schema.WorkspaceField: workspaceID})
	if schema.DeleteField != "" {
		q = q.Where(map[string]any{schema.DeleteField: 0})
	}
	if err := q.Order("uid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find versions of %s: %w", schema.Table, err)
	}

	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		out[i] = domain.Row(row)
	}
	return out, nil
}
