package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/rs/zerolog"
)

// RecordStore is the read side of the record store the workspace logic needs
type RecordStore interface {
	RecordFetcher
	FindVersions(ctx context.Context, schema domain.TableSchema, workspaceID int64) ([]domain.Row, error)
}

// WorkspaceService assembles CombinedRecords for a workspace and runs the
// integrity check over them.
type WorkspaceService struct {
	records  RecordStore
	schemas  SchemaLookup
	messages *i18n.Bundle
	log      *zerolog.Logger
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(records RecordStore, schemas SchemaLookup, messages *i18n.Bundle, log *zerolog.Logger) *WorkspaceService {
	return &WorkspaceService{records: records, schemas: schemas, messages: messages, log: log}
}

// CollectAffected pairs every staged row of the workspace with its live row
func (s *WorkspaceService) CollectAffected(ctx context.Context, workspaceID int64, tables []string) ([]*domain.CombinedRecord, error) {
	var affected []*domain.CombinedRecord
	for _, table := range tables {
		schema, ok := s.schemas.Lookup(table)
		if !ok {
			return nil, fmt.Errorf("%w: unknown table %q", common.ErrInvalidInput, table)
		}
		if !schema.IsVersioned() {
			continue
		}

		versions, err := s.records.FindVersions(ctx, schema, workspaceID)
		if err != nil {
			return nil, err
		}
		for _, version := range versions {
			live, err := s.liveRow(ctx, table, version.Int(schema.LiveUIDField))
			if err != nil {
				return nil, err
			}
			affected = append(affected, domain.NewCombinedRecord(table, live, version))
		}
	}
	return affected, nil
}

// Combine fetches one live/version pair. liveUID 0 means the entity is new
func (s *WorkspaceService) Combine(ctx context.Context, table string, liveUID, versionUID int64) (*domain.CombinedRecord, error) {
	if _, ok := s.schemas.Lookup(table); !ok {
		return nil, fmt.Errorf("%w: unknown table %q", common.ErrInvalidInput, table)
	}
	version, err := s.records.Fetch(ctx, table, versionUID)
	if err != nil {
		return nil, err
	}
	live, err := s.liveRow(ctx, table, liveUID)
	if err != nil {
		return nil, err
	}
	return domain.NewCombinedRecord(table, live, version), nil
}

func (s *WorkspaceService) liveRow(ctx context.Context, table string, liveUID int64) (domain.Row, error) {
	if liveUID <= 0 {
		return nil, nil
	}
	live, err := s.records.Fetch(ctx, table, liveUID)
	if errors.Is(err, common.ErrNotFound) {
		s.log.Warn().Str("record", domain.RecordIdentifier(table, liveUID)).Msg("live record missing")
		return nil, nil
	}
	return live, err
}

// CheckWorkspace checks every staged record of the given tables
func (s *WorkspaceService) CheckWorkspace(ctx context.Context, locale i18n.Locale, workspaceID int64, tables []string) (*domain.IntegrityReport, error) {
	records, err := s.CollectAffected(ctx, workspaceID, tables)
	if err != nil {
		return nil, err
	}
	return s.Check(ctx, locale, records)
}

// CheckElements checks explicitly addressed live/version pairs
func (s *WorkspaceService) CheckElements(ctx context.Context, locale i18n.Locale, elements []domain.IntegrityElement) (*domain.IntegrityReport, error) {
	records := make([]*domain.CombinedRecord, 0, len(elements))
	for _, el := range elements {
		record, err := s.Combine(ctx, el.Table, el.LiveUID, el.VersionUID)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return s.Check(ctx, locale, records)
}

// Check runs a fresh IntegrityService over records
func (s *WorkspaceService) Check(ctx context.Context, locale i18n.Locale, records []*domain.CombinedRecord) (*domain.IntegrityReport, error) {
	integrity := NewIntegrityService(s.records, s.schemas, s.messages, s.log)
	integrity.SetAffectedElements(records)
	if err := integrity.Check(ctx, locale); err != nil {
		return nil, err
	}

	status := integrity.Status("")
	return &domain.IntegrityReport{
		Status:      status,
		StatusLabel: s.messages.T(locale, statusMessageKey(status)),
		Issues:      integrity.AllIssues(),
		Checked:     len(records),
	}, nil
}

func statusMessageKey(status domain.Severity) string {
	switch status {
	case domain.SeverityInfo:
		return i18n.KeyStatusInfo
	case domain.SeverityWarning:
		return i18n.KeyStatusWarning
	case domain.SeverityError:
		return i18n.KeyStatusError
	default:
		return i18n.KeyStatusSuccess
	}
}
