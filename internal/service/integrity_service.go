package service

import (
	"context"
	"errors"
	"strings"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var integrityIssuesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "angple_content",
		Subsystem: "workspace",
		Name:      "integrity_issues_total",
		Help:      "Workspace integrity issues recorded by status",
	},
	[]string{"status"},
)

// RecordFetcher reads one row of the record store
type RecordFetcher interface {
	Fetch(ctx context.Context, table string, uid int64) (domain.Row, error)
}

// SchemaLookup resolves the schema of a table
type SchemaLookup interface {
	Lookup(table string) (domain.TableSchema, bool)
}

// IntegrityService checks a set of workspace records for problems that would
// arise when publishing them, and keeps a ledger of issues per record
// identifier. One instance serves one check run and is not safe for
// concurrent use.
type IntegrityService struct {
	records  RecordFetcher
	schemas  SchemaLookup
	messages *i18n.Bundle
	log      *zerolog.Logger

	affected []*domain.CombinedRecord
	issues   map[string][]domain.Issue
	order    []string
}

// NewIntegrityService creates a new IntegrityService
func NewIntegrityService(records RecordFetcher, schemas SchemaLookup, messages *i18n.Bundle, log *zerolog.Logger) *IntegrityService {
	return &IntegrityService{
		records:  records,
		schemas:  schemas,
		messages: messages,
		log:      log,
		issues:   make(map[string][]domain.Issue),
	}
}

// SetAffectedElements replaces the records Check will inspect
func (s *IntegrityService) SetAffectedElements(records []*domain.CombinedRecord) {
	s.affected = records
}

// Check runs CheckElement for every affected record in order. Findings and
// failed lookups never produce an error; the only error is ctx.Err() when
// the caller gives up, with the issues recorded so far kept in the ledger.
func (s *IntegrityService) Check(ctx context.Context, locale i18n.Locale) error {
	for i, record := range s.affected {
		if err := ctx.Err(); err != nil {
			s.log.Debug().Err(err).Int("checked", i).Int("total", len(s.affected)).Msg("integrity check cancelled")
			return err
		}
		s.CheckElement(ctx, locale, record)
	}
	return nil
}

// CheckElement applies every rule to one record
func (s *IntegrityService) CheckElement(ctx context.Context, locale i18n.Locale, record *domain.CombinedRecord) {
	if record == nil || record.VersionRecord() == nil {
		return
	}
	s.checkLocalization(ctx, locale, record)
}

// checkLocalization flags a translation whose default-language parent is
// itself new in the workspace: publishing the translation alone would
// leave it without a published parent.
func (s *IntegrityService) checkLocalization(ctx context.Context, locale i18n.Locale, record *domain.CombinedRecord) {
	table := record.Table()
	schema, ok := s.schemas.Lookup(table)
	if !ok || !schema.IsLocalizable() {
		return
	}

	version := record.VersionRecord().Row
	if version.Int(schema.LanguageField) <= 0 {
		return
	}
	parentUID := version.Int(schema.TranslationParentField)
	if parentUID <= 0 {
		return
	}

	parent, err := s.records.Fetch(ctx, table, parentUID)
	if err != nil {
		// 조회 실패 시 이슈 없이 통과
		event := s.log.Warn()
		if !errors.Is(err, common.ErrNotFound) {
			event = s.log.Error()
		}
		event.Err(err).
			Str("record", record.Identifier()).
			Str("parent", domain.RecordIdentifier(table, parentUID)).
			Msg("localization parent lookup failed")
		return
	}
	if domain.ParseVersionState(parent[schema.VersionStateField]) != domain.VersionStateNewPlaceholder {
		return
	}
	if uid := parent.UID(); uid > 0 {
		parentUID = uid
	}

	title := s.recordTitle(locale, schema, version)
	s.addIssue(record.Identifier(), domain.SeverityWarning,
		s.messages.T(locale, i18n.KeyDependsOnDefaultLanguageRecord, title))
	s.addIssue(domain.RecordIdentifier(table, parentUID), domain.SeverityInfo,
		s.messages.T(locale, i18n.KeyIsDefaultLanguageRecord, title))
}

func (s *IntegrityService) recordTitle(locale i18n.Locale, schema domain.TableSchema, row domain.Row) string {
	if title := strings.TrimSpace(row.String(schema.LabelField)); title != "" {
		return title
	}
	return s.messages.T(locale, i18n.KeyNoTitle)
}

// Status returns the highest severity recorded for identifier, or over the
// whole ledger when identifier is empty. No issues means Success.
func (s *IntegrityService) Status(identifier string) domain.Severity {
	status := domain.SeveritySuccess
	for _, issue := range s.Issues(identifier) {
		if issue.Status > status {
			status = issue.Status
		}
	}
	return status
}

// StatusRepresentation returns the lowercase label of Status
func (s *IntegrityService) StatusRepresentation(identifier string) string {
	return s.Status(identifier).String()
}

// Issues returns the issues of identifier in insertion order. The empty
// identifier returns every issue, grouped by identifier in first-seen order.
func (s *IntegrityService) Issues(identifier string) []domain.Issue {
	if identifier != "" {
		return append([]domain.Issue(nil), s.issues[identifier]...)
	}
	var all []domain.Issue
	for _, id := range s.order {
		all = append(all, s.issues[id]...)
	}
	return all
}

// IssueMessages returns the messages of Issues(identifier)
func (s *IntegrityService) IssueMessages(identifier string) []string {
	issues := s.Issues(identifier)
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Message
	}
	return messages
}

// AllIssues returns a copy of the ledger
func (s *IntegrityService) AllIssues() map[string][]domain.Issue {
	out := make(map[string][]domain.Issue, len(s.issues))
	for id, issues := range s.issues {
		out[id] = append([]domain.Issue(nil), issues...)
	}
	return out
}

// Reset clears the ledger
func (s *IntegrityService) Reset() {
	s.issues = make(map[string][]domain.Issue)
	s.order = nil
}

func (s *IntegrityService) addIssue(identifier string, status domain.Severity, message string) {
	if _, ok := s.issues[identifier]; !ok {
		s.order = append(s.order, identifier)
	}
	s.issues[identifier] = append(s.issues[identifier], domain.Issue{Status: status, Message: message})
	integrityIssuesTotal.WithLabelValues(status.String()).Inc()
}
