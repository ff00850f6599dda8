package repository

import (
	"sort"

	"github.com/damoang/angple-content/internal/domain"
)

// SchemaRegistry 설정에 등록된 테이블 스키마
type SchemaRegistry struct {
	schemas map[string]domain.TableSchema
}

// NewSchemaRegistry builds the registry, filling default version columns
func NewSchemaRegistry(schemas []domain.TableSchema) *SchemaRegistry {
	r := &SchemaRegistry{schemas: make(map[string]domain.TableSchema, len(schemas))}
	for _, s := range schemas {
		if s.Table == "" {
			continue
		}
		r.schemas[s.Table] = s.WithDefaults()
	}
	return r
}

// Lookup returns the schema of table
func (r *SchemaRegistry) Lookup(table string) (domain.TableSchema, bool) {
	s, ok := r.schemas[table]
	return s, ok
}

// Tables returns the registered table names in order
func (r *SchemaRegistry) Tables() []string {
	tables := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}
