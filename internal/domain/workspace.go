package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionState describes why a staged row exists
type VersionState int

const (
	VersionStateDefault           VersionState = 0
	VersionStateNewPlaceholder    VersionState = 1
	VersionStateDeletePlaceholder VersionState = 2
	VersionStateMovePlaceholder   VersionState = 3
	VersionStateMovePointer       VersionState = 4
)

func (s VersionState) String() string {
	switch s {
	case VersionStateNewPlaceholder:
		return "new_placeholder"
	case VersionStateDeletePlaceholder:
		return "delete_placeholder"
	case VersionStateMovePlaceholder:
		return "move_placeholder"
	case VersionStateMovePointer:
		return "move_pointer"
	default:
		return "default"
	}
}

// ParseVersionState converts a raw column value. Unknown values map to
// VersionStateDefault.
func ParseVersionState(v any) VersionState {
	n, ok := toInt64(v)
	if !ok {
		return VersionStateDefault
	}
	switch s := VersionState(n); s {
	case VersionStateNewPlaceholder, VersionStateDeletePlaceholder,
		VersionStateMovePlaceholder, VersionStateMovePointer:
		return s
	default:
		return VersionStateDefault
	}
}

// Row raw record attributes as fetched from the record store
type Row map[string]any

// UID returns the "uid" column
func (r Row) UID() int64 {
	return r.Int("uid")
}

// Int returns field as integer, 0 when absent or not numeric
func (r Row) Int(field string) int64 {
	if r == nil || field == "" {
		return 0
	}
	n, _ := toInt64(r[field])
	return n
}

// String returns field as string, "" when absent
func (r Row) String(field string) string {
	if r == nil || field == "" {
		return ""
	}
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Record 테이블의 한 행
type Record struct {
	Table string
	Row   Row
}

// Identifier returns "table:uid"
func (r *Record) Identifier() string {
	return RecordIdentifier(r.Table, r.Row.UID())
}

// RecordIdentifier builds the "table:uid" issue target
func RecordIdentifier(table string, uid int64) string {
	return table + ":" + strconv.FormatInt(uid, 10)
}

// CombinedRecord pairs the published row of an entity with its staged
// version. The live record is nil for entities that are new in the workspace.
type CombinedRecord struct {
	table   string
	live    *Record
	version *Record
}

// NewCombinedRecord 라이브/버전 레코드 쌍 생성
func NewCombinedRecord(table string, live, version Row) *CombinedRecord {
	c := &CombinedRecord{
		table:   table,
		version: &Record{Table: table, Row: version},
	}
	if live != nil {
		c.live = &Record{Table: table, Row: live}
	}
	return c
}

// Table returns the entity type name
func (c *CombinedRecord) Table() string { return c.table }

// LiveRecord returns the published row or nil
func (c *CombinedRecord) LiveRecord() *Record { return c.live }

// VersionRecord returns the staged row
func (c *CombinedRecord) VersionRecord() *Record { return c.version }

// VersionState returns the staged row's state read from field
func (c *CombinedRecord) VersionState(field string) VersionState {
	return ParseVersionState(c.version.Row[field])
}

// Identifier is the live identifier, or the version identifier when the
// entity has no live row.
func (c *CombinedRecord) Identifier() string {
	if c.live != nil && c.live.Row.UID() > 0 {
		return c.live.Identifier()
	}
	return c.version.Identifier()
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
