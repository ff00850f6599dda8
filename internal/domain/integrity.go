package domain

// Severity is the ordered issue status: Success < Info < Warning < Error
type Severity int

const (
	SeveritySuccess Severity = 100
	SeverityInfo    Severity = 101
	SeverityWarning Severity = 102
	SeverityError   Severity = 103
)

// String returns the lowercase status label
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "success"
	}
}

// Issue 무결성 검사 결과 한 건
type Issue struct {
	Status  Severity `json:"status"`
	Message string   `json:"message"`
}

// IntegrityElement addresses one live/version pair by uid
type IntegrityElement struct {
	Table      string `json:"table" binding:"required"`
	LiveUID    int64  `json:"live_uid"`
	VersionUID int64  `json:"version_uid" binding:"required"`
}

// IntegrityReport is the aggregated outcome of one check run
type IntegrityReport struct {
	Status      Severity           `json:"status"`
	StatusLabel string             `json:"status_label"`
	Issues      map[string][]Issue `json:"issues"`
	Checked     int                `json:"checked"`
}
