package domain

import (
	"strconv"
	"strings"
)

// FormLocation 폼 정의 저장 위치
type FormLocation string

const (
	LocationStorage FormLocation = "storage"
	LocationBundle  FormLocation = "bundle"
)

// FormDefinition is a parsed form definition document
type FormDefinition map[string]any

// Identifier returns the "identifier" key
func (d FormDefinition) Identifier() string {
	return d.str("identifier")
}

// Type returns the "type" key
func (d FormDefinition) Type() string {
	return d.str("type")
}

// Label returns the "label" key
func (d FormDefinition) Label() string {
	return d.str("label")
}

// IsInvalid reports whether the document is a parse-failure placeholder
func (d FormDefinition) IsInvalid() bool {
	v, _ := d["invalid"].(bool)
	return v
}

// LooksLikeFormDefinition is true for a non-empty identifier and type "Form"
func (d FormDefinition) LooksLikeFormDefinition(formType string) bool {
	if d == nil {
		return false
	}
	if _, ok := d["identifier"]; !ok {
		return false
	}
	if _, ok := d["type"]; !ok {
		return false
	}
	return d.Identifier() != "" && strings.TrimSpace(d.Type()) == formType
}

func (d FormDefinition) str(key string) string {
	v, _ := d[key].(string)
	return v
}

// FormSummary is one listForms entry
type FormSummary struct {
	Identifier            string       `json:"identifier"`
	Name                  string       `json:"name"`
	PersistenceIdentifier string       `json:"persistenceIdentifier"`
	ReadOnly              bool         `json:"readOnly"`
	Removable             bool         `json:"removable"`
	Location              FormLocation `json:"location"`
	DuplicateIdentifier   bool         `json:"duplicateIdentifier"`
	Invalid               bool         `json:"invalid"`
	FileUID               int64        `json:"fileUid"`
}

// SortValue returns the summary field addressed by a sort key
func (s FormSummary) SortValue(key string) (string, bool) {
	switch key {
	case "identifier":
		return s.Identifier, true
	case "name":
		return s.Name, true
	case "persistenceIdentifier":
		return s.PersistenceIdentifier, true
	case "location":
		return string(s.Location), true
	case "fileUid":
		return strconv.FormatInt(s.FileUID, 10), true
	case "readOnly":
		return boolString(s.ReadOnly), true
	case "removable":
		return boolString(s.Removable), true
	case "duplicateIdentifier":
		return boolString(s.DuplicateIdentifier), true
	case "invalid":
		return boolString(s.Invalid), true
	default:
		return "", false
	}
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return ""
}
