package form

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/damoang/angple-content/internal/domain"
	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("document is empty")

// YAMLSource 폼 정의 YAML 코덱
type YAMLSource struct {
	indent int
}

// NewYAMLSource 새 코덱 생성
func NewYAMLSource() *YAMLSource {
	return &YAMLSource{indent: 2}
}

// Decode parses a full form definition document
func (s *YAMLSource) Decode(data []byte) (domain.FormDefinition, error) {
	var def map[string]any
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if def == nil {
		return nil, errEmptyDocument
	}
	return domain.FormDefinition(def), nil
}

// Encode serializes a form definition
func (s *YAMLSource) Encode(def domain.FormDefinition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(s.indent)
	if err := enc.Encode(map[string]any(def)); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeLine parses a single "key: value" line, used for labels that may be
// quoted or escaped.
func (s *YAMLSource) DecodeLine(line string) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal([]byte(line), &out); err != nil {
		return nil, err
	}
	return out, nil
}
