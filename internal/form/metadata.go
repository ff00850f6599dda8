package form

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/damoang/angple-content/internal/domain"
)

// metadataKeys are the top-level keys read when sniffing a document
var metadataKeys = []string{"identifier", "type", "label", "prototypeName"}

const metadataTrimSet = " '\"\r"

// extractMetadata reads identifier, type, label and prototypeName from the
// unindented lines of a YAML document without parsing the whole file.
// Lines starting with a space belong to nested structures and are ignored.
func (s *YAMLSource) extractMetadata(data []byte) domain.FormDefinition {
	meta := domain.FormDefinition{}
	reader := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := reader.ReadString('\n')
		s.sniffLine(meta, strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		if err != nil {
			// bytes.Reader 는 io.EOF 외의 에러를 내지 않음
			return meta
		}
	}
}

func (s *YAMLSource) sniffLine(meta domain.FormDefinition, line string) {
	if line == "" || line[0] == ' ' {
		return
	}
	key, value, found := strings.Cut(line, ":")
	key = strings.TrimSpace(key)
	if !found || value == "" || !isMetadataKey(key) {
		return
	}
	if key == "label" {
		meta[key] = s.parseLabel(line)
		return
	}
	// 뒤에 나온 값이 우선
	meta[key] = strings.Trim(value, metadataTrimSet)
}

// parseLabel handles quoted and escaped labels. 파싱 실패 시 빈 문자열
func (s *YAMLSource) parseLabel(line string) string {
	parsed, err := s.DecodeLine(strings.TrimRight(line, "\r"))
	if err != nil {
		return ""
	}
	label, ok := parsed["label"].(string)
	if !ok {
		return ""
	}
	return label
}

func isMetadataKey(key string) bool {
	for _, k := range metadataKeys {
		if k == key {
			return true
		}
	}
	return false
}
