package form

import (
	"path"
	"strings"

	"github.com/damoang/angple-content/pkg/storage"
)

const (
	// FileExtension is the suffix every owned form definition carries
	FileExtension = ".form.yaml"
	// BundlePrefix marks persistence identifiers inside code bundles
	BundlePrefix = "EXT:"
	// FormType is the "type" value of a form definition
	FormType = "Form"
)

// LocationKind 저장 위치 종류
type LocationKind int

const (
	LocationKindUnknown LocationKind = iota
	LocationKindBundle
	LocationKindMounted
)

func (k LocationKind) String() string {
	switch k {
	case LocationKindBundle:
		return "bundle"
	case LocationKindMounted:
		return "mounted"
	default:
		return "unknown"
	}
}

// Location is the parsed form of a persistence identifier:
// Bundle("EXT:site/forms/a.form.yaml") or Mounted(1, "/forms/a.form.yaml").
type Location struct {
	Kind       LocationKind
	Raw        string
	StorageUID int
	Path       string
}

// ParseLocation classifies a persistence identifier or folder path
func ParseLocation(identifier string) Location {
	if strings.HasPrefix(identifier, BundlePrefix) {
		return Location{
			Kind: LocationKindBundle,
			Raw:  identifier,
			Path: strings.TrimPrefix(identifier, BundlePrefix),
		}
	}
	if uid, p, ok := storage.SplitCombinedIdentifier(identifier); ok {
		return Location{Kind: LocationKindMounted, Raw: identifier, StorageUID: uid, Path: p}
	}
	return Location{Kind: LocationKindUnknown, Raw: identifier}
}

// HasValidFileExtension reports whether name ends with ".form.yaml"
func HasValidFileExtension(name string) bool {
	return strings.HasSuffix(name, FileExtension)
}

// hasYAMLExtension checks the last extension only
func hasYAMLExtension(name string) bool {
	return path.Ext(name) == ".yaml"
}

// dirWithSlash returns the parent folder of name with a trailing slash
func dirWithSlash(name string) string {
	return strings.TrimRight(path.Dir(name), "/") + "/"
}

// withSlash appends a single trailing slash
func withSlash(folder string) string {
	return strings.TrimRight(folder, "/") + "/"
}
