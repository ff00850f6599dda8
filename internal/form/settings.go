package form

import "time"

// Settings is the read-only persistence manager configuration
type Settings struct {
	// AllowedFileMounts lists "<storageUid>:/folder/" entries forms may live in
	AllowedFileMounts []string `yaml:"allowed_file_mounts"`
	// AllowedExtensionPaths lists "EXT:bundle/folder/" entries forms may live in
	AllowedExtensionPaths         []string `yaml:"allowed_extension_paths"`
	AllowSaveToExtensionPaths     bool     `yaml:"allow_save_to_extension_paths"`
	AllowDeleteFromExtensionPaths bool     `yaml:"allow_delete_from_extension_paths"`
	SortByKeys                    []string `yaml:"sort_by_keys"`
	SortAscending                 bool     `yaml:"sort_ascending"`
	// DefinitionOverrides are merged onto loaded definitions, keyed by form identifier
	DefinitionOverrides map[string]map[string]any `yaml:"definition_overrides"`
	// ReservationTTL bounds how long Save holds the claim on a new file
	ReservationTTL time.Duration `yaml:"reservation_ttl"`
}

// DefaultSettings 기본 설정
func DefaultSettings() Settings {
	return Settings{
		SortByKeys:     []string{"name", "fileUid"},
		SortAscending:  true,
		ReservationTTL: 30 * time.Second,
	}
}

func (s Settings) sortKeys() []string {
	if len(s.SortByKeys) == 0 {
		return []string{"name", "fileUid"}
	}
	return s.SortByKeys
}
