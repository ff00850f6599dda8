package domain

// TableSchema describes the columns the workspace logic needs for one table
type TableSchema struct {
	Table                  string `yaml:"table"`
	LabelField             string `yaml:"label_field"`
	LanguageField          string `yaml:"language_field"`
	TranslationParentField string `yaml:"translation_parent_field"`
	VersionStateField      string `yaml:"version_state_field"`
	LiveUIDField           string `yaml:"live_uid_field"`
	WorkspaceField         string `yaml:"workspace_field"`
	DeleteField            string `yaml:"delete_field"`
}

// IsLocalizable reports whether rows of the table carry translations
func (s TableSchema) IsLocalizable() bool {
	return s.LanguageField != "" && s.TranslationParentField != ""
}

// IsVersioned reports whether staged rows can be looked up per workspace
func (s TableSchema) IsVersioned() bool {
	return s.WorkspaceField != "" && s.LiveUIDField != ""
}

// WithDefaults fills the version columns with their conventional names
func (s TableSchema) WithDefaults() TableSchema {
	if s.VersionStateField == "" {
		s.VersionStateField = "version_state"
	}
	if s.LiveUIDField == "" {
		s.LiveUIDField = "live_uid"
	}
	if s.WorkspaceField == "" {
		s.WorkspaceField = "workspace_id"
	}
	return s
}
