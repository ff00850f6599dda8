package form

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/pkg/storage"
)

// ListForms returns a summary for every form definition in the accessible
// storage and bundle folders, sorted per settings. Identifiers occurring
// more than once are flagged on every occurrence.
func (m *Manager) ListForms(ctx context.Context) (forms []domain.FormSummary, err error) {
	defer func() { observe("list", err) }()

	counts := make(map[string]int)
	forms = []domain.FormSummary{}

	for _, file := range m.storageYAMLFiles(ctx) {
		meta := m.metadataFromFile(ctx, file)
		if !meta.LooksLikeFormDefinition(FormType) {
			continue
		}
		persistenceIdentifier := file.CombinedIdentifier()
		if !HasValidFileExtension(persistenceIdentifier) {
			continue
		}
		forms = append(forms, summarize(meta, persistenceIdentifier, domain.LocationStorage, false, true))
		counts[meta.Identifier()]++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := m.svc.settings
	for _, persistenceIdentifier := range m.extensionYAMLFiles() {
		meta := m.metadataFromBundle(persistenceIdentifier)
		if !meta.LooksLikeFormDefinition(FormType) || !HasValidFileExtension(persistenceIdentifier) {
			continue
		}
		forms = append(forms, summarize(meta, persistenceIdentifier, domain.LocationBundle,
			!settings.AllowSaveToExtensionPaths, settings.AllowDeleteFromExtensionPaths))
		counts[meta.Identifier()]++
	}

	for i := range forms {
		if counts[forms[i].Identifier] > 1 {
			forms[i].DuplicateIdentifier = true
		}
	}

	m.sortForms(forms)
	return forms, nil
}

// HasForms reports whether at least one form definition is reachable
func (m *Manager) HasForms(ctx context.Context) bool {
	for _, file := range m.storageYAMLFiles(ctx) {
		if m.metadataFromFile(ctx, file).LooksLikeFormDefinition(FormType) {
			return true
		}
	}
	for _, persistenceIdentifier := range m.extensionYAMLFiles() {
		if m.metadataFromBundle(persistenceIdentifier).LooksLikeFormDefinition(FormType) {
			return true
		}
	}
	return false
}

func summarize(meta domain.FormDefinition, persistenceIdentifier string, location domain.FormLocation, readOnly, removable bool) domain.FormSummary {
	name := meta.Identifier()
	if label, ok := meta["label"].(string); ok {
		name = label
	}
	var fileUID int64
	if v, ok := meta["fileUid"].(int64); ok {
		fileUID = v
	}
	return domain.FormSummary{
		Identifier:            meta.Identifier(),
		Name:                  name,
		PersistenceIdentifier: persistenceIdentifier,
		ReadOnly:              readOnly,
		Removable:             removable,
		Location:              location,
		Invalid:               meta.IsInvalid(),
		FileUID:               fileUID,
	}
}

// storageYAMLFiles lists ".yaml" files below every accessible storage
// folder. Overlapping mounts yield each file once.
func (m *Manager) storageYAMLFiles(ctx context.Context) []*storage.File {
	var files []*storage.File
	seen := make(map[string]bool)
	for _, sf := range m.AccessibleFormStorageFolders(ctx) {
		list, err := sf.Folder.Storage().ListFiles(ctx, sf.Folder, true, "yaml")
		if err != nil {
			m.svc.log.Warn().Err(err).Str("mount", sf.Mount).Msg("failed to list form storage folder")
			continue
		}
		for _, f := range list {
			id := f.CombinedIdentifier()
			if seen[id] {
				continue
			}
			seen[id] = true
			files = append(files, f)
		}
	}
	return files
}

// extensionYAMLFiles lists ".yaml" files directly inside every accessible
// bundle folder as "EXT:" identifiers.
func (m *Manager) extensionYAMLFiles() []string {
	var files []string
	for _, folder := range m.AccessibleExtensionFolders() {
		entries, err := os.ReadDir(folder.AbsPath)
		if err != nil {
			m.svc.log.Warn().Err(err).Str("folder", folder.Path).Msg("failed to read extension folder")
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
				continue
			}
			files = append(files, folder.Path+entry.Name())
		}
	}
	return files
}

// metadataFromFile sniffs a storage file. 실패 시 invalid placeholder
func (m *Manager) metadataFromFile(ctx context.Context, file *storage.File) domain.FormDefinition {
	persistenceIdentifier := file.CombinedIdentifier()
	data, err := file.Storage().ReadFile(ctx, file)
	if err != nil {
		return invalidPlaceholder(persistenceIdentifier,
			&NoSuchFileError{Code: 1524684462, Identifier: persistenceIdentifier, Err: err})
	}
	meta := m.svc.source.extractMetadata(data)
	if err := checkFileExtension(meta, persistenceIdentifier); err != nil {
		return invalidPlaceholder(persistenceIdentifier, err)
	}
	if m.svc.indexer != nil {
		uid, err := m.svc.indexer.UID(ctx, file.Storage().UID(), file.Identifier)
		if err != nil {
			m.svc.log.Warn().Err(err).Str("identifier", persistenceIdentifier).Msg("file index lookup failed")
		} else {
			meta["fileUid"] = uid
		}
	}
	return meta
}

// metadataFromBundle sniffs a bundle file
func (m *Manager) metadataFromBundle(persistenceIdentifier string) domain.FormDefinition {
	loc := ParseLocation(persistenceIdentifier)
	if err := m.ensureValidPersistenceIdentifier(loc); err != nil {
		return invalidPlaceholder(persistenceIdentifier, err)
	}
	data, err := os.ReadFile(m.svc.bundleAbsPath(loc))
	if err != nil {
		return invalidPlaceholder(persistenceIdentifier,
			&NoSuchFileError{Code: 1524684462, Identifier: persistenceIdentifier, Err: err})
	}
	meta := m.svc.source.extractMetadata(data)
	if err := checkFileExtension(meta, persistenceIdentifier); err != nil {
		return invalidPlaceholder(persistenceIdentifier, err)
	}
	return meta
}

// sortForms orders by the configured keys, comparing case-insensitively.
// fileUid compares numerically. Later keys break ties.
func (m *Manager) sortForms(forms []domain.FormSummary) {
	keys := m.svc.settings.sortKeys()
	sort.SliceStable(forms, func(i, j int) bool {
		return compareSummaries(forms[i], forms[j], keys) < 0
	})
	if !m.svc.settings.SortAscending {
		for i, j := 0, len(forms)-1; i < j; i, j = i+1, j-1 {
			forms[i], forms[j] = forms[j], forms[i]
		}
	}
}

func compareSummaries(a, b domain.FormSummary, keys []string) int {
	for _, key := range keys {
		av, aok := a.SortValue(key)
		bv, bok := b.SortValue(key)
		if !aok || !bok {
			continue
		}
		var diff int
		if key == "fileUid" {
			diff = compareNumeric(av, bv)
		} else {
			diff = strings.Compare(strings.ToLower(av), strings.ToLower(bv))
		}
		if diff != 0 {
			return diff
		}
	}
	return 0
}

func compareNumeric(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr != nil || berr != nil {
		return strings.Compare(a, b)
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}
