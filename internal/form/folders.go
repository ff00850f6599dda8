package form

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/damoang/angple-content/pkg/storage"
)

// StorageFolder is one accessible form storage folder keyed by its
// normalized mount string ("1:/forms/").
type StorageFolder struct {
	Mount  string
	Folder *storage.Folder
}

// ExtensionFolder is one accessible bundle folder
type ExtensionFolder struct {
	Path    string
	AbsPath string
}

// AccessibleFormStorageFolders resolves the configured file mounts the
// principal can read. Missing folders are created below the matching
// principal mount (or the storage root); mounts on unknown storages or
// without permission are skipped.
func (m *Manager) AccessibleFormStorageFolders(ctx context.Context) []StorageFolder {
	var folders []StorageFolder
	seen := make(map[string]bool)

	for _, mount := range m.svc.settings.AllowedFileMounts {
		mount = withSlash(mount)
		if seen[mount] {
			continue
		}
		uid, mountPath, ok := storage.SplitCombinedIdentifier(mount)
		if !ok {
			m.svc.log.Warn().Str("mount", mount).Msg("ignoring malformed file mount")
			continue
		}
		st, err := m.storageByUID(uid)
		if err != nil {
			continue
		}

		isStorageFileMount := false
		parent := st.RootLevelFolder()
		for _, fm := range st.FileMounts(m.perms()) {
			if strings.HasPrefix(mountPath, fm.Identifier) {
				isStorageFileMount = true
				parent = fm
			}
		}

		folder, err := st.GetFolder(ctx, m.perms(), mountPath)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrFolderNotFound):
			name := mountPath
			if isStorageFileMount {
				name = strings.TrimPrefix(mountPath, parent.Identifier)
			}
			folder, err = st.CreateFolder(ctx, m.perms(), name, parent)
			if err != nil {
				m.svc.log.Debug().Err(err).Str("mount", mount).Msg("form storage folder not created")
				continue
			}
		default:
			continue
		}

		seen[mount] = true
		folders = append(folders, StorageFolder{Mount: mount, Folder: folder})
	}
	return folders
}

// AccessibleExtensionFolders resolves the configured "EXT:" paths that exist
// on disk. The result is cached for the lifetime of the manager.
func (m *Manager) AccessibleExtensionFolders() []ExtensionFolder {
	if cached, ok := m.cache.Get(extensionFoldersCacheKey); ok {
		return cached.([]ExtensionFolder)
	}

	var folders []ExtensionFolder
	seen := make(map[string]bool)
	for _, p := range m.svc.settings.AllowedExtensionPaths {
		loc := ParseLocation(p)
		if loc.Kind != LocationKindBundle {
			continue
		}
		abs := m.svc.bundleAbsPath(loc)
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		key := withSlash(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		folders = append(folders, ExtensionFolder{Path: key, AbsPath: abs})
	}

	m.cache.Set(extensionFoldersCacheKey, folders)
	return folders
}

func (m *Manager) isAccessibleExtensionFolder(folderName string) bool {
	folderName = withSlash(folderName)
	for _, f := range m.AccessibleExtensionFolders() {
		if f.Path == folderName {
			return true
		}
	}
	return false
}

func (m *Manager) isFileWithinAccessibleExtensionFolders(fileName string) bool {
	return m.isAccessibleExtensionFolder(dirWithSlash(fileName))
}

func (m *Manager) isAccessibleFormStorageFolder(ctx context.Context, folderName string) bool {
	folderName = withSlash(folderName)
	for _, f := range m.AccessibleFormStorageFolders(ctx) {
		if f.Mount == folderName {
			return true
		}
	}
	return false
}

func (m *Manager) isFileWithinAccessibleFormStorageFolders(ctx context.Context, fileName string) bool {
	dir := dirWithSlash(fileName)
	for _, f := range m.AccessibleFormStorageFolders(ctx) {
		if strings.HasPrefix(dir, f.Mount) {
			return true
		}
	}
	return false
}
