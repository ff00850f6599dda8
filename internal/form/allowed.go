package form

import (
	"context"
	"path"
)

// IsAllowedPersistencePath reports whether p is a ".form.yaml" file inside
// an accessible folder, or is itself an accessible folder. A path counts as
// file when its last segment has an extension.
func (m *Manager) IsAllowedPersistencePath(ctx context.Context, p string) bool {
	isFile := path.Ext(p) != ""
	loc := ParseLocation(p)

	switch {
	case isFile && loc.Kind == LocationKindBundle:
		return HasValidFileExtension(p) && m.isFileWithinAccessibleExtensionFolders(p)
	case isFile && loc.Kind == LocationKindMounted:
		return HasValidFileExtension(p) && m.isFileWithinAccessibleFormStorageFolders(ctx, p)
	case !isFile && loc.Kind == LocationKindBundle:
		return m.isAccessibleExtensionFolder(p)
	case !isFile && loc.Kind == LocationKindMounted:
		return m.isAccessibleFormStorageFolder(ctx, p)
	default:
		return false
	}
}
