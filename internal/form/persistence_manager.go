package form

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/damoang/angple-content/internal/domain"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/damoang/angple-content/pkg/storage"
	"github.com/rs/zerolog"
)

// StorageFinder resolves a storage by uid
type StorageFinder interface {
	FindByUID(uid int) (*storage.Storage, error)
}

// FileIndexer assigns stable numeric uids to storage files
type FileIndexer interface {
	UID(ctx context.Context, storageUID int, identifier string) (int64, error)
	Forget(ctx context.Context, storageUID int, identifier string) error
}

// Option configures a Service
type Option func(*Service)

// WithBundleRoot sets the directory "EXT:" paths resolve against
func WithBundleRoot(root string) Option {
	return func(s *Service) { s.bundleRoot = root }
}

// WithReserver makes Save claim new files before creating them
func WithReserver(r Reserver) Option {
	return func(s *Service) { s.reserver = r }
}

// WithFileIndexer sets the source of fileUid values
func WithFileIndexer(ix FileIndexer) Option {
	return func(s *Service) { s.indexer = ix }
}

// WithLogger overrides the logger
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the clock used for the timestamp fallback suffix
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service holds the long-lived dependencies of the persistence manager.
// It is safe to share between requests; call ForRequest per request.
type Service struct {
	storages   StorageFinder
	settings   Settings
	bundleRoot string
	source     *YAMLSource
	reserver   Reserver
	indexer    FileIndexer
	log        *zerolog.Logger
	now        func() time.Time
}

// NewService creates a new Service
func NewService(storages StorageFinder, settings Settings, opts ...Option) *Service {
	s := &Service{
		storages: storages,
		settings: settings,
		source:   NewYAMLSource(),
		log:      pkglogger.GetLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.settings.ReservationTTL <= 0 {
		s.settings.ReservationTTL = DefaultSettings().ReservationTTL
	}
	return s
}

// Settings returns the configuration the service was built with
func (s *Service) Settings() Settings {
	return s.settings
}

// ForRequest binds the service to one principal with a fresh runtime cache
func (s *Service) ForRequest(principal domain.Principal) *Manager {
	return &Manager{svc: s, principal: principal, cache: NewRuntimeCache()}
}

// Manager is the request-scoped persistence manager. Not safe for
// concurrent use.
type Manager struct {
	svc       *Service
	principal domain.Principal
	cache     *RuntimeCache
}

// Principal returns the principal the manager acts for
func (m *Manager) Principal() domain.Principal {
	return m.principal
}

func (m *Manager) perms() storage.Permissions {
	return m.principal.Storage
}

// HasValidFileExtension reports whether name ends with ".form.yaml"
func (m *Manager) HasValidFileExtension(name string) bool {
	return HasValidFileExtension(name)
}

// Load returns the form definition behind persistenceIdentifier with
// configured overrides applied. Unreadable or unparsable documents come back
// as an invalid placeholder instead of an error; only a disallowed
// identifier or an unresolvable storage file is reported as error.
func (m *Manager) Load(ctx context.Context, persistenceIdentifier string) (def domain.FormDefinition, err error) {
	defer func() { observe("load", err) }()

	key := loadCacheKey(persistenceIdentifier)
	if cached, ok := m.cache.Get(key); ok {
		return m.applyOverrides(cached.(domain.FormDefinition)), nil
	}

	loc := ParseLocation(persistenceIdentifier)
	var read func() ([]byte, error)
	switch loc.Kind {
	case LocationKindBundle:
		if err := m.ensureValidPersistenceIdentifier(loc); err != nil {
			return nil, err
		}
		read = func() ([]byte, error) { return os.ReadFile(m.svc.bundleAbsPath(loc)) }
	default:
		file, err := m.retrieveFile(ctx, loc)
		if err != nil {
			return nil, err
		}
		read = func() ([]byte, error) { return file.Storage().ReadFile(ctx, file) }
	}

	loaded, readErr := m.decode(read, persistenceIdentifier)
	if readErr != nil {
		m.svc.log.Debug().Err(readErr).Str("identifier", persistenceIdentifier).Msg("form definition is invalid")
		loaded = invalidPlaceholder(persistenceIdentifier, readErr)
	}
	m.cache.Set(key, loaded)
	return m.applyOverrides(loaded), nil
}

func (m *Manager) decode(read func() ([]byte, error), persistenceIdentifier string) (domain.FormDefinition, error) {
	data, err := read()
	if err != nil {
		return nil, &NoSuchFileError{Code: 1524684462, Identifier: persistenceIdentifier, Err: err}
	}
	def, err := m.svc.source.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := checkFileExtension(def, persistenceIdentifier); err != nil {
		return nil, err
	}
	return def, nil
}

// Save writes def to persistenceIdentifier. Storage files are created when
// missing; bundle paths need AllowSaveToExtensionPaths.
func (m *Manager) Save(ctx context.Context, persistenceIdentifier string, def domain.FormDefinition) (err error) {
	defer func() { observe("save", err) }()

	if !HasValidFileExtension(persistenceIdentifier) {
		return policyError(1477679820, persistenceIdentifier, "The file %q could not be saved.", persistenceIdentifier)
	}
	data, err := m.svc.source.Encode(def)
	if err != nil {
		return &PersistenceError{Code: 1512582637, Identifier: persistenceIdentifier,
			Message: fmt.Sprintf("The file %q could not be saved", persistenceIdentifier), Err: err}
	}

	release, err := m.claimNewFile(ctx, persistenceIdentifier)
	if err != nil {
		return err
	}
	defer release()

	loc := ParseLocation(persistenceIdentifier)
	switch loc.Kind {
	case LocationKindBundle:
		if !m.svc.settings.AllowSaveToExtensionPaths {
			return policyError(1477680881, persistenceIdentifier, "Save to extension paths is not allowed.")
		}
		if !m.isFileWithinAccessibleExtensionFolders(persistenceIdentifier) {
			return policyError(1484073571, persistenceIdentifier,
				"The file %q could not be saved. Please check your configuration option \"allowed_extension_paths\"", persistenceIdentifier)
		}
		err = os.WriteFile(m.svc.bundleAbsPath(loc), data, 0o644)
	case LocationKindMounted:
		var file *storage.File
		file, err = m.getOrCreateFile(ctx, loc)
		if err != nil {
			return err
		}
		err = file.Storage().WriteFile(ctx, file, data)
	default:
		return policyError(1471630581, persistenceIdentifier, "Could not access storage for %q.", persistenceIdentifier)
	}
	if err != nil {
		return &PersistenceError{Code: 1512582637, Identifier: persistenceIdentifier,
			Message: fmt.Sprintf("The file %q could not be saved", persistenceIdentifier), Err: err}
	}

	m.cache.Delete(loadCacheKey(persistenceIdentifier))
	m.svc.log.Info().Str("identifier", persistenceIdentifier).Str("user_id", m.principal.UserID).Msg("form definition saved")
	return nil
}

// Delete removes an existing form definition
func (m *Manager) Delete(ctx context.Context, persistenceIdentifier string) (err error) {
	defer func() { observe("delete", err) }()

	if !HasValidFileExtension(persistenceIdentifier) {
		return policyError(1472239534, persistenceIdentifier, "The file %q could not be removed.", persistenceIdentifier)
	}
	if !m.Exists(ctx, persistenceIdentifier) {
		return policyError(1472239535, persistenceIdentifier, "The file %q could not be removed.", persistenceIdentifier)
	}

	loc := ParseLocation(persistenceIdentifier)
	switch loc.Kind {
	case LocationKindBundle:
		if !m.svc.settings.AllowDeleteFromExtensionPaths {
			return policyError(1472239536, persistenceIdentifier, "The file %q could not be removed.", persistenceIdentifier)
		}
		if !m.isFileWithinAccessibleExtensionFolders(persistenceIdentifier) {
			return policyError(1484073878, persistenceIdentifier,
				"The file %q could not be removed. Please check your configuration option \"allowed_extension_paths\"", persistenceIdentifier)
		}
		if err := os.Remove(m.svc.bundleAbsPath(loc)); err != nil {
			return &PersistenceError{Code: 1472239536, Identifier: persistenceIdentifier,
				Message: fmt.Sprintf("The file %q could not be removed", persistenceIdentifier), Err: err}
		}
	case LocationKindMounted:
		st, err := m.storageByUID(loc.StorageUID)
		if err != nil {
			return err
		}
		file, err := st.GetFile(ctx, loc.Path)
		if err != nil {
			return &NoSuchFileError{Code: 1472239535, Identifier: persistenceIdentifier, Err: err}
		}
		if !st.CheckFileActionPermission(m.perms(), storage.ActionDelete, file) {
			return policyError(1472239516, persistenceIdentifier, "No delete access to file %q.", persistenceIdentifier)
		}
		if err := st.DeleteFile(ctx, file); err != nil {
			return &PersistenceError{Code: 1472239535, Identifier: persistenceIdentifier,
				Message: fmt.Sprintf("The file %q could not be removed", persistenceIdentifier), Err: err}
		}
		if m.svc.indexer != nil {
			if err := m.svc.indexer.Forget(ctx, st.UID(), file.Identifier); err != nil {
				m.svc.log.Warn().Err(err).Str("identifier", persistenceIdentifier).Msg("file index cleanup failed")
			}
		}
	}

	m.cache.Delete(loadCacheKey(persistenceIdentifier))
	m.svc.log.Info().Str("identifier", persistenceIdentifier).Str("user_id", m.principal.UserID).Msg("form definition deleted")
	return nil
}

// Exists reports whether a loadable form definition is stored at
// persistenceIdentifier. 실패는 모두 false
func (m *Manager) Exists(ctx context.Context, persistenceIdentifier string) bool {
	if !HasValidFileExtension(persistenceIdentifier) {
		return false
	}
	loc := ParseLocation(persistenceIdentifier)
	switch loc.Kind {
	case LocationKindBundle:
		if !m.isFileWithinAccessibleExtensionFolders(persistenceIdentifier) {
			return false
		}
		info, err := os.Stat(m.svc.bundleAbsPath(loc))
		return err == nil && !info.IsDir()
	case LocationKindMounted:
		st, err := m.storageByUID(loc.StorageUID)
		if err != nil {
			return false
		}
		return st.HasFile(ctx, loc.Path)
	default:
		return false
	}
}

// ensureValidPersistenceIdentifier requires a ".yaml" file and, for bundle
// paths, an accessible extension folder.
func (m *Manager) ensureValidPersistenceIdentifier(loc Location) error {
	if !hasYAMLExtension(loc.Raw) {
		return policyError(1477679819, loc.Raw, "The file %q could not be loaded.", loc.Raw)
	}
	if loc.Kind == LocationKindBundle && !m.isFileWithinAccessibleExtensionFolders(loc.Raw) {
		return policyError(1484071985, loc.Raw,
			"The file %q could not be loaded. Please check your configuration option \"allowed_extension_paths\"", loc.Raw)
	}
	return nil
}

// retrieveFile resolves a storage file the principal may read
func (m *Manager) retrieveFile(ctx context.Context, loc Location) (*storage.File, error) {
	if err := m.ensureValidPersistenceIdentifier(loc); err != nil {
		return nil, err
	}
	if loc.Kind != LocationKindMounted {
		return nil, &NoSuchFileError{Code: 1524684442, Identifier: loc.Raw}
	}
	st, err := m.svc.storages.FindByUID(loc.StorageUID)
	if err != nil {
		return nil, &NoSuchFileError{Code: 1524684442, Identifier: loc.Raw, Err: err}
	}
	file, err := st.GetFile(ctx, loc.Path)
	if err != nil {
		return nil, &NoSuchFileError{Code: 1524684442, Identifier: loc.Raw, Err: err}
	}
	if !st.CheckFileActionPermission(m.perms(), storage.ActionRead, file) {
		return nil, policyError(1471630578, loc.Raw, "No read access to file %q.", loc.Raw)
	}
	return file, nil
}

// getOrCreateFile resolves the target file of a storage save, creating it
// inside an existing writable folder when missing.
func (m *Manager) getOrCreateFile(ctx context.Context, loc Location) (*storage.File, error) {
	st, err := m.storageByUID(loc.StorageUID)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(loc.Path)
	base := path.Base(loc.Path)

	if !st.HasFolder(ctx, dir) {
		return nil, policyError(1471630579, loc.Raw, "Could not create folder %q.", dir)
	}
	folder, err := st.GetFolder(ctx, m.perms(), dir)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientPermissions) {
			return nil, policyError(1512583307, loc.Raw, "No read access to folder %q.", dir)
		}
		return nil, &PersistenceError{Code: 1471630579, Identifier: loc.Raw,
			Message: fmt.Sprintf("Could not open folder %q", dir), Err: err}
	}
	if !st.CheckFolderActionPermission(m.perms(), storage.ActionWrite, folder) {
		return nil, policyError(1471630580, loc.Raw, "No write access to folder %q.", dir)
	}

	var file *storage.File
	if st.HasFile(ctx, loc.Path) {
		file, err = st.GetFile(ctx, loc.Path)
	} else {
		file, err = st.CreateFile(ctx, base, folder)
	}
	if err != nil {
		return nil, &PersistenceError{Code: 1512582637, Identifier: loc.Raw,
			Message: fmt.Sprintf("The file %q could not be saved", loc.Raw), Err: err}
	}
	return file, nil
}

// storageByUID returns a browsable storage
func (m *Manager) storageByUID(uid int) (*storage.Storage, error) {
	st, err := m.svc.storages.FindByUID(uid)
	if err != nil || st == nil || !st.IsBrowsable() {
		return nil, &PersistenceError{Code: 1471630581, Message: fmt.Sprintf("Could not access storage with uid \"%d\".", uid), Err: err}
	}
	return st, nil
}

// applyOverrides merges the configured override for the definition's
// identifier onto a copy. The cached definition is never modified.
func (m *Manager) applyOverrides(def domain.FormDefinition) domain.FormDefinition {
	override := m.svc.settings.DefinitionOverrides[def.Identifier()]
	if len(override) == 0 {
		return domain.FormDefinition(cloneMap(def))
	}
	return domain.FormDefinition(mergeRecursive(def, override))
}

// bundleAbsPath maps "EXT:site/forms/a.form.yaml" below the bundle root.
// The path is cleaned so it cannot leave the root.
func (s *Service) bundleAbsPath(loc Location) string {
	rel := path.Clean("/" + strings.TrimPrefix(loc.Raw, BundlePrefix))
	return filepath.Join(s.bundleRoot, filepath.FromSlash(rel))
}

func invalidPlaceholder(persistenceIdentifier string, err error) domain.FormDefinition {
	return domain.FormDefinition{
		"type":       FormType,
		"identifier": persistenceIdentifier,
		"label":      err.Error(),
		"invalid":    true,
	}
}

// checkFileExtension rejects form definitions stored without ".form.yaml"
func checkFileExtension(def domain.FormDefinition, persistenceIdentifier string) error {
	if def.LooksLikeFormDefinition(FormType) && !HasValidFileExtension(persistenceIdentifier) {
		return policyError(1531160649, persistenceIdentifier,
			"Form definition %q does not end with \"%s\".", persistenceIdentifier, FileExtension)
	}
	return nil
}
