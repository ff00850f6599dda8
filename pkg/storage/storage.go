package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

// 스토리지 에러
var (
	ErrStorageNotFound         = errors.New("storage not found")
	ErrFolderNotFound          = errors.New("folder does not exist")
	ErrFileNotFound            = errors.New("file does not exist")
	ErrFileExists              = errors.New("file already exists")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// Driver is the backend a Storage reads and writes through. Identifiers are
// storage-relative, slash separated and always start with "/". Folder
// identifiers end with "/".
type Driver interface {
	FolderExists(ctx context.Context, identifier string) (bool, error)
	CreateFolder(ctx context.Context, identifier string) error
	FileExists(ctx context.Context, identifier string) (bool, error)
	ReadFile(ctx context.Context, identifier string) ([]byte, error)
	WriteFile(ctx context.Context, identifier string, data []byte) error
	DeleteFile(ctx context.Context, identifier string) error
	ListFiles(ctx context.Context, folderIdentifier string, recursive bool) ([]string, error)
}

// Folder 스토리지 폴더 핸들
type Folder struct {
	storage    *Storage
	Identifier string
}

// Storage returns the owning storage
func (f *Folder) Storage() *Storage { return f.storage }

// CombinedIdentifier returns "<uid>:<identifier>"
func (f *Folder) CombinedIdentifier() string {
	return fmt.Sprintf("%d:%s", f.storage.uid, f.Identifier)
}

// File 스토리지 파일 핸들
type File struct {
	storage    *Storage
	Identifier string
	Name       string
}

// Storage returns the owning storage
func (f *File) Storage() *Storage { return f.storage }

// CombinedIdentifier returns "<uid>:<identifier>"
func (f *File) CombinedIdentifier() string {
	return fmt.Sprintf("%d:%s", f.storage.uid, f.Identifier)
}

// Extension returns the lower-cased last extension without the dot
func (f *File) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(f.Name), "."))
}

// Config 스토리지 설정
type Config struct {
	UID       int
	Name      string
	Browsable bool
}

// Storage is one mounted storage. Access control lives here so every driver
// shares the same permission model.
type Storage struct {
	uid       int
	name      string
	browsable bool
	driver    Driver
}

// New 새 스토리지 생성
func New(cfg Config, driver Driver) *Storage {
	return &Storage{
		uid:       cfg.UID,
		name:      cfg.Name,
		browsable: cfg.Browsable,
		driver:    driver,
	}
}

// UID returns the storage uid
func (s *Storage) UID() int { return s.uid }

// Name returns the storage display name
func (s *Storage) Name() string { return s.name }

// IsBrowsable reports whether folders of this storage may be listed
func (s *Storage) IsBrowsable() bool { return s.browsable }

// RootLevelFolder returns the "/" folder without any permission check
func (s *Storage) RootLevelFolder() *Folder {
	return &Folder{storage: s, Identifier: "/"}
}

// FileMounts returns the principal's mount folders on this storage
func (s *Storage) FileMounts(perms Permissions) []*Folder {
	var folders []*Folder
	for _, mount := range perms.Mounts {
		uid, identifier, ok := SplitCombinedIdentifier(mount)
		if !ok || uid != s.uid {
			continue
		}
		folders = append(folders, &Folder{storage: s, Identifier: NormalizeFolder(identifier)})
	}
	return folders
}

// HasFolder reports whether the folder exists
func (s *Storage) HasFolder(ctx context.Context, identifier string) bool {
	ok, err := s.driver.FolderExists(ctx, NormalizeFolder(identifier))
	return err == nil && ok
}

// GetFolder returns the folder when it exists and the principal may read it
func (s *Storage) GetFolder(ctx context.Context, perms Permissions, identifier string) (*Folder, error) {
	identifier = NormalizeFolder(identifier)
	ok, err := s.driver.FolderExists(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("check folder %s: %w", identifier, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d:%s", ErrFolderNotFound, s.uid, identifier)
	}
	folder := &Folder{storage: s, Identifier: identifier}
	if !s.CheckFolderActionPermission(perms, ActionRead, folder) {
		return nil, fmt.Errorf("%w: read %s", ErrInsufficientPermissions, folder.CombinedIdentifier())
	}
	return folder, nil
}

// CreateFolder creates name (which may contain several segments) below parent
func (s *Storage) CreateFolder(ctx context.Context, perms Permissions, name string, parent *Folder) (*Folder, error) {
	if parent == nil {
		parent = s.RootLevelFolder()
	}
	if !s.CheckFolderActionPermission(perms, ActionAdd, parent) {
		return nil, fmt.Errorf("%w: add to %s", ErrInsufficientPermissions, parent.CombinedIdentifier())
	}
	identifier := NormalizeFolder(parent.Identifier + strings.Trim(name, "/"))
	if err := s.driver.CreateFolder(ctx, identifier); err != nil {
		return nil, fmt.Errorf("create folder %s: %w", identifier, err)
	}
	return &Folder{storage: s, Identifier: identifier}, nil
}

// HasFile reports whether the file exists
func (s *Storage) HasFile(ctx context.Context, identifier string) bool {
	ok, err := s.driver.FileExists(ctx, NormalizeFile(identifier))
	return err == nil && ok
}

// GetFile returns a handle for an existing file
func (s *Storage) GetFile(ctx context.Context, identifier string) (*File, error) {
	identifier = NormalizeFile(identifier)
	ok, err := s.driver.FileExists(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("check file %s: %w", identifier, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d:%s", ErrFileNotFound, s.uid, identifier)
	}
	return s.fileHandle(identifier), nil
}

// CreateFile creates an empty file named name inside folder
func (s *Storage) CreateFile(ctx context.Context, name string, folder *Folder) (*File, error) {
	identifier := NormalizeFile(folder.Identifier + name)
	ok, err := s.driver.FileExists(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("check file %s: %w", identifier, err)
	}
	if ok {
		return nil, fmt.Errorf("%w: %d:%s", ErrFileExists, s.uid, identifier)
	}
	if err := s.driver.WriteFile(ctx, identifier, nil); err != nil {
		return nil, fmt.Errorf("create file %s: %w", identifier, err)
	}
	return s.fileHandle(identifier), nil
}

// ReadFile returns the file contents
func (s *Storage) ReadFile(ctx context.Context, file *File) ([]byte, error) {
	return s.driver.ReadFile(ctx, file.Identifier)
}

// WriteFile replaces the file contents
func (s *Storage) WriteFile(ctx context.Context, file *File, data []byte) error {
	return s.driver.WriteFile(ctx, file.Identifier, data)
}

// DeleteFile removes the file
func (s *Storage) DeleteFile(ctx context.Context, file *File) error {
	return s.driver.DeleteFile(ctx, file.Identifier)
}

// ListFiles lists files below folder, optionally recursive, keeping only the
// given extensions (without dot) when any are passed.
func (s *Storage) ListFiles(ctx context.Context, folder *Folder, recursive bool, extensions ...string) ([]*File, error) {
	identifiers, err := s.driver.ListFiles(ctx, folder.Identifier, recursive)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder.CombinedIdentifier(), err)
	}
	sort.Strings(identifiers)

	files := make([]*File, 0, len(identifiers))
	for _, identifier := range identifiers {
		file := s.fileHandle(identifier)
		if len(extensions) > 0 && !containsFold(extensions, file.Extension()) {
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

// CheckFileActionPermission reports whether the principal may run action on file
func (s *Storage) CheckFileActionPermission(perms Permissions, action Action, file *File) bool {
	return perms.Allows(s.uid, action, file.Identifier)
}

// CheckFolderActionPermission reports whether the principal may run action on folder
func (s *Storage) CheckFolderActionPermission(perms Permissions, action Action, folder *Folder) bool {
	return perms.Allows(s.uid, action, folder.Identifier)
}

func (s *Storage) fileHandle(identifier string) *File {
	return &File{storage: s, Identifier: identifier, Name: path.Base(identifier)}
}

// NormalizeFolder cleans a folder identifier to "/a/b/" form
func NormalizeFolder(identifier string) string {
	cleaned := path.Clean("/" + identifier)
	if cleaned == "/" {
		return "/"
	}
	return cleaned + "/"
}

// NormalizeFile cleans a file identifier to "/a/b.ext" form
func NormalizeFile(identifier string) string {
	return path.Clean("/" + identifier)
}

// SplitCombinedIdentifier splits "<uid>:<path>". Storage uid 0 is not a
// file mount and is rejected.
func SplitCombinedIdentifier(combined string) (int, string, bool) {
	uidPart, identifier, found := strings.Cut(combined, ":")
	if !found || uidPart == "" || identifier == "" {
		return 0, "", false
	}
	if uidPart[0] < '0' || uidPart[0] > '9' {
		return 0, "", false
	}
	uid, err := strconv.Atoi(uidPart)
	if err != nil || uid == 0 {
		return 0, "", false
	}
	return uid, identifier, true
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimPrefix(item, "."), value) {
			return true
		}
	}
	return false
}
