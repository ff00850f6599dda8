package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalDriver stores files below a base directory on the local filesystem
type LocalDriver struct {
	basePath string
}

// NewLocalDriver 로컬 파일시스템 드라이버 생성
func NewLocalDriver(basePath string) *LocalDriver {
	return &LocalDriver{basePath: basePath}
}

func (d *LocalDriver) abs(identifier string) string {
	return filepath.Join(d.basePath, filepath.FromSlash(path.Clean("/"+identifier)))
}

func (d *LocalDriver) FolderExists(_ context.Context, identifier string) (bool, error) {
	info, err := os.Stat(d.abs(identifier))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (d *LocalDriver) CreateFolder(_ context.Context, identifier string) error {
	return os.MkdirAll(d.abs(identifier), 0755)
}

func (d *LocalDriver) FileExists(_ context.Context, identifier string) (bool, error) {
	info, err := os.Stat(d.abs(identifier))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (d *LocalDriver) ReadFile(_ context.Context, identifier string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(identifier))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, identifier)
	}
	return data, err
}

func (d *LocalDriver) WriteFile(_ context.Context, identifier string, data []byte) error {
	return os.WriteFile(d.abs(identifier), data, 0644)
}

func (d *LocalDriver) DeleteFile(_ context.Context, identifier string) error {
	err := os.Remove(d.abs(identifier))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, identifier)
	}
	return err
}

func (d *LocalDriver) ListFiles(_ context.Context, folderIdentifier string, recursive bool) ([]string, error) {
	root := d.abs(folderIdentifier)
	prefix := NormalizeFolder(folderIdentifier)

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, prefix+entry.Name())
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, prefix+strings.TrimPrefix(filepath.ToSlash(rel), "/"))
		return nil
	})
	return files, err
}
