package repository

import (
	"context"
	"fmt"

	"github.com/damoang/angple-content/internal/domain"
	"gorm.io/gorm"
)

// FileIndexRepository form_file_index 테이블 접근
type FileIndexRepository struct {
	db *gorm.DB
}

func NewFileIndexRepository(db *gorm.DB) *FileIndexRepository {
	return &FileIndexRepository{db: db}
}

// AutoMigrate creates the index table
func (r *FileIndexRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.FormFileIndex{})
}

// UID returns the uid of a storage file, assigning one on first sight
func (r *FileIndexRepository) UID(ctx context.Context, storageUID int, identifier string) (int64, error) {
	entry := domain.FormFileIndex{}
	err := r.db.WithContext(ctx).
		Where(domain.FormFileIndex{StorageUID: storageUID, Identifier: identifier}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return 0, fmt.Errorf("index %d:%s: %w", storageUID, identifier, err)
	}
	return entry.UID, nil
}

// Forget removes the index entry of a deleted file
func (r *FileIndexRepository) Forget(ctx context.Context, storageUID int, identifier string) error {
	return r.db.WithContext(ctx).
		Where("storage_uid = ? AND identifier = ?", storageUID, identifier).
		Delete(&domain.FormFileIndex{}).Error
}
