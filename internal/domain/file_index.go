package domain

import "time"

// FormFileIndex assigns a stable numeric uid to a storage file
type FormFileIndex struct {
	UID        int64     `gorm:"column:uid;primaryKey;autoIncrement" json:"uid"`
	StorageUID int       `gorm:"column:storage_uid;uniqueIndex:idx_form_file_index_location" json:"storage_uid"`
	Identifier string    `gorm:"column:identifier;size:512;uniqueIndex:idx_form_file_index_location" json:"identifier"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name
func (FormFileIndex) TableName() string {
	return "form_file_index"
}
