package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`

	// StoredName is the globally unique blob name on object storage.
	StoredName   string `gorm:"column:stored_name;size:255;uniqueIndex;not null"`
	OriginalName string `gorm:"column:original_name;size:255;not null"`

	BucketName string `gorm:"column:bucket_name;size:64;not null"`
	ObjectName string `gorm:"column:object_name;size:512;not null"`

	Size        int64  `gorm:"column:size;not null"`
	ContentType string `gorm:"column:content_type;size:128;not null"`

	IsPublic bool `gorm:"column:is_public;not null;default:false"`

	UploadedAt time.Time `gorm:"column:uploaded_at;not null;index"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "file_record"
}
