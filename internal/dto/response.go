package dto

import "time"

// UploadedFile is the summary returned after a successful upload.
type UploadedFile struct {
	ID           uint64    `json:"id"`
	OriginalName string    `json:"originalName"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// FileSummary is one entry of an owner's file listing. The storage
// locator is deliberately absent.
type FileSummary struct {
	StoredName   string    `json:"storedName"`
	OriginalName string    `json:"originalName"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedAt   time.Time `json:"uploadedAt"`
	ContentType  string    `json:"contentType"`
}
