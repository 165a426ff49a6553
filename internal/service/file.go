package service

import (
	"CloudStore/config"
	"CloudStore/internal/dto"
	"CloudStore/internal/repo"
	"CloudStore/internal/storage"
	"CloudStore/internal/task"
	"CloudStore/model"
	"CloudStore/utils"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

const (
	stagingPrefix = "staging/"
	filesPrefix   = "files/"
)

// BuildStoredName derives a collision-free blob name. The wall-clock
// prefix keeps names sortable; the uuid suffix makes a uniqueness probe
// against existing names unnecessary. The original extension survives so
// downstream type inference still works.
func BuildStoredName(originalName string) string {
	suffix := strings.ReplaceAll(utils.GetToken(), "-", "")
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, utils.FileExtension(originalName))
}

// typeAllowed checks the declared media type against the configured set.
// An empty set allows all types.
func typeAllowed(contentType string) bool {
	allowed := config.AppConfig.AllowedMimeTypes
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// discardStaging removes a staging blob, falling back to the cleanup
// queue when removal fails.
func discardStaging(ctx context.Context, bucket, object string) {
	err := storage.Default.RemoveObject(ctx, bucket, object)
	if err == nil || storage.IsNotFound(err) {
		return
	}
	log.Printf("remove staging blob %s failed: %v", object, err)
	if qErr := task.EnqueueBlobCleanup(ctx, bucket, object); qErr != nil {
		log.Printf("enqueue staging cleanup %s failed: %v", object, qErr)
	}
}

// UploadFile streams one multipart file into object storage and records
// its metadata. The blob is written to a staging object first and only
// published once the metadata row exists, so no caller can observe a
// record without a completed write.
func UploadFile(ctx context.Context, ownerID uint64, header *multipart.FileHeader) (*model.File, error) {
	if header == nil {
		return nil, ErrNoFile
	}
	if header.Size > config.AppConfig.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !typeAllowed(contentType) {
		return nil, ErrTypeNotAllowed
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %v", ErrStorage, err)
	}
	defer src.Close()

	bucket := config.AppConfig.BucketName
	storedName := BuildStoredName(header.Filename)
	stagingObject := stagingPrefix + storedName
	finalObject := filesPrefix + storedName

	written, err := storage.Default.PutObject(ctx, bucket, stagingObject, src, header.Size, storage.PutOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if written != header.Size {
		discardStaging(ctx, bucket, stagingObject)
		return nil, fmt.Errorf("%w: wrote %d of %d bytes", ErrStorage, written, header.Size)
	}

	file := &model.File{
		OwnerID:      ownerID,
		StoredName:   storedName,
		OriginalName: utils.SanitizeFilename(header.Filename),
		BucketName:   bucket,
		ObjectName:   finalObject,
		Size:         written,
		ContentType:  contentType,
		UploadedAt:   time.Now(),
	}
	if err := repo.Db.Create(file).Error; err != nil {
		discardStaging(ctx, bucket, stagingObject)
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	if err := storage.Default.CopyObject(ctx, bucket, stagingObject, finalObject); err != nil {
		if delErr := repo.Db.Delete(&model.File{}, file.ID).Error; delErr != nil {
			log.Printf("rollback file record %d failed: %v", file.ID, delErr)
		}
		discardStaging(ctx, bucket, stagingObject)
		return nil, fmt.Errorf("%w: publish: %v", ErrStorage, err)
	}
	if err := storage.Default.RemoveObject(ctx, bucket, stagingObject); err != nil && !storage.IsNotFound(err) {
		// The blob is published and the record exists; the leftover
		// staging copy is handed to the cleanup worker.
		if qErr := task.EnqueueBlobCleanup(ctx, bucket, stagingObject); qErr != nil {
			log.Printf("enqueue staging cleanup %s failed: %v", stagingObject, qErr)
		}
	}

	if err := utils.InvalidateOwnedFilesCache(ctx, ownerID); err != nil {
		log.Printf("invalidate owned files cache for %d failed: %v", ownerID, err)
	}
	return file, nil
}

// ListOwned returns all records of one owner, newest first, projected to
// the listing summary. The storage locator never leaves this package.
func ListOwned(ctx context.Context, ownerID uint64) ([]dto.FileSummary, error) {
	if cached, ok := utils.GetOwnedFilesFromCache(ctx, ownerID); ok {
		return cached, nil
	}

	var files []model.File
	if err := repo.Db.
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&files).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	summaries := make([]dto.FileSummary, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, dto.FileSummary{
			StoredName:   f.StoredName,
			OriginalName: f.OriginalName,
			SizeBytes:    f.Size,
			UploadedAt:   f.UploadedAt,
			ContentType:  f.ContentType,
		})
	}

	// A list that read the database before a concurrent delete can write
	// its stale result after that delete's invalidation; the cache entry
	// TTL bounds how long such a listing survives.
	if err := utils.SetOwnedFilesToCache(ctx, ownerID, summaries); err != nil {
		log.Printf("cache owned files for %d failed: %v", ownerID, err)
	}
	return summaries, nil
}

// DeleteOwned removes a record and its blob. The lookup is scoped by
// owner and id in one query, so a foreign record is indistinguishable
// from a missing one. The blob goes first; if storage refuses, removal
// is deferred to the cleanup queue before the record disappears.
func DeleteOwned(ctx context.Context, ownerID, fileID uint64) error {
	var file model.File
	err := repo.Db.
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	if err := storage.Default.RemoveObject(ctx, file.BucketName, file.ObjectName); err != nil && !storage.IsNotFound(err) {
		if qErr := task.EnqueueBlobCleanup(ctx, file.BucketName, file.ObjectName); qErr != nil {
			log.Printf("remove blob %s failed: %v (cleanup enqueue also failed: %v)", file.ObjectName, err, qErr)
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	res := repo.Db.
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		Delete(&model.File{})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrMetadata, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	if err := utils.InvalidateOwnedFilesCache(ctx, ownerID); err != nil {
		log.Printf("invalidate owned files cache for %d failed: %v", ownerID, err)
	}
	return nil
}
