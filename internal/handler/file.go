package handler

import (
	"CloudStore/config"
	"CloudStore/internal/dto"
	"CloudStore/internal/service"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// multipart framing overhead allowed on top of the file size limit.
const uploadBodySlack = 512 * 1024

// UploadFile handles a single-part multipart upload.
func UploadFile(c *gin.Context) {
	maxBytes := config.AppConfig.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+uploadBodySlack)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	file, err := service.UploadFile(c.Request.Context(), userID, header)
	if err != nil {
		status, msg := uploadErrorResponse(err)
		if status == http.StatusInternalServerError {
			log.Printf("file upload failed for user %d: %v", userID, err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"file": dto.UploadedFile{
			ID:           file.ID,
			OriginalName: file.OriginalName,
			SizeBytes:    file.Size,
			UploadedAt:   file.UploadedAt,
		},
	})
}

// MyFiles lists the caller's files, newest first.
func MyFiles(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	files, err := service.ListOwned(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list files failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// DeleteFile removes one of the caller's files.
func DeleteFile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	fileID, err := strconv.ParseUint(c.Param("fileId"), 10, 64)
	if err != nil {
		// An unparseable id cannot reference any record.
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if err := service.DeleteOwned(c.Request.Context(), userID, fileID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		log.Printf("delete file %d failed for user %d: %v", fileID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted successfully"})
}

func uploadErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return http.StatusBadRequest, "No file uploaded"
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusBadRequest, "File too large"
	case errors.Is(err, service.ErrTypeNotAllowed):
		return http.StatusBadRequest, "File type not allowed"
	default:
		return http.StatusInternalServerError, "File upload failed"
	}
}
