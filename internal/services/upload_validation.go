package services

import (
	"fmt"

	"mediavault_backend/internal/models"
	"mediavault_backend/pkg/apperrors"
)

// ValidateUpload проверяет файл до записи в хранилище.
// Порядок важен: сначала размер, затем соответствие типа содержимого.
func ValidateUpload(fileType models.FileType, contentType string, size, maxSize int64) error {
	if size > maxSize {
		return apperrors.ErrFileTooLarge.WithDetails(map[string]string{
			"file": fmt.Sprintf("File is too large. Please choose a file of %dMB or less.", maxSize/(1024*1024)),
		})
	}
	if !fileType.Matches(contentType) {
		return apperrors.ErrInvalidFileType.WithDetails(map[string]string{
			"file": fmt.Sprintf("Selected file type is %s, but the uploaded content is %q.", fileType, contentType),
		})
	}
	return nil
}
