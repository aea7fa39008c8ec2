package services

import (
	"testing"

	"mediavault_backend/internal/models"
	"mediavault_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

const maxSize = 100 * 1024 * 1024

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		fileType    models.FileType
		contentType string
		size        int64
		wantErr     error
	}{
		{"audio ok", models.FileTypeAudio, "audio/mpeg", 1024, nil},
		{"video ok", models.FileTypeVideo, "video/mp4", maxSize, nil},
		{"content type case", models.FileTypeVideo, "Video/MP4", 10, nil},
		{"too large audio", models.FileTypeAudio, "audio/mpeg", maxSize + 1, apperrors.ErrFileTooLarge},
		{"too large wins over mismatch", models.FileTypeAudio, "image/png", maxSize + 1, apperrors.ErrFileTooLarge},
		{"audio declared, video sent", models.FileTypeAudio, "video/mp4", 10, apperrors.ErrInvalidFileType},
		{"video declared, audio sent", models.FileTypeVideo, "audio/ogg", 10, apperrors.ErrInvalidFileType},
		{"missing content type", models.FileTypeVideo, "", 10, apperrors.ErrInvalidFileType},
		{"prefix must include slash", models.FileTypeAudio, "audiox/mpeg", 10, apperrors.ErrInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.fileType, tt.contentType, tt.size, maxSize)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
