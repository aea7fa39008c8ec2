package dto

import (
	"mime/multipart"
	"time"

	"mediavault_backend/internal/models"
)

// MediaUploadRequest - multipart-форма загрузки медиафайла
type MediaUploadRequest struct {
	UserID      uint                  `json:"-" form:"-"` // Из контекста
	ProjectID   *uint                 `json:"-" form:"-"` // Из пути или поля project
	Title       string                `form:"title" validate:"required,max=200"`
	Description string                `form:"description" validate:"max=5000"`
	FileType    models.FileType       `form:"file_type" validate:"required,is-media-type"`
	Duration    *float64              `form:"duration" validate:"omitempty,gte=0"`
	Project     *uint                 `form:"project"`
	File        *multipart.FileHeader `json:"-" form:"-"` // Сам файл (не биндится из формы)
}

type MediaRenameRequest struct {
	Title string `json:"title" form:"title" validate:"required,max=200"`
}

type MediaFileResponse struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	FileType     models.FileType `json:"file_type"`
	FileName     string          `json:"file_name"`
	URL          string          `json:"url"`
	FileSize     int64           `json:"file_size"`
	Duration     *float64        `json:"duration"`
	ProjectID    *uint           `json:"project_id"`
	OriginalName string          `json:"original_name,omitempty"`
	DetectedType string          `json:"detected_type,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewMediaFileResponse(m *models.MediaFile, url string) MediaFileResponse {
	meta := m.Metadata.Data()
	return MediaFileResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		FileType:     m.FileType,
		FileName:     m.FileName(),
		URL:          url,
		FileSize:     m.FileSize,
		Duration:     m.Duration,
		ProjectID:    m.ProjectID,
		OriginalName: meta.OriginalName,
		DetectedType: meta.DetectedType,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type MediaDeleteResult struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
