package dto

import (
	"time"

	"mediavault_backend/internal/models"
)

type ProjectCreateRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=5000"`
}

type ProjectUpdateRequest struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=5000"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MediaCount  int64     `json:"media_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProjectResponse(p *models.Project, mediaCount int64) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		MediaCount:  mediaCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectDetailResponse - проект и первая страница его медиафайлов
type ProjectDetailResponse struct {
	Project ProjectResponse                  `json:"project"`
	Media   *PageResponse[MediaFileResponse] `json:"media"`
}

// ProjectDeleteResult - подтверждение каскадного удаления
type ProjectDeleteResult struct {
	ProjectName       string `json:"project_name"`
	RemovedMediaFiles int64  `json:"removed_media_files"`
	Message           string `json:"message"`
}
