package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/metrics"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/repositories"
	"mediavault_backend/internal/services/dto"
	"mediavault_backend/internal/storage"
	"mediavault_backend/internal/types"
	"mediavault_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProjectService interface {
	List(db *gorm.DB, ownerID uint, page int) (*dto.PageResponse[dto.ProjectResponse], error)
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.ProjectCreateRequest) (*dto.ProjectResponse, error)
	Get(db *gorm.DB, ownerID, projectID uint) (*dto.ProjectResponse, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, projectID uint, req *dto.ProjectUpdateRequest) (*dto.ProjectResponse, error)
	// Delete удаляет проект вместе со всеми его медиафайлами
	Delete(ctx context.Context, db *gorm.DB, ownerID, projectID uint) (*dto.ProjectDeleteResult, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	mediaRepo   repositories.MediaFileRepository
	cleaner     *fileCleaner
	metrics     *metrics.Collector
	pageSize    int
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	mediaRepo repositories.MediaFileRepository,
	storage storage.Storage,
	metrics *metrics.Collector,
	pageSize int,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		mediaRepo:   mediaRepo,
		cleaner:     newFileCleaner(storage, metrics),
		metrics:     metrics,
		pageSize:    pageSize,
	}
}

func (s *projectService) List(db *gorm.DB, ownerID uint, page int) (*dto.PageResponse[dto.ProjectResponse], error) {
	pagination := types.NewPagination(page, s.pageSize)

	projects, total, err := s.projectRepo.ListByOwner(db, ownerID, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := checkPageInRange(pagination, total); err != nil {
		return nil, err
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, dto.ProjectResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			MediaCount:  p.MediaCount,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return dto.NewPageResponse(items, pagination, total), nil
}

func (s *projectService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.ProjectCreateRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "This field is required"})
	}

	if err := s.ensureNameFree(db, ownerID, name); err != nil {
		return nil, err
	}

	project := &models.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: req.Description,
	}
	if err := s.projectRepo.Create(db, project); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, projectNameTaken()
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Project created", "project_id", project.ID, "name", project.Name)
	resp := dto.NewProjectResponse(project, 0)
	return &resp, nil
}

func (s *projectService) Get(db *gorm.DB, ownerID, projectID uint) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByIDForOwner(db, projectID, ownerID)
	if err != nil {
		return nil, handleProjectError(err)
	}

	count, err := s.projectRepo.CountMedia(db, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewProjectResponse(project, count)
	return &resp, nil
}

func (s *projectService) Update(ctx context.Context, db *gorm.DB, ownerID, projectID uint, req *dto.ProjectUpdateRequest) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByIDForOwner(db, projectID, ownerID)
	if err != nil {
		return nil, handleProjectError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError(map[string]string{"name": "This field is required"})
		}
		if name != project.Name {
			if err := s.ensureNameFree(db, ownerID, name); err != nil {
				return nil, err
			}
			project.Name = name
		}
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := s.projectRepo.Update(db, project); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, projectNameTaken()
		}
		return nil, apperrors.InternalError(err)
	}

	count, err := s.projectRepo.CountMedia(db, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Project updated", "project_id", project.ID)
	resp := dto.NewProjectResponse(project, count)
	return &resp, nil
}

// Delete: записи удаляются в одной транзакции, файлы - только после коммита.
func (s *projectService) Delete(ctx context.Context, db *gorm.DB, ownerID, projectID uint) (*dto.ProjectDeleteResult, error) {
	project, err := s.projectRepo.FindByIDForOwner(db, projectID, ownerID)
	if err != nil {
		return nil, handleProjectError(err)
	}

	var (
		files   []models.MediaFile
		removed int64
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		if files, err = s.mediaRepo.FindByProject(tx, project.ID); err != nil {
			return err
		}
		if removed, err = s.mediaRepo.DeleteByProject(tx, project.ID); err != nil {
			return err
		}
		return s.projectRepo.Delete(tx, project.ID)
	})
	if err != nil {
		return nil, handleProjectError(err)
	}

	s.metrics.MediaDeleted(removed)
	s.cleaner.Remove(ctx, files)

	logger.CtxInfo(ctx, "Project deleted", "project_id", project.ID, "removed_media_files", removed)
	return &dto.ProjectDeleteResult{
		ProjectName:       project.Name,
		RemovedMediaFiles: removed,
		Message:           fmt.Sprintf("Project %q and %d media file(s) were deleted.", project.Name, removed),
	}, nil
}

func (s *projectService) ensureNameFree(db *gorm.DB, ownerID uint, name string) error {
	exists, err := s.projectRepo.ExistsByName(db, ownerID, name)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exists {
		return projectNameTaken()
	}
	return nil
}

func projectNameTaken() error {
	return apperrors.ErrProjectNameTaken.WithDetails(map[string]string{
		"name": "You already have a project with this name.",
	})
}
