package services

import (
	"context"
	"errors"
	"fmt"

	"mediavault_backend/internal/auth"
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

// MeResponse - текущий пользователь и занятое им место
type MeResponse struct {
	User        dto.UserDTO `json:"user"`
	StorageUsed int64       `json:"storage_used"`
}

type UserService interface {
	GetMe(db *gorm.DB, user *models.User) (*MeResponse, error)

	// Admin operations
	ListUsers(db *gorm.DB, page int) (*dto.PageResponse[dto.UserDTO], error)
	DeleteUser(ctx context.Context, db *gorm.DB, actor *models.User, userID uint) (*dto.UserDeleteResult, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	mediaRepo   repositories.MediaFileRepository
	cleaner     *fileCleaner
	metrics     *metrics.Collector
	pageSize    int
}

func NewUserService(
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	mediaRepo repositories.MediaFileRepository,
	storage storage.Storage,
	metrics *metrics.Collector,
	pageSize int,
) UserService {
	return &userService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		mediaRepo:   mediaRepo,
		cleaner:     newFileCleaner(storage, metrics),
		metrics:     metrics,
		pageSize:    pageSize,
	}
}

func (s *userService) GetMe(db *gorm.DB, user *models.User) (*MeResponse, error) {
	used, err := s.mediaRepo.GetUserStorageUsage(db, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &MeResponse{User: dto.NewUserDTO(user), StorageUsed: used}, nil
}

func (s *userService) ListUsers(db *gorm.DB, page int) (*dto.PageResponse[dto.UserDTO], error) {
	pagination := types.NewPagination(page, s.pageSize)

	users, total, err := s.userRepo.FindAll(db, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := checkPageInRange(pagination, total); err != nil {
		return nil, err
	}

	items := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserDTO(&users[i]))
	}
	return dto.NewPageResponse(items, pagination, total), nil
}

// DeleteUser удаляет пользователя, его проекты и медиафайлы; файлы - после коммита.
func (s *userService) DeleteUser(ctx context.Context, db *gorm.DB, actor *models.User, userID uint) (*dto.UserDeleteResult, error) {
	target, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := auth.CanDeleteUser(actor, target); err != nil {
		switch {
		case errors.Is(err, auth.ErrCannotDeleteSelf):
			return nil, apperrors.ErrCannotDeleteSelf
		case errors.Is(err, auth.ErrProtectedAccount):
			return nil, apperrors.ErrProtectedAccount
		default:
			return nil, apperrors.ErrInsufficientPermissions
		}
	}

	var (
		files           []models.MediaFile
		removedMedia    int64
		removedProjects int64
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		if files, err = s.mediaRepo.FindByUser(tx, target.ID); err != nil {
			return err
		}
		if removedMedia, err = s.mediaRepo.DeleteByUser(tx, target.ID); err != nil {
			return err
		}
		if removedProjects, err = s.projectRepo.DeleteByOwner(tx, target.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, target.ID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.metrics.MediaDeleted(removedMedia)
	s.cleaner.Remove(ctx, files)
	s.cleaner.pruneDir(ctx, fmt.Sprintf("user_%d", target.ID))

	logger.CtxInfo(ctx, "User deleted by admin",
		"actor_id", actor.ID,
		"user_id", target.ID,
		"removed_projects", removedProjects,
		"removed_media_files", removedMedia,
	)
	return &dto.UserDeleteResult{
		Username:          target.Username,
		RemovedProjects:   removedProjects,
		RemovedMediaFiles: removedMedia,
		Message: fmt.Sprintf("User %q, %d project(s) and %d media file(s) were deleted.",
			target.Username, removedProjects, removedMedia),
	}, nil
}
