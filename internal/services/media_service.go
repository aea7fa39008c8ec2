package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/metrics"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/repositories"
	"mediavault_backend/internal/services/dto"
	"mediavault_backend/internal/storage"
	"mediavault_backend/internal/types"
	"mediavault_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaService interface {
	Upload(ctx context.Context, db *gorm.DB, req *dto.MediaUploadRequest) (*dto.MediaFileResponse, error)
	List(ctx context.Context, db *gorm.DB, userID uint, projectID *uint, page int) (*dto.PageResponse[dto.MediaFileResponse], error)
	Get(ctx context.Context, db *gorm.DB, userID, mediaID uint) (*dto.MediaFileResponse, error)
	Rename(ctx context.Context, db *gorm.DB, userID, mediaID uint, req *dto.MediaRenameRequest) (*dto.MediaFileResponse, error)
	Delete(ctx context.Context, db *gorm.DB, userID, mediaID uint) (*dto.MediaDeleteResult, error)
	GetUserStorageUsage(db *gorm.DB, userID uint) (int64, error)
}

type MediaConfig struct {
	MaxFileSize int64
	PageSize    int
}

type mediaService struct {
	mediaRepo   repositories.MediaFileRepository
	projectRepo repositories.ProjectRepository
	storage     storage.Storage
	namer       *storage.Namer
	cleaner     *fileCleaner
	metrics     *metrics.Collector
	config      MediaConfig
}

func NewMediaService(
	mediaRepo repositories.MediaFileRepository,
	projectRepo repositories.ProjectRepository,
	storage storage.Storage,
	namer *storage.Namer,
	metrics *metrics.Collector,
	config MediaConfig,
) MediaService {
	return &mediaService{
		mediaRepo:   mediaRepo,
		projectRepo: projectRepo,
		storage:     storage,
		namer:       namer,
		cleaner:     newFileCleaner(storage, metrics),
		metrics:     metrics,
		config:      config,
	}
}

func (s *mediaService) Upload(ctx context.Context, db *gorm.DB, req *dto.MediaUploadRequest) (*dto.MediaFileResponse, error) {
	if req.File == nil {
		return nil, apperrors.ErrFileRequired.WithDetails(map[string]string{"file": "This field is required."})
	}

	contentType := req.File.Header.Get("Content-Type")
	if err := ValidateUpload(req.FileType, contentType, req.File.Size, s.config.MaxFileSize); err != nil {
		reason := "invalid_type"
		if errors.Is(err, apperrors.ErrFileTooLarge) {
			reason = "too_large"
		}
		s.metrics.UploadRejected(string(req.FileType), reason)
		logger.CtxWarn(ctx, "Upload rejected", "reason", reason, "size", req.File.Size, "content_type", contentType)
		return nil, err
	}

	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindByIDForOwner(db, *req.ProjectID, req.UserID); err != nil {
			return nil, handleProjectError(err)
		}
	}

	src, err := req.File.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	detected := detectContentType(ctx, src)

	dir := models.MediaDir(req.UserID, req.ProjectID)
	relPath := path.Join(dir, s.namer.Name(ctx, dir, req.File.Filename))

	media := &models.MediaFile{
		UserID:      req.UserID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		FileType:    req.FileType,
		File:        relPath,
		FileSize:    req.File.Size,
		Duration:    req.Duration,
		Metadata: datatypes.NewJSONType(models.MediaMetadata{
			OriginalName: storage.BaseName(req.File.Filename),
			DeclaredType: contentType,
			DetectedType: detected,
		}),
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.mediaRepo.Create(tx, media); err != nil {
		return nil, apperrors.InternalError(err)
	}

	written, err := s.storage.Save(ctx, relPath, src, contentType)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}
	if err := s.verifyStored(ctx, relPath, written); err != nil {
		s.cleaner.Remove(ctx, []models.MediaFile{*media})
		return nil, apperrors.InternalError(err)
	}
	if written != media.FileSize {
		media.FileSize = written
		if err := tx.Model(media).Update("file_size", written).Error; err != nil {
			s.cleaner.Remove(ctx, []models.MediaFile{*media})
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		// Запись не сохранилась - файл на диске никому не принадлежит
		s.cleaner.Remove(ctx, []models.MediaFile{*media})
		return nil, apperrors.InternalError(err)
	}

	s.metrics.UploadAccepted(string(media.FileType), written)
	logger.CtxInfo(ctx, "Media file uploaded", "media_id", media.ID, "path", relPath, "size", written)

	resp := s.toResponse(ctx, media)
	return &resp, nil
}

func (s *mediaService) List(ctx context.Context, db *gorm.DB, userID uint, projectID *uint, page int) (*dto.PageResponse[dto.MediaFileResponse], error) {
	pagination := types.NewPagination(page, s.config.PageSize)

	if projectID != nil {
		if _, err := s.projectRepo.FindByIDForOwner(db, *projectID, userID); err != nil {
			return nil, handleProjectError(err)
		}
	}

	files, total, err := s.mediaRepo.List(db, repositories.MediaFileFilter{
		UserID:    userID,
		ProjectID: projectID,
	}, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := checkPageInRange(pagination, total); err != nil {
		return nil, err
	}

	items := make([]dto.MediaFileResponse, 0, len(files))
	for i := range files {
		items = append(items, s.toResponse(ctx, &files[i]))
	}
	return dto.NewPageResponse(items, pagination, total), nil
}

func (s *mediaService) Get(ctx context.Context, db *gorm.DB, userID, mediaID uint) (*dto.MediaFileResponse, error) {
	media, err := s.mediaRepo.FindByIDForUser(db, mediaID, userID)
	if err != nil {
		return nil, handleMediaError(err)
	}
	resp := s.toResponse(ctx, media)
	return &resp, nil
}

func (s *mediaService) Rename(ctx context.Context, db *gorm.DB, userID, mediaID uint, req *dto.MediaRenameRequest) (*dto.MediaFileResponse, error) {
	media, err := s.mediaRepo.FindByIDForUser(db, mediaID, userID)
	if err != nil {
		return nil, handleMediaError(err)
	}

	if err := s.mediaRepo.UpdateTitle(db, media, req.Title); err != nil {
		return nil, apperrors.InternalError(err)
	}
	media.Title = req.Title

	resp := s.toResponse(ctx, media)
	return &resp, nil
}

// Delete удаляет запись, затем файл и опустевший каталог.
func (s *mediaService) Delete(ctx context.Context, db *gorm.DB, userID, mediaID uint) (*dto.MediaDeleteResult, error) {
	media, err := s.mediaRepo.FindByIDForUser(db, mediaID, userID)
	if err != nil {
		return nil, handleMediaError(err)
	}

	if err := s.mediaRepo.Delete(db, media.ID); err != nil {
		return nil, handleMediaError(err)
	}
	s.metrics.MediaDeleted(1)

	s.cleaner.Remove(ctx, []models.MediaFile{*media})

	return &dto.MediaDeleteResult{
		ID:      media.ID,
		Title:   media.Title,
		Message: fmt.Sprintf("Media file %q was deleted.", media.Title),
	}, nil
}

func (s *mediaService) GetUserStorageUsage(db *gorm.DB, userID uint) (int64, error) {
	used, err := s.mediaRepo.GetUserStorageUsage(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return used, nil
}

func (s *mediaService) toResponse(ctx context.Context, media *models.MediaFile) dto.MediaFileResponse {
	url, err := s.storage.GetURL(ctx, media.File)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to build media URL", "media_id", media.ID, "error", err)
	}
	return dto.NewMediaFileResponse(media, url)
}

// verifyStored сверяет размер файла в хранилище с числом записанных байт.
func (s *mediaService) verifyStored(ctx context.Context, relPath string, written int64) error {
	stored, err := s.storage.GetSize(ctx, relPath)
	if err != nil {
		return fmt.Errorf("failed to stat stored file: %w", err)
	}
	if stored != written {
		return fmt.Errorf("stored file size mismatch: wrote %d bytes, found %d", written, stored)
	}
	return nil
}

// detectContentType определяет тип по содержимому и возвращает reader в начало.
// Определённый тип только записывается в метаданные, проверка идёт по заявленному.
func detectContentType(ctx context.Context, src io.ReadSeeker) string {
	mtype, err := mimetype.DetectReader(src)
	if _, seekErr := src.Seek(0, io.SeekStart); seekErr != nil {
		logger.CtxWarn(ctx, "Failed to rewind uploaded file", "error", seekErr)
	}
	if err != nil {
		logger.CtxDebug(ctx, "Content type detection failed", "error", err)
		return ""
	}
	return mtype.String()
}

func handleMediaError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrMediaFileNotFound
	}
	return apperrors.InternalError(err)
}

func handleProjectError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrProjectNotFound
	}
	return apperrors.InternalError(err)
}

// checkPageInRange - страница за пределами списка считается несуществующей.
func checkPageInRange(p types.Pagination, total int64) error {
	if p.Page > p.TotalPages(total) {
		return apperrors.NewNotFoundError("pagination", "Invalid page")
	}
	return nil
}
