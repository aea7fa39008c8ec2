package repositories

import (
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/types"

	"gorm.io/gorm"
)

type MediaFileFilter struct {
	UserID    uint
	ProjectID *uint
}

type MediaFileRepository interface {
	Create(db *gorm.DB, media *models.MediaFile) error
	FindByIDForUser(db *gorm.DB, id, userID uint) (*models.MediaFile, error)
	List(db *gorm.DB, filter MediaFileFilter, page types.Pagination) ([]models.MediaFile, int64, error)
	FindByProject(db *gorm.DB, projectID uint) ([]models.MediaFile, error)
	FindByUser(db *gorm.DB, userID uint) ([]models.MediaFile, error)
	UpdateTitle(db *gorm.DB, media *models.MediaFile, title string) error
	Delete(db *gorm.DB, id uint) error
	DeleteByProject(db *gorm.DB, projectID uint) (int64, error)
	DeleteByUser(db *gorm.DB, userID uint) (int64, error)
	GetUserStorageUsage(db *gorm.DB, userID uint) (int64, error)
}

type MediaFileRepositoryImpl struct{}

func NewMediaFileRepository() MediaFileRepository {
	return &MediaFileRepositoryImpl{}
}

func (r *MediaFileRepositoryImpl) Create(db *gorm.DB, media *models.MediaFile) error {
	return translateError(db.Create(media).Error)
}

func (r *MediaFileRepositoryImpl) FindByIDForUser(db *gorm.DB, id, userID uint) (*models.MediaFile, error) {
	var media models.MediaFile
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&media).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &media, nil
}

// List - файлы пользователя от новых к старым, опционально в пределах проекта.
func (r *MediaFileRepositoryImpl) List(db *gorm.DB, filter MediaFileFilter, page types.Pagination) ([]models.MediaFile, int64, error) {
	query := db.Model(&models.MediaFile{}).Where("user_id = ?", filter.UserID)
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []models.MediaFile
	err := query.Order("created_at DESC, id DESC").
		Limit(page.PageSize).Offset(page.Offset()).
		Find(&files).Error
	return files, total, err
}

func (r *MediaFileRepositoryImpl) FindByProject(db *gorm.DB, projectID uint) ([]models.MediaFile, error) {
	var files []models.MediaFile
	err := db.Where("project_id = ?", projectID).Find(&files).Error
	return files, err
}

func (r *MediaFileRepositoryImpl) FindByUser(db *gorm.DB, userID uint) ([]models.MediaFile, error) {
	var files []models.MediaFile
	err := db.Where("user_id = ?", userID).Find(&files).Error
	return files, err
}

func (r *MediaFileRepositoryImpl) UpdateTitle(db *gorm.DB, media *models.MediaFile, title string) error {
	return db.Model(media).Update("title", title).Error
}

func (r *MediaFileRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.MediaFile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MediaFileRepositoryImpl) DeleteByProject(db *gorm.DB, projectID uint) (int64, error) {
	result := db.Where("project_id = ?", projectID).Delete(&models.MediaFile{})
	return result.RowsAffected, result.Error
}

func (r *MediaFileRepositoryImpl) DeleteByUser(db *gorm.DB, userID uint) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&models.MediaFile{})
	return result.RowsAffected, result.Error
}

func (r *MediaFileRepositoryImpl) GetUserStorageUsage(db *gorm.DB, userID uint) (int64, error) {
	var total int64
	err := db.Model(&models.MediaFile{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	return total, err
}
