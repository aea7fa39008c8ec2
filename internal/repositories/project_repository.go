package repositories

import (
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/types"

	"gorm.io/gorm"
)

// ProjectRepository - все выборки ограничены владельцем: чужой проект неотличим от несуществующего.
type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByIDForOwner(db *gorm.DB, id, ownerID uint) (*models.Project, error)
	ExistsByName(db *gorm.DB, ownerID uint, name string) (bool, error)
	ListByOwner(db *gorm.DB, ownerID uint, page types.Pagination) ([]models.ProjectWithCount, int64, error)
	CountMedia(db *gorm.DB, projectID uint) (int64, error)
	Update(db *gorm.DB, project *models.Project) error
	Delete(db *gorm.DB, id uint) error
	DeleteByOwner(db *gorm.DB, ownerID uint) (int64, error)
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	return translateError(db.Create(project).Error)
}

func (r *ProjectRepositoryImpl) FindByIDForOwner(db *gorm.DB, id, ownerID uint) (*models.Project, error) {
	var project models.Project
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) ExistsByName(db *gorm.DB, ownerID uint, name string) (bool, error) {
	var count int64
	err := db.Model(&models.Project{}).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Count(&count).Error
	return count > 0, err
}

// ListByOwner возвращает проекты по убыванию даты создания вместе с числом файлов.
func (r *ProjectRepositoryImpl) ListByOwner(db *gorm.DB, ownerID uint, page types.Pagination) ([]models.ProjectWithCount, int64, error) {
	var total int64
	if err := db.Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.ProjectWithCount
	err := db.Model(&models.Project{}).
		Select("projects.*, (SELECT COUNT(*) FROM media_files WHERE media_files.project_id = projects.id) AS media_count").
		Where("projects.owner_id = ?", ownerID).
		Order("projects.created_at DESC, projects.id DESC").
		Limit(page.PageSize).Offset(page.Offset()).
		Scan(&projects).Error
	return projects, total, err
}

func (r *ProjectRepositoryImpl) CountMedia(db *gorm.DB, projectID uint) (int64, error) {
	var count int64
	err := db.Model(&models.MediaFile{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func (r *ProjectRepositoryImpl) Update(db *gorm.DB, project *models.Project) error {
	return translateError(db.Save(project).Error)
}

func (r *ProjectRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) DeleteByOwner(db *gorm.DB, ownerID uint) (int64, error) {
	result := db.Where("owner_id = ?", ownerID).Delete(&models.Project{})
	return result.RowsAffected, result.Error
}
