package repositories

import (
	"time"

	"mediavault_backend/internal/models"
	"mediavault_backend/internal/types"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	ExistsByUsername(db *gorm.DB, username string) (bool, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	Activate(db *gorm.DB, id uint) error
	UpdateLastLogin(db *gorm.DB, id uint, at time.Time) error
	BumpSessionVersion(db *gorm.DB, id uint) error
	Delete(db *gorm.DB, id uint) error

	// Admin operations
	FindAll(db *gorm.DB, page types.Pagination) ([]models.User, int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	return translateError(db.Create(user).Error)
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ExistsByUsername(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) Activate(db *gorm.DB, id uint) error {
	result := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(db *gorm.DB, id uint, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *UserRepositoryImpl) BumpSessionVersion(db *gorm.DB, id uint) error {
	result := db.Model(&models.User{}).Where("id = ?", id).
		Update("session_version", gorm.Expr("session_version + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindAll(db *gorm.DB, page types.Pagination) ([]models.User, int64, error) {
	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := db.Order("date_joined DESC, id DESC").
		Limit(page.PageSize).Offset(page.Offset()).
		Find(&users).Error
	return users, total, err
}
