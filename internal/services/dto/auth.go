package dto

import (
	"time"

	"mediavault_backend/internal/models"
)

// SignupRequest - форма регистрации
type SignupRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=150,username"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Password1 string `json:"password1" form:"password1" validate:"required"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
}

// LoginRequest - форма входа. Next - куда вернуть пользователя после входа.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

// LoginResult - сессия, выданная после успешного входа
type LoginResult struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// SignupResult - ответ после регистрации
type SignupResult struct {
	User    UserDTO `json:"user"`
	Message string  `json:"message"`
}

// ActivationResult - ответ на переход по ссылке активации
type ActivationResult struct {
	Activated bool   `json:"activated"`
	Message   string `json:"message"`
}

// UserDTO - базовая информация о пользователе
type UserDTO struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	DateJoined  time.Time  `json:"date_joined"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		LastLogin:   u.LastLogin,
		DateJoined:  u.DateJoined,
	}
}

// UserDeleteResult - итог удаления пользователя администратором
type UserDeleteResult struct {
	Username          string `json:"username"`
	RemovedProjects   int64  `json:"removed_projects"`
	RemovedMediaFiles int64  `json:"removed_media_files"`
	Message           string `json:"message"`
}
