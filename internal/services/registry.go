package services

import (
	"mediavault_backend/internal/email"
	"mediavault_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	ProjectService ProjectService
	MediaService   MediaService
	EmailService   email.Provider
	Storage        storage.Storage
}
