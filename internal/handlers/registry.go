package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	ProjectHandler *ProjectHandler
	MediaHandler   *MediaHandler
	FileHandler    *FileHandler
	HealthHandler  *HealthHandler
}
