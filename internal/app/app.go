package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediavault_backend/internal/auth"
	"mediavault_backend/internal/config"
	"mediavault_backend/internal/database"
	"mediavault_backend/internal/email"
	"mediavault_backend/internal/handlers"
	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/metrics"
	"mediavault_backend/internal/middleware"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/repositories"
	"mediavault_backend/internal/routes"
	"mediavault_backend/internal/services"
	"mediavault_backend/internal/storage"
	"mediavault_backend/internal/validator"
	"mediavault_backend/pkg/apperrors"

	_ "mediavault_backend/docs"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 15 * time.Second
	// Всё, что больше, gin сбрасывает во временные файлы
	multipartMemory = 8 << 20
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg.Database, cfg.Server.Env)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа (проблемы с БД и т.д.) - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	emailProvider, err := NewEmailProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize email provider", "error", err)
	}
	defer emailProvider.Close()

	ginRouter, err := SetupRouter(cfg, gormDB, emailProvider)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := serve(ctx, ginRouter, address); err != nil {
		logger.Fatal("Server error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// serve запускает HTTP сервер и корректно останавливает его при отмене ctx
func serve(ctx context.Context, handler http.Handler, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// NewEmailProvider - SMTP, если он включён в конфиге, иначе письма только пишутся в лог
func NewEmailProvider(cfg *config.Config) (email.Provider, error) {
	templates, err := email.NewTemplateManager()
	if err != nil {
		return nil, err
	}
	if cfg.Email.TemplatesDir != "" {
		if err := templates.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			return nil, err
		}
	}

	if !cfg.Email.Enabled {
		logger.Warn("Email delivery disabled, messages are written to the log")
		return email.NewLogProvider(templates), nil
	}

	provider := email.NewSMTPProvider(email.NewSMTPConfig(cfg.Email), templates)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	return provider, nil
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, emailProvider email.Provider) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: cfg.Media.Root,
		BaseURL:  "/media",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "root", cfg.Media.Root)

	collector, err := metrics.NewCollector()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, storageInstance, collector, emailProvider)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(gormDB, serviceContainer.AuthService, cfg, collector)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, collector)

	return ginRouter, nil
}

func initializeServices(
	cfg *config.Config,
	storageInstance storage.Storage,
	collector *metrics.Collector,
	emailProvider email.Provider,
) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	mediaRepo := repositories.NewMediaFileRepository()

	// --- Токены ---
	sessions := auth.NewSessionManager(cfg.Session.Secret, cfg.SessionTTL())
	activation := auth.NewActivationTokens(cfg.Session.Secret, cfg.ActivationTTL())

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, sessions, activation, emailProvider, collector, services.AuthConfig{
		FrontendURL: cfg.App.FrontendURL,
		SiteName:    cfg.App.SiteName,
	})
	mediaService := services.NewMediaService(mediaRepo, projectRepo, storageInstance, storage.NewNamer(storageInstance), collector, services.MediaConfig{
		MaxFileSize: cfg.Media.MaxUploadSize,
		PageSize:    cfg.Media.PageSize,
	})
	projectService := services.NewProjectService(projectRepo, mediaRepo, storageInstance, collector, cfg.Media.PageSize)
	userService := services.NewUserService(userRepo, projectRepo, mediaRepo, storageInstance, collector, cfg.Media.PageSize)

	return &services.ServiceContainer{
		AuthService:    authService,
		UserService:    userService,
		ProjectService: projectService,
		MediaService:   mediaService,
		EmailService:   emailProvider,
		Storage:        storageInstance,
	}
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, services.AuthService, handlers.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		}),
		UserHandler:    handlers.NewUserHandler(baseHandler, services.UserService),
		ProjectHandler: handlers.NewProjectHandler(baseHandler, services.ProjectService, services.MediaService),
		MediaHandler:   handlers.NewMediaHandler(baseHandler, services.MediaService),
		FileHandler:    handlers.NewFileHandler(baseHandler, services.Storage, cfg.Media.InternalPrefix),
		HealthHandler:  handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB, authService services.AuthService, cfg *config.Config, collector *metrics.Collector) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = multipartMemory
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(collector.Middleware())
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.SessionMiddleware(authService, cfg.Session.CookieName))
	return router
}

// seedFirstAdmin создаёт суперпользователя из конфига, если его ещё нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	admin := cfg.FirstAdmin
	if admin.Username == "" || admin.Password == "" {
		logger.Warn("FIRST_ADMIN_USERNAME or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	return db.Transaction(func(tx *gorm.DB) error {
		exists, err := userRepo.ExistsByUsername(tx, admin.Username)
		if err != nil {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}
		if exists {
			logger.Info("Admin user already exists. Skipping creation.", "username", admin.Username)
			return nil
		}

		logger.Warn("No admin user found. Creating first admin...", "username", admin.Username)

		hashedPassword, err := auth.HashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		newAdmin := &models.User{
			Username:     admin.Username,
			Email:        admin.Email,
			PasswordHash: hashedPassword,
			IsActive:     true,
			IsStaff:      true,
			IsSuperuser:  true,
			DateJoined:   time.Now().UTC(),
		}
		if err := userRepo.Create(tx, newAdmin); err != nil {
			return fmt.Errorf("failed to create admin user in database: %w", err)
		}

		logger.Info("Successfully created first admin user", "username", admin.Username)
		return nil
	})
}
