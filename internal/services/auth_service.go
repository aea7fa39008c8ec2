package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediavault_backend/internal/auth"
	"mediavault_backend/internal/email"
	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/metrics"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/repositories"
	"mediavault_backend/internal/services/dto"
	"mediavault_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.SignupResult, error)
	Activate(ctx context.Context, db *gorm.DB, uid, token string) (*dto.ActivationResult, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResult, error)
	// Logout отзывает все выданные пользователю сессии
	Logout(ctx context.Context, db *gorm.DB, userID uint) error
	// Authenticate возвращает активного пользователя по сессионному токену
	Authenticate(db *gorm.DB, token string) (*models.User, error)
	SessionTTL() time.Duration
}

type AuthConfig struct {
	FrontendURL string
	SiteName    string
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	sessions      *auth.SessionManager
	activation    *auth.ActivationTokens
	emailProvider email.Provider
	metrics       *metrics.Collector
	config        AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessions *auth.SessionManager,
	activation *auth.ActivationTokens,
	emailProvider email.Provider,
	metrics *metrics.Collector,
	config AuthConfig,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		sessions:      sessions,
		activation:    activation,
		emailProvider: emailProvider,
		metrics:       metrics,
		config:        config,
	}
}

// Signup создает неактивного пользователя и отправляет ссылку активации.
func (s *AuthServiceImpl) Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.SignupResult, error) {
	username := strings.TrimSpace(req.Username)
	emailAddr := strings.TrimSpace(req.Email)

	if err := s.checkAvailability(db, username, emailAddr); err != nil {
		return nil, err
	}

	if req.Password1 != req.Password2 {
		return nil, apperrors.ErrPasswordMismatch.WithDetails(map[string]string{
			"password2": "The two password fields didn't match.",
		})
	}
	if problems := auth.ValidatePassword(req.Password2, username, emailAddr); len(problems) > 0 {
		msgs := make([]string, 0, len(problems))
		for _, p := range problems {
			msgs = append(msgs, p.Error())
		}
		return nil, apperrors.ErrWeakPassword.WithDetails(map[string]string{
			"password2": strings.Join(msgs, " "),
		})
	}

	hash, err := auth.HashPassword(req.Password1)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: hash,
		IsActive:     false,
		DateJoined:   time.Now().UTC(),
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Гонка между проверкой и вставкой
			if availErr := s.checkAvailability(db, username, emailAddr); availErr != nil {
				return nil, availErr
			}
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.InternalError(err)
	}

	s.metrics.Signup()
	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "username", user.Username)

	s.sendActivationEmail(ctx, user)

	return &dto.SignupResult{
		User:    dto.NewUserDTO(user),
		Message: "Registration received. Please check your email to activate your account.",
	}, nil
}

// Activate активирует пользователя по uid и токену.
// Любая ошибка превращается в одну и ту же ErrActivationFailed.
func (s *AuthServiceImpl) Activate(ctx context.Context, db *gorm.DB, uid, token string) (*dto.ActivationResult, error) {
	fail := func(reason string, args ...any) (*dto.ActivationResult, error) {
		s.metrics.Activation(false)
		logger.CtxWarn(ctx, "Activation failed", append([]any{"reason", reason}, args...)...)
		return nil, apperrors.ErrActivationFailed
	}

	userID, err := auth.DecodeUID(uid)
	if err != nil {
		return fail("bad uid")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail("user not found", "user_id", userID)
		}
		return nil, apperrors.InternalError(err)
	}

	if !s.activation.Check(user, token) {
		return fail("bad token", "user_id", userID)
	}

	if err := s.userRepo.Activate(db, user.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.metrics.Activation(true)
	logger.CtxInfo(ctx, "User activated", "user_id", user.ID)
	return &dto.ActivationResult{
		Activated: true,
		Message:   "Thank you for your email confirmation. Now you can log in to your account.",
	}, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResult, error) {
	user, err := s.userRepo.FindByUsername(db, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.Login(false)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.metrics.Login(false)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.Login(false)
		return nil, apperrors.ErrUserInactive
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(db, user.ID, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.LastLogin = &now

	token, expiresAt, err := s.sessions.Issue(user.ID, user.SessionVersion)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.metrics.Login(true)
	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return &dto.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserDTO(user),
	}, nil
}

func (s *AuthServiceImpl) Authenticate(db *gorm.DB, token string) (*models.User, error) {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid or expired session")
	}

	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid or expired session")
		}
		return nil, apperrors.InternalError(err)
	}
	if claims.Version != user.SessionVersion {
		return nil, apperrors.NewUnauthorizedError("Invalid or expired session")
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	return user, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, db *gorm.DB, userID uint) error {
	if err := s.userRepo.BumpSessionVersion(db, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User sessions revoked", "user_id", userID)
	return nil
}

func (s *AuthServiceImpl) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

// checkAvailability собирает ошибки обоих полей, чтобы форма показала их сразу.
func (s *AuthServiceImpl) checkAvailability(db *gorm.DB, username, emailAddr string) error {
	details := map[string]string{}

	taken, err := s.userRepo.ExistsByUsername(db, username)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if taken {
		details["username"] = "A user with that username already exists."
	}

	taken, err = s.userRepo.ExistsByEmail(db, emailAddr)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if taken {
		details["email"] = "A user with that email already exists."
	}

	switch {
	case details["username"] != "":
		return apperrors.ErrUsernameTaken.WithDetails(details)
	case details["email"] != "":
		return apperrors.ErrEmailTaken.WithDetails(details)
	}
	return nil
}

// ActivationURL строит абсолютную ссылку активации для пользователя.
func (s *AuthServiceImpl) ActivationURL(user *models.User) (string, error) {
	token, err := s.activation.Make(user)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/accounts/activate/%s/%s/",
		strings.TrimRight(s.config.FrontendURL, "/"), auth.EncodeUID(user.ID), token), nil
}

// sendActivationEmail - ошибка отправки не отменяет регистрацию, только логируется.
func (s *AuthServiceImpl) sendActivationEmail(ctx context.Context, user *models.User) {
	if s.emailProvider == nil {
		return
	}

	link, err := s.ActivationURL(user)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to build activation link", err, "user_id", user.ID)
		return
	}

	msg := &email.Email{
		To:      []string{user.Email},
		Subject: "Activate your account.",
		Body: fmt.Sprintf("Hi %s,\n\nPlease click on the link to confirm your registration:\n%s\n",
			user.Username, link),
	}
	data := email.TemplateData{
		"Username":      user.Username,
		"SiteName":      s.config.SiteName,
		"ActivationURL": link,
	}

	if err := s.emailProvider.SendTemplate(msg, email.TemplateActivation, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send activation email", err, "user_id", user.ID)
	}
}
