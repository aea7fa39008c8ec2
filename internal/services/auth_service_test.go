package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"mediavault_backend/internal/auth"
	"mediavault_backend/internal/email"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/repositories"
	"mediavault_backend/internal/services/dto"
	"mediavault_backend/internal/testutil"
	"mediavault_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db     *gorm.DB
	svc    AuthService
	tokens *auth.ActivationTokens
	mailer *mockEmailProvider
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens := auth.NewActivationTokens("test-secret", time.Hour)
	mailer := new(mockEmailProvider)
	return &authFixture{
		db:     testutil.NewTestDB(t),
		tokens: tokens,
		mailer: mailer,
		svc: NewAuthService(
			repositories.NewUserRepository(),
			auth.NewSessionManager("test-secret", time.Hour),
			tokens,
			mailer,
			nil,
			AuthConfig{FrontendURL: "http://localhost:8000/", SiteName: "MediaVault"},
		),
	}
}

func signupRequest(username, emailAddr string) *dto.SignupRequest {
	return &dto.SignupRequest{
		Username:  username,
		Email:     emailAddr,
		Password1: "correct-horse-battery",
		Password2: "correct-horse-battery",
	}
}

func TestSignup_CreatesInactiveUserAndSendsActivationEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.mailer.On("SendTemplate",
		mock.MatchedBy(func(e *email.Email) bool {
			return len(e.To) == 1 && e.To[0] == "alice@example.com" &&
				strings.Contains(e.Body, "http://localhost:8000/accounts/activate/")
		}),
		email.TemplateActivation,
		mock.Anything,
	).Return(nil).Once()

	res, err := f.svc.Signup(ctx, f.db, signupRequest("alice", "alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.False(t, res.User.IsActive)

	var stored models.User
	require.NoError(t, f.db.Where("username = ?", "alice").First(&stored).Error)
	assert.False(t, stored.IsActive)
	assert.NotEqual(t, "correct-horse-battery", stored.PasswordHash)
	f.mailer.AssertExpectations(t)
}

func TestSignup_EmailFailureDoesNotFailRegistration(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.On("SendTemplate", mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	_, err := f.svc.Signup(context.Background(), f.db, signupRequest("alice", "alice@example.com"))
	require.NoError(t, err)
	f.mailer.AssertExpectations(t)
}

func TestSignup_RejectsDuplicates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "alice", "whatever-pass")

	_, err := f.svc.Signup(ctx, f.db, signupRequest("alice", "new@example.com"))
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	_, err = f.svc.Signup(ctx, f.db, signupRequest("ALICE", "new@example.com"))
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	_, err = f.svc.Signup(ctx, f.db, signupRequest("bob", "alice@example.com"))
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Details, "email")

	_, err = f.svc.Signup(ctx, f.db, signupRequest("alice", "alice@example.com"))
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	details := appErr.Details.(map[string]string)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")

	f.mailer.AssertNotCalled(t, "SendTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_PasswordRules(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	req := signupRequest("alice", "alice@example.com")
	req.Password2 = "something-else"
	_, err := f.svc.Signup(ctx, f.db, req)
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)

	req = signupRequest("alice", "alice@example.com")
	req.Password1, req.Password2 = "12345678", "12345678"
	_, err = f.svc.Signup(ctx, f.db, req)
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	var count int64
	f.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestActivate_SucceedsOnlyOnce(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.mailer.On("SendTemplate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Signup(ctx, f.db, signupRequest("alice", "alice@example.com"))
	require.NoError(t, err)

	var user models.User
	require.NoError(t, f.db.Where("username = ?", "alice").First(&user).Error)
	token, err := f.tokens.Make(&user)
	require.NoError(t, err)
	uid := auth.EncodeUID(user.ID)

	res, err := f.svc.Activate(ctx, f.db, uid, token)
	require.NoError(t, err)
	assert.True(t, res.Activated)

	require.NoError(t, f.db.First(&user, user.ID).Error)
	assert.True(t, user.IsActive)

	_, err = f.svc.Activate(ctx, f.db, uid, token)
	assert.ErrorIs(t, err, apperrors.ErrActivationFailed)
}

func TestActivate_GenericFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice", "whatever-pass")
	other := testutil.CreateUser(t, f.db, "bob", "whatever-pass")
	token, err := f.tokens.Make(user)
	require.NoError(t, err)

	cases := map[string][2]string{
		"bad uid encoding": {"%%%", token},
		"unknown user":     {auth.EncodeUID(9999), token},
		"bad token":        {auth.EncodeUID(user.ID), "garbage"},
		"foreign token":    {auth.EncodeUID(other.ID), token},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Activate(ctx, f.db, c[0], c[1])
			assert.ErrorIs(t, err, apperrors.ErrActivationFailed)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice", "correct-horse")

	_, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, f.db, &dto.LoginRequest{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	res, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NotNil(t, res.User.LastLogin)

	authenticated, err := f.svc.Authenticate(f.db, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = f.svc.Authenticate(f.db, "bogus")
	assert.Error(t, err)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	user := testutil.CreateUser(t, f.db, "alice", "correct-horse")
	require.NoError(t, f.db.Model(user).Update("is_active", false).Error)

	_, err := f.svc.Login(context.Background(), f.db, &dto.LoginRequest{Username: "alice", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrUserInactive)
}

func TestLogout_RevokesIssuedSessions(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice", "correct-horse")
	login := &dto.LoginRequest{Username: "alice", Password: "correct-horse"}

	first, err := f.svc.Login(ctx, f.db, login)
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, f.db, login)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, f.db, user.ID))

	for _, token := range []string{first.Token, second.Token} {
		_, err = f.svc.Authenticate(f.db, token)
		assert.Error(t, err)
	}

	fresh, err := f.svc.Login(ctx, f.db, login)
	require.NoError(t, err)
	authenticated, err := f.svc.Authenticate(f.db, fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	assert.ErrorIs(t, f.svc.Logout(ctx, f.db, 9999), apperrors.ErrUserNotFound)
}
