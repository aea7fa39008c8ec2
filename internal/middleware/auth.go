package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/models"
	"mediavault_backend/pkg/apperrors"
	"mediavault_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionAuthenticator - то, что умеет превратить токен сессии в пользователя
type SessionAuthenticator interface {
	Authenticate(db *gorm.DB, token string) (*models.User, error)
}

// SessionMiddleware - определяет пользователя по cookie сессии или заголовку Bearer.
// Невалидная сессия не прерывает запрос: он просто идёт дальше как анонимный.
func SessionMiddleware(authenticator SessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			logger.CtxError(c.Request.Context(), "Session middleware registered before DBMiddleware")
			c.Next()
			return
		}

		user, err := authenticator.Authenticate(db.(*gorm.DB), token)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "Session rejected", "error", err)
			c.Next()
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.UserKey, user)
		c.Set(contextkeys.IsStaffKey, user.CanAdminister())
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// LoginRequired - анонимного пользователя отправляет на страницу входа с ?next=
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}

		target := loginURL + "?" + url.Values{"next": {c.Request.URL.RequestURI()}}.Encode()
		logger.CtxDebug(c.Request.Context(), "Anonymous request redirected to login", "path", c.Request.URL.Path)
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// StaffOnly - доступ только для активных staff/superuser. Ставится после LoginRequired.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.CanAdminister() {
			logger.CtxWarn(c.Request.Context(), "Staff-only route denied", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// CurrentUser возвращает пользователя, которого определил SessionMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(contextkeys.UserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok && user != nil
}

// GetUserID извлекает ID пользователя из контекста (0 - аноним)
func GetUserID(c *gin.Context) uint {
	return c.GetUint(contextkeys.UserIDKey)
}
