package handlers

import (
	"net/http"
	"strings"

	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/middleware"
	"mediavault_backend/internal/services"
	"mediavault_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const (
	LoginURL      = "/accounts/login/"
	SignupDoneURL = "/accounts/signup_done/"
	homeURL       = "/"
)

// SessionCookie - параметры cookie, в которой живёт сессия
type SessionCookie struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cookie      SessionCookie
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cookie:      cookie,
	}
}

// RegisterRoutes регистрирует маршруты /accounts/*, кроме /accounts/me/
func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	accounts := r.Group("/accounts")
	{
		accounts.GET("/login/", h.LoginForm)
		accounts.POST("/login/", h.Login)
		accounts.GET("/logout/", h.Logout)
		accounts.POST("/logout/", h.Logout)
		accounts.GET("/signup/", h.SignupForm)
		accounts.POST("/signup/", h.Signup)
		accounts.GET("/signup_done/", h.SignupDone)
		accounts.GET("/activate/:uid/:token/", h.Activate)
	}
}

// LoginForm godoc
// @Summary Страница входа
// @Description Авторизованного пользователя сразу отправляет на главную
// @Tags accounts
// @Produce json
// @Param next query string false "Куда вернуться после входа"
// @Success 200 {object} map[string]interface{}
// @Success 302 "Уже авторизован"
// @Router /accounts/login/ [get]
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, homeURL)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
		"next":   SafeRedirectTarget(c.Query("next")),
	})
}

// Login godoc
// @Summary Вход
// @Description Проверяет учётные данные, ставит cookie сессии и перенаправляет на next
// @Tags accounts
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param credentials body dto.LoginRequest true "Имя пользователя и пароль"
// @Success 303 "Перенаправление на next или на главную"
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse "Неверные учётные данные"
// @Failure 403 {object} apperrors.ErrorResponse "Аккаунт не активирован"
// @Router /accounts/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusSeeOther, homeURL)
		return
	}

	var req dto.LoginRequest
	if !h.BindAndValidate(c, &req) {
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	result, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.authService.SessionTTL().Seconds()))
	c.Redirect(http.StatusSeeOther, SafeRedirectTarget(req.Next))
}

// Logout godoc
// @Summary Выход
// @Tags accounts
// @Success 302 "Перенаправление на страницу входа"
// @Router /accounts/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID := middleware.GetUserID(c); userID != 0 {
		ctx := c.Request.Context()
		if err := h.authService.Logout(ctx, h.GetDB(c), userID); err != nil {
			logger.CtxWithError(ctx, "Failed to revoke sessions on logout", err, "user_id", userID)
		} else {
			logger.CtxInfo(ctx, "User logged out", "user_id", userID)
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, LoginURL)
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "email", "password1", "password2"},
	})
}

// Signup godoc
// @Summary Регистрация
// @Description Создаёт неактивного пользователя и отправляет письмо со ссылкой активации
// @Tags accounts
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param user body dto.SignupRequest true "Данные регистрации"
// @Success 303 "Перенаправление на /accounts/signup_done/"
// @Failure 400 {object} apperrors.ErrorResponse "Ошибки формы"
// @Failure 409 {object} apperrors.ErrorResponse "Имя пользователя или email заняты"
// @Router /accounts/signup/ [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if _, err := h.authService.Signup(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, SignupDoneURL)
}

func (h *AuthHandler) SignupDone(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Please confirm your email address to complete the registration.",
	})
}

// Activate godoc
// @Summary Активация аккаунта
// @Description Ссылка одноразовая: после активации токен перестаёт совпадать с состоянием пользователя
// @Tags accounts
// @Produce json
// @Param uid path string true "ID пользователя в base64"
// @Param token path string true "Токен активации"
// @Success 200 {object} dto.ActivationResult
// @Failure 400 {object} apperrors.ErrorResponse "Ссылка недействительна"
// @Router /accounts/activate/{uid}/{token}/ [get]
func (h *AuthHandler) Activate(c *gin.Context) {
	result, err := h.authService.Activate(c.Request.Context(), h.GetDB(c), c.Param("uid"), c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// SafeRedirectTarget пропускает только локальные пути, иначе возвращает главную.
// "//host" и "/\host" браузеры трактуют как адрес другого сайта.
func SafeRedirectTarget(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return homeURL
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return homeURL
	}
	if strings.ContainsAny(next, "\r\n\x00") {
		return homeURL
	}
	return next
}
