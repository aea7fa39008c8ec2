package handlers

import (
	"net/http"

	"mediavault_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes - группа должна быть закрыта LoginRequired
func (h *UserHandler) RegisterRoutes(authed *gin.RouterGroup, admin *gin.RouterGroup) {
	authed.GET("/accounts/me/", h.Me)

	users := admin.Group("/users")
	{
		users.GET("/", h.ListUsers)
		users.POST("/:id/delete/", h.DeleteUser)
		users.DELETE("/:id/", h.DeleteUser)
	}
}

// Me godoc
// @Summary Текущий пользователь
// @Tags accounts
// @Produce json
// @Success 200 {object} services.MeResponse
// @Router /accounts/me/ [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	me, err := h.userService.GetMe(h.GetDB(c), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// ListUsers godoc
// @Summary Список пользователей
// @Description Только для staff
// @Tags admin
// @Produce json
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.PageResponse[dto.UserDTO]
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /admin/users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := ParsePage(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	users, err := h.userService.ListUsers(h.GetDB(c), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Description Удаляет пользователя вместе с проектами, медиафайлами и файлами на диске
// @Tags admin
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} dto.UserDeleteResult
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/users/{id}/delete/ [post]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	result, err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), actor, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
