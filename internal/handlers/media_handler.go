package handlers

import (
	"errors"
	"net/http"

	"mediavault_backend/internal/services"
	"mediavault_backend/internal/services/dto"
	"mediavault_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	*BaseHandler
	mediaService services.MediaService
}

func NewMediaHandler(base *BaseHandler, mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  base,
		mediaService: mediaService,
	}
}

// RegisterRoutes - группа должна быть закрыта LoginRequired
func (h *MediaHandler) RegisterRoutes(authed *gin.RouterGroup) {
	media := authed.Group("/media-files")
	{
		media.GET("/", h.ListMedia)
		media.POST("/upload/", h.UploadMedia)
		media.GET("/:id/", h.GetMedia)
		media.POST("/:id/rename/", h.RenameMedia)
		media.POST("/:id/delete/", h.DeleteMedia)
		media.DELETE("/:id/", h.DeleteMedia)
	}

	projectMedia := authed.Group("/projects/:id/media")
	{
		projectMedia.GET("/", h.ListProjectMedia)
		projectMedia.POST("/upload/", h.UploadProjectMedia)
	}
}

// ListMedia godoc
// @Summary Медиафайлы текущего пользователя
// @Tags media
// @Produce json
// @Param page query int false "Номер страницы"
// @Param project query int false "Только медиафайлы проекта"
// @Success 200 {object} dto.PageResponse[dto.MediaFileResponse]
// @Router /media-files/ [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	var projectID *uint
	if raw := c.Query("project"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			h.HandleServiceError(c, apperrors.ErrProjectNotFound)
			return
		}
		projectID = &id
	}
	h.list(c, projectID)
}

// ListProjectMedia godoc
// @Summary Медиафайлы проекта
// @Tags media
// @Produce json
// @Param id path int true "ID проекта"
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.PageResponse[dto.MediaFileResponse]
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /projects/{id}/media/ [get]
func (h *MediaHandler) ListProjectMedia(c *gin.Context) {
	projectID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.list(c, &projectID)
}

func (h *MediaHandler) list(c *gin.Context, projectID *uint) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	page, err := ParsePage(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	files, err := h.mediaService.List(c.Request.Context(), h.GetDB(c), user.ID, projectID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// UploadMedia godoc
// @Summary Загрузить медиафайл
// @Description Аудио или видео до 100MB. Проект (если указан) должен принадлежать пользователю
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл"
// @Param title formData string true "Название"
// @Param file_type formData string true "audio или video"
// @Param description formData string false "Описание"
// @Param duration formData number false "Длительность, секунды"
// @Param project formData int false "ID проекта"
// @Success 201 {object} dto.MediaFileResponse
// @Failure 400 {object} apperrors.ErrorResponse "Слишком большой файл или неверный тип"
// @Failure 404 {object} apperrors.ErrorResponse "Проект не найден"
// @Router /media-files/upload/ [post]
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	h.upload(c, nil)
}

// UploadProjectMedia godoc
// @Summary Загрузить медиафайл в проект
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID проекта"
// @Param file formData file true "Файл"
// @Param title formData string true "Название"
// @Param file_type formData string true "audio или video"
// @Success 201 {object} dto.MediaFileResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /projects/{id}/media/upload/ [post]
func (h *MediaHandler) UploadProjectMedia(c *gin.Context) {
	projectID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.upload(c, &projectID)
}

func (h *MediaHandler) upload(c *gin.Context, projectID *uint) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.MediaUploadRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	file, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	req.UserID = user.ID
	req.File = file
	req.ProjectID = req.Project
	if projectID != nil {
		req.ProjectID = projectID
	}

	media, err := h.mediaService.Upload(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

// GetMedia godoc
// @Summary Медиафайл
// @Description Чужой медиафайл неотличим от несуществующего
// @Tags media
// @Produce json
// @Param id path int true "ID медиафайла"
// @Success 200 {object} dto.MediaFileResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /media-files/{id}/ [get]
func (h *MediaHandler) GetMedia(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	mediaID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	media, err := h.mediaService.Get(c.Request.Context(), h.GetDB(c), user.ID, mediaID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// RenameMedia godoc
// @Summary Переименовать медиафайл
// @Tags media
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int true "ID медиафайла"
// @Param title body dto.MediaRenameRequest true "Новое название"
// @Success 200 {object} dto.MediaFileResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /media-files/{id}/rename/ [post]
func (h *MediaHandler) RenameMedia(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	mediaID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.MediaRenameRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	media, err := h.mediaService.Rename(c.Request.Context(), h.GetDB(c), user.ID, mediaID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// DeleteMedia godoc
// @Summary Удалить медиафайл
// @Tags media
// @Produce json
// @Param id path int true "ID медиафайла"
// @Success 200 {object} dto.MediaDeleteResult
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /media-files/{id}/delete/ [post]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	mediaID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	result, err := h.mediaService.Delete(c.Request.Context(), h.GetDB(c), user.ID, mediaID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
