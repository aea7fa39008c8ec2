package handlers

import (
	"net/http"

	"mediavault_backend/internal/services"
	"mediavault_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
	mediaService   services.MediaService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService, mediaService services.MediaService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
		mediaService:   mediaService,
	}
}

// RegisterRoutes - группа должна быть закрыта LoginRequired
func (h *ProjectHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/", h.ListProjects)

	projects := authed.Group("/projects")
	{
		projects.POST("/create/", h.CreateProject)
		projects.GET("/:id/", h.GetProject)
		projects.POST("/:id/update/", h.UpdateProject)
		projects.PATCH("/:id/", h.UpdateProject)
		projects.POST("/:id/delete/", h.DeleteProject)
		projects.DELETE("/:id/", h.DeleteProject)
	}
}

// ListProjects godoc
// @Summary Проекты текущего пользователя
// @Description Главная страница: проекты с количеством медиафайлов, по 10 на страницу
// @Tags projects
// @Produce json
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.PageResponse[dto.ProjectResponse]
// @Failure 404 {object} apperrors.ErrorResponse "Нет такой страницы"
// @Router / [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	page, err := ParsePage(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	projects, err := h.projectService.List(h.GetDB(c), user.ID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Создать проект
// @Tags projects
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param project body dto.ProjectCreateRequest true "Название и описание"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Проект с таким названием уже есть"
// @Router /projects/create/ [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.ProjectCreateRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Проект и его медиафайлы
// @Tags projects
// @Produce json
// @Param id path int true "ID проекта"
// @Param page query int false "Страница медиафайлов"
// @Success 200 {object} dto.ProjectDetailResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /projects/{id}/ [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	projectID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	page, err := ParsePage(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)
	project, err := h.projectService.Get(db, user.ID, projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	media, err := h.mediaService.List(c.Request.Context(), db, user.ID, &project.ID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectDetailResponse{Project: *project, Media: media})
}

// UpdateProject godoc
// @Summary Изменить проект
// @Tags projects
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int true "ID проекта"
// @Param project body dto.ProjectUpdateRequest true "Новые значения"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /projects/{id}/update/ [post]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	projectID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.ProjectUpdateRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), h.GetDB(c), user.ID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Удалить проект
// @Description Удаляет проект, все его медиафайлы и их файлы на диске
// @Tags projects
// @Produce json
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.ProjectDeleteResult
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /projects/{id}/delete/ [post]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	projectID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	result, err := h.projectService.Delete(c.Request.Context(), h.GetDB(c), user.ID, projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
