package handlers

import (
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/storage"
	"mediavault_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const defaultContentType = "application/octet-stream"

// Встроенная таблица mime знает только веб-типы, остальное зависит от /etc/mime.types
var mediaContentTypes = map[string]string{
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".avi":  "video/x-msvideo",
	".m4v":  "video/mp4",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".ogv":  "video/ogg",
	".webm": "video/webm",
}

func init() {
	for ext, typ := range mediaContentTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// FileHandler - шлюз к защищённым медиафайлам. Сам файл отдаёт nginx
// по X-Accel-Redirect, приложение только проверяет доступ.
type FileHandler struct {
	*BaseHandler
	storage        storage.Storage
	internalPrefix string
}

func NewFileHandler(base *BaseHandler, storage storage.Storage, internalPrefix string) *FileHandler {
	if !strings.HasSuffix(internalPrefix, "/") {
		internalPrefix += "/"
	}
	return &FileHandler{
		BaseHandler:    base,
		storage:        storage,
		internalPrefix: internalPrefix,
	}
}

// RegisterRoutes - группа должна быть закрыта LoginRequired
func (h *FileHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/media/*path", h.ServeFile)
	authed.HEAD("/media/*path", h.ServeFile)
}

// ServeFile godoc
// @Summary Защищённый медиафайл
// @Description Анонимного пользователя перенаправляет на вход; для существующего файла
// @Description отвечает заголовком X-Accel-Redirect, тело отдаёт фронтовый сервер
// @Tags media
// @Param path path string true "Путь относительно корня хранилища"
// @Success 200 "Пустое тело, заголовки X-Accel-Redirect и Content-Type"
// @Success 302 "Перенаправление на /accounts/login/?next=..."
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /media/{path} [get]
func (h *FileHandler) ServeFile(c *gin.Context) {
	ctx := c.Request.Context()

	rel, err := storage.CleanPath(strings.TrimPrefix(c.Param("path"), "/"))
	if err != nil || rel == "" {
		logger.CtxWarn(ctx, "Rejected media path", "path", c.Param("path"))
		apperrors.HandleError(c, apperrors.ErrFileNotFound)
		return
	}

	exists, err := h.storage.Exists(ctx, rel)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	if !exists {
		apperrors.HandleError(c, apperrors.ErrFileNotFound)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(rel))
	if contentType == "" {
		contentType = defaultContentType
	}

	redirect := (&url.URL{Path: h.internalPrefix + rel}).EscapedPath()
	c.Header("Content-Type", contentType)
	c.Header("X-Accel-Redirect", redirect)
	c.Status(http.StatusOK)
}
