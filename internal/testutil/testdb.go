// Package testutil - общие помощники для тестов: SQLite в памяти, пользователи, multipart-формы.
package testutil

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"regexp"
	"testing"
	"time"

	"mediavault_backend/internal/auth"
	"mediavault_backend/internal/config"
	"mediavault_backend/internal/database"
	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// DSN возвращает имя отдельной in-memory базы SQLite для теста.
func DSN(t *testing.T) string {
	name := unsafeChars.ReplaceAllString(t.Name(), "_")
	return fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_fk=1", name, uuid.NewString()[:8])
}

// NewTestDB открывает SQLite в памяти и выполняет миграции.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")
	auth.SetHashCost(bcrypt.MinCost)

	db, err := database.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: DSN(t)}, "test")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser создает активного пользователя с паролем password.
func CreateUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateStaff создает активного пользователя с правами staff.
func CreateStaff(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	user := CreateUser(t, db, username, password)
	require.NoError(t, db.Model(user).Update("is_staff", true).Error)
	user.IsStaff = true
	return user
}

// CreateProject создает проект пользователя.
func CreateProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()
	project := &models.Project{OwnerID: owner.ID, Name: name}
	require.NoError(t, db.Create(project).Error)
	return project
}

// MultipartFile - файл для multipart-формы.
type MultipartFile struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// MultipartBody собирает multipart/form-data и возвращает тело и Content-Type.
func MultipartBody(t *testing.T, fields map[string]string, file *MultipartFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if file != nil {
		field := file.Field
		if field == "" {
			field = "file"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
		h.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.Content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// FileHeader разбирает собранную форму и возвращает заголовок файла, как его видит сервер.
func FileHeader(t *testing.T, file *MultipartFile) *multipart.FileHeader {
	t.Helper()

	body, contentType := MultipartBody(t, nil, file)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	field := file.Field
	if field == "" {
		field = "file"
	}
	require.NotEmpty(t, form.File[field])
	return form.File[field][0]
}
