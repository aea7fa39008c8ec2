package models

import (
	"fmt"
	"path"
	"strings"

	"gorm.io/datatypes"
)

type FileType string

const (
	FileTypeAudio FileType = "audio"
	FileTypeVideo FileType = "video"
)

func (t FileType) IsValid() bool {
	return t == FileTypeAudio || t == FileTypeVideo
}

// Matches проверяет, что заявленный content type относится к этому типу (audio/*, video/*).
func (t FileType) Matches(contentType string) bool {
	return t.IsValid() && strings.HasPrefix(strings.ToLower(contentType), string(t)+"/")
}

// MediaMetadata - сведения о загрузке, которые не нужны для запросов.
type MediaMetadata struct {
	OriginalName string `json:"original_name"`
	DeclaredType string `json:"declared_type"`
	DetectedType string `json:"detected_type,omitempty"`
}

type MediaFile struct {
	BaseModel
	UserID      uint     `gorm:"not null;index" json:"user_id"`
	ProjectID   *uint    `gorm:"index" json:"project_id"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	FileType    FileType `gorm:"type:varchar(10);not null" json:"file_type"`
	// Путь относительно корня хранилища: user_<id>/project_<id|unassigned>/<name>
	File     string                              `gorm:"size:500;not null" json:"file"`
	FileSize int64                               `gorm:"not null;default:0" json:"file_size"`
	Duration *float64                            `json:"duration"`
	Metadata datatypes.JSONType[MediaMetadata] `json:"metadata"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// FileName - имя файла без каталога.
func (m *MediaFile) FileName() string {
	return path.Base(m.File)
}

// MediaDir возвращает каталог хранения для пары пользователь/проект.
func MediaDir(userID uint, projectID *uint) string {
	project := "unassigned"
	if projectID != nil {
		project = fmt.Sprintf("%d", *projectID)
	}
	return fmt.Sprintf("user_%d/project_%s", userID, project)
}
