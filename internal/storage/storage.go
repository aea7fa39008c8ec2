package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotExist - файла по указанному пути нет
	ErrNotExist = errors.New("file does not exist")
	// ErrDirNotEmpty - каталог не удалён, потому что в нём остались файлы
	ErrDirNotEmpty = errors.New("directory is not empty")
	// ErrInvalidPath - путь выходит за пределы корня хранилища
	ErrInvalidPath = errors.New("invalid storage path")
)

// Storage - операции с файлами по путям относительно корня хранилища.
// Пути всегда через "/", независимо от ОС.
type Storage interface {
	// Save записывает файл, создавая каталоги, и возвращает число записанных байт
	Save(ctx context.Context, path string, reader io.Reader, contentType string) (int64, error)

	// Delete удаляет файл; для отсутствующего файла возвращает ErrNotExist
	Delete(ctx context.Context, path string) error

	// Exists сообщает, есть ли по пути обычный файл
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает адрес файла за шлюзом защищённых медиа
	GetURL(ctx context.Context, path string) (string, error)

	// GetSize возвращает размер сохранённого файла в байтах
	GetSize(ctx context.Context, path string) (int64, error)

	// RemoveDirIfEmpty удаляет каталог, только если он пуст
	RemoveDirIfEmpty(ctx context.Context, dir string) error
}

type Config struct {
	Type     string // local
	BasePath string // Корень хранилища
	BaseURL  string // Префикс адресов, по умолчанию /media
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
