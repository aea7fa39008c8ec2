package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./media"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/media"
	}

	basePath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// CleanPath нормализует относительный путь и не даёт выйти за корень.
// Пустой результат означает, что путь указывает на сам корень.
func CleanPath(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", ErrInvalidPath
	}
	p = strings.ReplaceAll(p, "\\", "/")
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", ErrInvalidPath
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	return cleaned, nil
}

// FullPath возвращает абсолютный путь на диске для относительного пути.
func (s *LocalStorage) FullPath(p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

func (s *LocalStorage) Save(ctx context.Context, p string, reader io.Reader, contentType string) (int64, error) {
	fullPath, err := s.FullPath(p)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	// O_EXCL: существующий файл никогда не перезаписывается
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return written, nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	fullPath, err := s.FullPath(p)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	fullPath, err := s.FullPath(p)
	if err != nil {
		if errors.Is(err, ErrInvalidPath) {
			return false, nil
		}
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// GetURL возвращает адрес вида /media/user_1/project_2/media_123.mp4
func (s *LocalStorage) GetURL(ctx context.Context, p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	u := url.URL{Path: s.baseURL + "/" + cleaned}
	return u.EscapedPath(), nil
}

func (s *LocalStorage) GetSize(ctx context.Context, p string) (int64, error) {
	fullPath, err := s.FullPath(p)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrNotExist
		}
		return 0, fmt.Errorf("failed to get file info: %w", err)
	}

	return info.Size(), nil
}

func (s *LocalStorage) RemoveDirIfEmpty(ctx context.Context, dir string) error {
	fullPath, err := s.FullPath(dir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read directory: %w", err)
	}
	if len(entries) > 0 {
		return ErrDirNotEmpty
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove directory: %w", err)
	}
	return nil
}
