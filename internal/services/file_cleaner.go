package services

import (
	"context"
	"errors"
	"path"

	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/metrics"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/storage"
)

// fileCleaner удаляет физические файлы после того, как записи уже удалены из БД.
// Ошибки только логируются: согласованность БД важнее согласованности диска.
type fileCleaner struct {
	storage storage.Storage
	metrics *metrics.Collector
}

func newFileCleaner(s storage.Storage, m *metrics.Collector) *fileCleaner {
	return &fileCleaner{storage: s, metrics: m}
}

func (fc *fileCleaner) Remove(ctx context.Context, files []models.MediaFile) {
	dirs := make(map[string]struct{})
	for _, f := range files {
		fc.removeFile(ctx, f.File)
		dirs[path.Dir(f.File)] = struct{}{}
	}
	for dir := range dirs {
		fc.pruneDir(ctx, dir)
	}
}

func (fc *fileCleaner) removeFile(ctx context.Context, p string) {
	if p == "" {
		return
	}
	err := fc.storage.Delete(ctx, p)
	switch {
	case err == nil:
		logger.CtxDebug(ctx, "Media file removed from storage", "path", p)
	case errors.Is(err, storage.ErrNotExist):
		fc.metrics.CleanupFailed("missing_file")
		logger.CtxWarn(ctx, "Media file already missing from storage", "path", p)
	default:
		fc.metrics.CleanupFailed("delete_failed")
		logger.CtxWithError(ctx, "Failed to delete media file from storage", err, "path", p)
	}
}

func (fc *fileCleaner) pruneDir(ctx context.Context, dir string) {
	if dir == "." || dir == "/" || dir == "" {
		return
	}
	err := fc.storage.RemoveDirIfEmpty(ctx, dir)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrDirNotEmpty):
		logger.CtxDebug(ctx, "Storage directory kept, not empty", "dir", dir)
	default:
		fc.metrics.CleanupFailed("prune_failed")
		logger.CtxWithError(ctx, "Failed to remove empty storage directory", err, "dir", dir)
	}
}
