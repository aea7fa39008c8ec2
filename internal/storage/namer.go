package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"mediavault_backend/internal/logger"

	"github.com/google/uuid"
)

const (
	namePrefix       = "media_"
	maxExtensionLen  = 16
	maxNamerAttempts = 100
)

// Namer подбирает имя для загружаемого файла, не совпадающее с уже существующими.
// Исходное имя от клиента используется только ради расширения.
type Namer struct {
	storage Storage
	now     func() time.Time
	suffix  func() string
}

func NewNamer(s Storage) *Namer {
	return &Namer{
		storage: s,
		now:     time.Now,
		suffix:  randomSuffix,
	}
}

// Name возвращает имя вида media_<unix ms><ext> внутри dir.
// При коллизии добавляется случайный суффикс из 7 символов.
func (n *Namer) Name(ctx context.Context, dir, requested string) string {
	ext := Extension(requested)
	stamp := n.now().UnixMilli()

	name := fmt.Sprintf("%s%d%s", namePrefix, stamp, ext)
	for attempt := 0; attempt < maxNamerAttempts; attempt++ {
		exists, err := n.storage.Exists(ctx, path.Join(dir, name))
		if err != nil {
			logger.CtxWarn(ctx, "Failed to check file name availability", "name", name, "error", err)
		}
		if !exists {
			return name
		}
		name = fmt.Sprintf("%s%d_%s%s", namePrefix, stamp, n.suffix(), ext)
	}
	return name
}

// BaseName отбрасывает любые каталоги из имени, присланного клиентом (и "/", и "\").
func BaseName(requested string) string {
	if i := strings.LastIndexAny(requested, `/\`); i >= 0 {
		requested = requested[i+1:]
	}
	return strings.TrimSpace(requested)
}

// Extension возвращает расширение исходного файла в нижнем регистре, с точкой.
// Подозрительные расширения отбрасываются.
func Extension(requested string) string {
	ext := path.Ext(BaseName(requested))
	if len(ext) < 2 || len(ext) > maxExtensionLen+1 {
		return ""
	}
	for _, r := range ext[1:] {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			return ""
		}
	}
	return strings.ToLower(ext)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}
