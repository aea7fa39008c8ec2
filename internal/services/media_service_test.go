package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediavault_backend/internal/models"
	"mediavault_backend/internal/repositories"
	"mediavault_backend/internal/services/dto"
	"mediavault_backend/internal/storage"
	"mediavault_backend/internal/testutil"
	"mediavault_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mediaFixture struct {
	db       *gorm.DB
	root     string
	media    MediaService
	projects ProjectService
	users    UserService
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: root})
	require.NoError(t, err)

	mediaRepo := repositories.NewMediaFileRepository()
	projectRepo := repositories.NewProjectRepository()
	userRepo := repositories.NewUserRepository()

	return &mediaFixture{
		db:   testutil.NewTestDB(t),
		root: root,
		media: NewMediaService(mediaRepo, projectRepo, store, storage.NewNamer(store), nil, MediaConfig{
			MaxFileSize: 100 * 1024 * 1024,
			PageSize:    10,
		}),
		projects: NewProjectService(projectRepo, mediaRepo, store, nil, 10),
		users:    NewUserService(userRepo, projectRepo, mediaRepo, store, nil, 10),
	}
}

func (f *mediaFixture) upload(t *testing.T, user *models.User, projectID *uint, title, name, contentType string, fileType models.FileType) *dto.MediaFileResponse {
	t.Helper()
	res, err := f.media.Upload(context.Background(), f.db, &dto.MediaUploadRequest{
		UserID:    user.ID,
		ProjectID: projectID,
		Title:     title,
		FileType:  fileType,
		File: testutil.FileHeader(t, &testutil.MultipartFile{
			Name:        name,
			ContentType: contentType,
			Content:     []byte("fake media payload for " + title),
		}),
	})
	require.NoError(t, err)
	return res
}

func (f *mediaFixture) diskPath(t *testing.T, mediaID uint) string {
	t.Helper()
	var m models.MediaFile
	require.NoError(t, f.db.First(&m, mediaID).Error)
	return filepath.Join(f.root, filepath.FromSlash(m.File))
}

func TestUpload_StoresFileUnderOwnerAndProject(t *testing.T) {
	f := newMediaFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	demo := testutil.CreateProject(t, f.db, alice, "demo")

	res := f.upload(t, alice, &demo.ID, "clip1", "../../evil/clip.mp4", "video/mp4", models.FileTypeVideo)

	assert.Equal(t, "clip1", res.Title)
	assert.Equal(t, "clip.mp4", res.OriginalName)
	assert.True(t, strings.HasPrefix(res.FileName, "media_"))
	assert.True(t, strings.HasSuffix(res.FileName, ".mp4"))
	assert.Equal(t, &demo.ID, res.ProjectID)

	var stored models.MediaFile
	require.NoError(t, f.db.First(&stored, res.ID).Error)
	assert.Equal(t, models.MediaDir(alice.ID, &demo.ID)+"/"+res.FileName, stored.File)
	assert.Equal(t, "video/mp4", stored.Metadata.Data().DeclaredType)
	assert.NotEmpty(t, stored.Metadata.Data().DetectedType)
	assert.FileExists(t, f.diskPath(t, res.ID))
	assert.Equal(t, int64(len("fake media payload for clip1")), stored.FileSize)
}

func TestUpload_UnassignedProject(t *testing.T) {
	f := newMediaFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")

	res := f.upload(t, alice, nil, "song", "song.mp3", "audio/mpeg", models.FileTypeAudio)

	assert.Nil(t, res.ProjectID)
	assert.Contains(t, f.diskPath(t, res.ID), filepath.Join("user_"+uintStr(alice.ID), "project_unassigned"))
}

func TestUpload_Rejections(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	bob := testutil.CreateUser(t, f.db, "bob", "pass-bob")
	bobProject := testutil.CreateProject(t, f.db, bob, "bob-project")

	file := func(contentType string) *testutil.MultipartFile {
		return &testutil.MultipartFile{Name: "a.bin", ContentType: contentType, Content: []byte("x")}
	}

	_, err := f.media.Upload(ctx, f.db, &dto.MediaUploadRequest{UserID: alice.ID, Title: "t", FileType: models.FileTypeAudio})
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)

	_, err = f.media.Upload(ctx, f.db, &dto.MediaUploadRequest{
		UserID: alice.ID, Title: "t", FileType: models.FileTypeAudio,
		File: testutil.FileHeader(t, file("video/mp4")),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	header := testutil.FileHeader(t, file("audio/mpeg"))
	header.Size = 100*1024*1024 + 1
	_, err = f.media.Upload(ctx, f.db, &dto.MediaUploadRequest{
		UserID: alice.ID, Title: "t", FileType: models.FileTypeAudio, File: header,
	})
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = f.media.Upload(ctx, f.db, &dto.MediaUploadRequest{
		UserID: alice.ID, ProjectID: &bobProject.ID, Title: "t", FileType: models.FileTypeAudio,
		File: testutil.FileHeader(t, file("audio/mpeg")),
	})
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	var count int64
	f.db.Model(&models.MediaFile{}).Count(&count)
	assert.Zero(t, count)
	entries, _ := os.ReadDir(f.root)
	assert.Empty(t, entries)
}

// shortWriteStorage сообщает размер меньше записанного, как после неполной записи на диск.
type shortWriteStorage struct {
	storage.Storage
}

func (s shortWriteStorage) GetSize(ctx context.Context, p string) (int64, error) {
	size, err := s.Storage.GetSize(ctx, p)
	return size - 1, err
}

func TestUpload_StoredSizeMismatchRollsBack(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: root})
	require.NoError(t, err)
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "alice", "pass-alice")

	svc := NewMediaService(
		repositories.NewMediaFileRepository(),
		repositories.NewProjectRepository(),
		shortWriteStorage{store},
		storage.NewNamer(store),
		nil,
		MediaConfig{MaxFileSize: 1024 * 1024, PageSize: 10},
	)

	_, err = svc.Upload(context.Background(), db, &dto.MediaUploadRequest{
		UserID:   alice.ID,
		Title:    "broken",
		FileType: models.FileTypeAudio,
		File: testutil.FileHeader(t, &testutil.MultipartFile{
			Name:        "broken.mp3",
			ContentType: "audio/mpeg",
			Content:     []byte("partial audio"),
		}),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInternalError, appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.MediaFile{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.NoDirExists(t, filepath.Join(root, models.MediaDir(alice.ID, nil)))
}

func TestMedia_OwnershipIsolation(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	bob := testutil.CreateUser(t, f.db, "bob", "pass-bob")

	clip := f.upload(t, alice, nil, "clip1", "clip.mp4", "video/mp4", models.FileTypeVideo)

	_, err := f.media.Get(ctx, f.db, bob.ID, clip.ID)
	assert.ErrorIs(t, err, apperrors.ErrMediaFileNotFound)

	_, err = f.media.Rename(ctx, f.db, bob.ID, clip.ID, &dto.MediaRenameRequest{Title: "stolen"})
	assert.ErrorIs(t, err, apperrors.ErrMediaFileNotFound)

	_, err = f.media.Delete(ctx, f.db, bob.ID, clip.ID)
	assert.ErrorIs(t, err, apperrors.ErrMediaFileNotFound)

	page, err := f.media.List(ctx, f.db, bob.ID, nil, 1)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	got, err := f.media.Get(ctx, f.db, alice.ID, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip1", got.Title)
}

func TestMedia_RenameAndDeleteCleansDisk(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	demo := testutil.CreateProject(t, f.db, alice, "demo")

	clip := f.upload(t, alice, &demo.ID, "clip1", "clip.mp4", "video/mp4", models.FileTypeVideo)
	diskPath := f.diskPath(t, clip.ID)

	renamed, err := f.media.Rename(ctx, f.db, alice.ID, clip.ID, &dto.MediaRenameRequest{Title: "clip-final"})
	require.NoError(t, err)
	assert.Equal(t, "clip-final", renamed.Title)
	assert.Equal(t, clip.FileName, renamed.FileName)

	res, err := f.media.Delete(ctx, f.db, alice.ID, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip-final", res.Title)

	assert.NoFileExists(t, diskPath)
	assert.NoDirExists(t, filepath.Dir(diskPath))

	_, err = f.media.Get(ctx, f.db, alice.ID, clip.ID)
	assert.ErrorIs(t, err, apperrors.ErrMediaFileNotFound)
}

func TestMedia_DeleteSurvivesMissingFile(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")

	first := f.upload(t, alice, nil, "one", "one.mp3", "audio/mpeg", models.FileTypeAudio)
	second := f.upload(t, alice, nil, "two", "two.mp3", "audio/mpeg", models.FileTypeAudio)
	firstPath := f.diskPath(t, first.ID)
	secondPath := f.diskPath(t, second.ID)
	require.NoError(t, os.Remove(firstPath))

	_, err := f.media.Delete(ctx, f.db, alice.ID, first.ID)
	require.NoError(t, err)

	// каталог остается: в нем лежит второй файл
	assert.FileExists(t, secondPath)
}

func TestMedia_ListPaginationAndProjectFilter(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	demo := testutil.CreateProject(t, f.db, alice, "demo")

	for i := 0; i < 12; i++ {
		f.upload(t, alice, nil, "loose", "a.mp3", "audio/mpeg", models.FileTypeAudio)
	}
	f.upload(t, alice, &demo.ID, "in-demo", "b.mp4", "video/mp4", models.FileTypeVideo)

	page1, err := f.media.List(ctx, f.db, alice.ID, nil, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, int64(13), page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	assert.True(t, page1.HasNext)

	page2, err := f.media.List(ctx, f.db, alice.ID, nil, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 3)
	assert.False(t, page2.HasNext)

	_, err = f.media.List(ctx, f.db, alice.ID, nil, 3)
	assert.Error(t, err)

	inDemo, err := f.media.List(ctx, f.db, alice.ID, &demo.ID, 1)
	require.NoError(t, err)
	require.Len(t, inDemo.Items, 1)
	assert.Equal(t, "in-demo", inDemo.Items[0].Title)

	bob := testutil.CreateUser(t, f.db, "bob", "pass-bob")
	_, err = f.media.List(ctx, f.db, bob.ID, &demo.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	missing := uint(99999)
	_, err = f.media.List(ctx, f.db, alice.ID, &missing, 1)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	used, err := f.media.GetUserStorageUsage(f.db, alice.ID)
	require.NoError(t, err)
	assert.Positive(t, used)
}
