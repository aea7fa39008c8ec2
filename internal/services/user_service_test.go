package services

import (
	"context"
	"path/filepath"
	"testing"

	"mediavault_backend/internal/models"
	"mediavault_backend/internal/testutil"
	"mediavault_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_DeleteUserCascades(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	admin := testutil.CreateStaff(t, f.db, "admin", "pass-admin")
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	demo := testutil.CreateProject(t, f.db, alice, "demo")

	clip := f.upload(t, alice, &demo.ID, "clip1", "clip.mp4", "video/mp4", models.FileTypeVideo)
	song := f.upload(t, alice, nil, "song", "song.mp3", "audio/mpeg", models.FileTypeAudio)
	clipPath, songPath := f.diskPath(t, clip.ID), f.diskPath(t, song.ID)

	res, err := f.users.DeleteUser(ctx, f.db, admin, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RemovedProjects)
	assert.Equal(t, int64(2), res.RemovedMediaFiles)

	assert.NoFileExists(t, clipPath)
	assert.NoFileExists(t, songPath)
	assert.NoDirExists(t, filepath.Join(f.root, "user_"+uintStr(alice.ID)))

	var count int64
	f.db.Model(&models.User{}).Where("id = ?", alice.ID).Count(&count)
	assert.Zero(t, count)
}

func TestUserService_DeleteUserPermissions(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	admin := testutil.CreateStaff(t, f.db, "admin", "pass-admin")
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	root := testutil.CreateUser(t, f.db, "root", "pass-root")
	require.NoError(t, f.db.Model(root).Update("is_superuser", true).Error)

	_, err := f.users.DeleteUser(ctx, f.db, alice, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = f.users.DeleteUser(ctx, f.db, admin, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrCannotDeleteSelf)

	_, err = f.users.DeleteUser(ctx, f.db, admin, root.ID)
	assert.ErrorIs(t, err, apperrors.ErrProtectedAccount)

	_, err = f.users.DeleteUser(ctx, f.db, admin, 9999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ListAndMe(t *testing.T) {
	f := newMediaFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", "pass-alice")
	testutil.CreateUser(t, f.db, "bob", "pass-bob")
	f.upload(t, alice, nil, "song", "song.mp3", "audio/mpeg", models.FileTypeAudio)

	page, err := f.users.ListUsers(f.db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	me, err := f.users.GetMe(f.db, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.User.Username)
	assert.Equal(t, int64(len("fake media payload for song")), me.StorageUsed)
}
