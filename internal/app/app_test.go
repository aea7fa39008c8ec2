package app

import (
	"testing"

	"mediavault_backend/internal/auth"
	"mediavault_backend/internal/config"
	"mediavault_backend/internal/email"
	"mediavault_backend/internal/models"
	"mediavault_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFirstAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := &config.Config{FirstAdmin: config.FirstAdminConfig{
		Username: "root",
		Email:    "root@example.com",
		Password: "very-secret-pass",
	}}

	require.NoError(t, seedFirstAdmin(db, cfg))
	require.NoError(t, seedFirstAdmin(db, cfg), "second run is a no-op")

	var admins []models.User
	require.NoError(t, db.Where("username = ?", "root").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].IsActive)
	assert.True(t, admins[0].IsSuperuser)
	assert.True(t, auth.CheckPasswordHash("very-secret-pass", admins[0].PasswordHash))
}

func TestSeedFirstAdmin_SkippedWithoutCredentials(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, seedFirstAdmin(db, &config.Config{}))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestNewEmailProvider_FallsBackToLog(t *testing.T) {
	provider, err := NewEmailProvider(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &email.LogProvider{}, provider)
}
