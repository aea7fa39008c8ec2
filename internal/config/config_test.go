package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv изолирует тест от окружения машины.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ENV", "SERVER_HOST", "SERVER_PORT",
		"DATABASE_DRIVER", "DATABASE_URL",
		"FRONTEND_URL", "SESSION_SECRET", "MEDIA_ROOT",
		"EMAIL_ENABLED", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "EMAIL_FROM", "TEMPLATES_DIR",
		"FIRST_ADMIN_USERNAME", "FIRST_ADMIN_EMAIL", "FIRST_ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLWithEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: sqlite
  url: "file::memory:"
session:
  secret: from-yaml
media:
  root: /srv/media
  page_size: 25
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.Equal(t, "/srv/media", cfg.Media.Root)
	assert.Equal(t, 25, cfg.Media.PageSize)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)

	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "http://localhost:9000", cfg.App.FrontendURL)
	assert.Equal(t, "/protected/", cfg.Media.InternalPrefix)
	assert.Equal(t, int64(DefaultMaxUploadSize), cfg.Media.MaxUploadSize)
	assert.Equal(t, "sessionid", cfg.Session.CookieName)
	assert.Equal(t, 14*24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, 72*time.Hour, cfg.ActivationTTL())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BrokenYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, "server: [unclosed"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing dsn",
			cfg:     Config{Database: DatabaseConfig{Driver: DriverPostgres}},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     Config{Database: DatabaseConfig{Driver: "oracle", DSN: "x"}, Session: SessionConfig{Secret: "s"}},
			wantErr: true,
		},
		{
			name: "production without secret",
			cfg: Config{
				Server:   ServerConfig{Env: "production"},
				Database: DatabaseConfig{Driver: DriverMySQL, DSN: "x"},
			},
			wantErr: true,
		},
		{
			name:    "development without secret",
			cfg:     Config{Database: DatabaseConfig{Driver: DriverSQLite, DSN: "x"}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.cfg.Session.Secret)
		})
	}
}
