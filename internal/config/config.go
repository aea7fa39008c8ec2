package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath = "config/config.yaml"
	// 100MB - лимит размера одного медиафайла
	DefaultMaxUploadSize = 100 * 1024 * 1024
	DefaultPageSize      = 10
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres, mysql, sqlite
	DSN    string `yaml:"url"`
}

type AppSettings struct {
	FrontendURL string `yaml:"frontend_url"` // База для ссылок активации
	SiteName    string `yaml:"site_name"`
}

type SessionConfig struct {
	Secret     string `yaml:"secret"`
	TTLMinutes int    `yaml:"ttl_minutes"`
	CookieName string `yaml:"cookie_name"`
	Secure     bool   `yaml:"secure"`
}

type ActivationConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

type MediaConfig struct {
	Root           string `yaml:"root"`            // Корень хранилища медиафайлов
	InternalPrefix string `yaml:"internal_prefix"` // internal location у nginx (X-Accel-Redirect)
	MaxUploadSize  int64  `yaml:"max_upload_size"`
	PageSize       int    `yaml:"page_size"`
}

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
	TemplatesDir string `yaml:"templates_dir"`
}

type FirstAdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	App        AppSettings      `yaml:"app"`
	Session    SessionConfig    `yaml:"session"`
	Activation ActivationConfig `yaml:"activation"`
	Media      MediaConfig      `yaml:"media"`
	Email      EmailConfig      `yaml:"email"`
	FirstAdmin FirstAdminConfig `yaml:"first_admin"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию в AppConfig и завершает процесс при ошибке
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// GetConfig возвращает загруженную конфигурацию
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Load читает .env, YAML файл (если есть) и переменные окружения.
// Порядок приоритета: env > yaml > значения по умолчанию.
func Load() (*Config, error) {
	// .env опционален
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath
	}

	if err := loadYAML(configPath, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Printf("Config file %s not found, using environment only", configPath)
	}

	applyEnv(&cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")

	setString(&cfg.App.FrontendURL, "FRONTEND_URL")
	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setString(&cfg.Media.Root, "MEDIA_ROOT")

	if v := os.Getenv("EMAIL_ENABLED"); v != "" {
		cfg.Email.Enabled, _ = strconv.ParseBool(v)
	}
	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "EMAIL_FROM")
	setString(&cfg.Email.TemplatesDir, "TEMPLATES_DIR")

	setString(&cfg.FirstAdmin.Username, "FIRST_ADMIN_USERNAME")
	setString(&cfg.FirstAdmin.Email, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdmin.Password, "FIRST_ADMIN_PASSWORD")
}

// ApplyDefaults заполняет незаданные значения
func (c *Config) ApplyDefaults() {
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.App.FrontendURL == "" {
		c.App.FrontendURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.App.SiteName == "" {
		c.App.SiteName = "MediaVault"
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 60 * 24 * 14 // 2 недели
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "sessionid"
	}
	if c.Activation.TTLHours <= 0 {
		c.Activation.TTLHours = 24 * 3
	}
	if c.Media.Root == "" {
		c.Media.Root = "./media"
	}
	if c.Media.InternalPrefix == "" {
		c.Media.InternalPrefix = "/protected/"
	}
	if c.Media.MaxUploadSize <= 0 {
		c.Media.MaxUploadSize = DefaultMaxUploadSize
	}
	if c.Media.PageSize <= 0 {
		c.Media.PageSize = DefaultPageSize
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = "noreply@localhost"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = c.App.SiteName
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database url is required (database.url or DATABASE_URL)")
	}
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("session secret is required in production (session.secret or SESSION_SECRET)")
		}
		c.Session.Secret = "insecure-development-secret"
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c *Config) ActivationTTL() time.Duration {
	return time.Duration(c.Activation.TTLHours) * time.Hour
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
