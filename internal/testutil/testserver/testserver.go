// Package testserver поднимает полный HTTP стек приложения поверх in-memory SQLite.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mediavault_backend/internal/app"
	"mediavault_backend/internal/config"
	"mediavault_backend/internal/email"
	"mediavault_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const FrontendURL = "http://mediavault.test"

type TestServer struct {
	Server    *httptest.Server
	Client    *http.Client
	DB        *gorm.DB
	Config    *config.Config
	Mail      *email.LogProvider
	MediaRoot string
}

// NewTestServer собирает роутер так же, как app.Run, но с временным хранилищем
// и почтой, которая только запоминает письма. opts правят конфиг до сборки.
func NewTestServer(t *testing.T, opts ...func(*config.Config)) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	cfg := &config.Config{
		Server:   config.ServerConfig{Env: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, DSN: testutil.DSN(t)},
		App:      config.AppSettings{FrontendURL: FrontendURL},
		Session:  config.SessionConfig{Secret: "test-session-secret"},
		Media:    config.MediaConfig{Root: t.TempDir()},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.ApplyDefaults()

	templates, err := email.NewTemplateManager()
	if err != nil {
		t.Fatalf("Не удалось загрузить шаблоны писем: %v", err)
	}
	mail := email.NewLogProvider(templates)

	router, err := app.SetupRouter(cfg, db, mail)
	if err != nil {
		t.Fatalf("Не удалось собрать роутер: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := server.Client()
	// Редиректы проверяем сами
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &TestServer{
		Server:    server,
		Client:    client,
		DB:        db,
		Config:    cfg,
		Mail:      mail,
		MediaRoot: cfg.Media.Root,
	}
}

// SendRequest отправляет JSON (или пустое тело) и возвращает ответ с прочитанным телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	contentType := ""
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
		contentType = "application/json"
	}
	return ts.Do(t, method, path, token, contentType, reqBody)
}

// SendForm отправляет application/x-www-form-urlencoded
func (ts *TestServer) SendForm(t *testing.T, method, path, token string, form url.Values) (*http.Response, string) {
	t.Helper()
	return ts.Do(t, method, path, token, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

// Upload отправляет multipart форму с файлом
func (ts *TestServer) Upload(t *testing.T, path, token string, fields map[string]string, file *testutil.MultipartFile) (*http.Response, string) {
	t.Helper()
	body, contentType := testutil.MultipartBody(t, fields, file)
	return ts.Do(t, http.MethodPost, path, token, contentType, body)
}

func (ts *TestServer) Do(t *testing.T, method, path, token, contentType string, body io.Reader) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.Server.URL+path, body)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBodyBytes)
}

// Login входит через форму и возвращает значение cookie сессии
func (ts *TestServer) Login(t *testing.T, username, password string) string {
	t.Helper()

	res, body := ts.SendForm(t, http.MethodPost, "/accounts/login/", "", url.Values{
		"username": {username},
		"password": {password},
	})
	if res.StatusCode != http.StatusSeeOther {
		t.Fatalf("Логин %s не удался: %d %s", username, res.StatusCode, body)
	}
	for _, c := range res.Cookies() {
		if c.Name == ts.Config.Session.CookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatalf("Логин %s не выставил cookie сессии", username)
	return ""
}

// DecodeJSON разбирает тело ответа в v
func DecodeJSON(t *testing.T, body string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), v); err != nil {
		t.Fatalf("Не удалось распарсить JSON %q: %v", body, err)
	}
}
