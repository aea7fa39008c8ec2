package handlers_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"mediavault_backend/internal/testutil"
	"mediavault_backend/internal/testutil/testserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaGateway(t *testing.T) {
	ts := testserver.NewTestServer(t)
	testutil.CreateUser(t, ts.DB, "alice", "pass-alice")
	token := ts.Login(t, "alice", "pass-alice")

	clip := uploadVideo(t, ts, "/media-files/upload/", token, "clip1")
	require.NotEmpty(t, clip.URL)

	t.Run("anonymous is sent to login with next", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, clip.URL, "", nil)
		require.Equal(t, http.StatusFound, res.StatusCode, body)
		assert.Equal(t, "/accounts/login/?"+url.Values{"next": {clip.URL}}.Encode(), res.Header.Get("Location"))
		assert.Empty(t, res.Header.Get("X-Accel-Redirect"))
	})

	t.Run("owner gets internal redirect", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, clip.URL, token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Empty(t, body, "file bytes are served by the front-end server")
		assert.Equal(t, "video/mp4", res.Header.Get("Content-Type"))
		assert.Equal(t, "/protected/"+clip.URL[len("/media/"):], res.Header.Get("X-Accel-Redirect"))
	})

	t.Run("unknown extension falls back to octet-stream", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(ts.MediaRoot, "notes.zzz"), []byte("x"), 0o644))
		res, _ := ts.SendRequest(t, http.MethodGet, "/media/notes.zzz", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/octet-stream", res.Header.Get("Content-Type"))
		assert.Equal(t, "/protected/notes.zzz", res.Header.Get("X-Accel-Redirect"))
	})

	t.Run("names are escaped in the redirect", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(ts.MediaRoot, "my song.mp3"), []byte("x"), 0o644))
		res, _ := ts.SendRequest(t, http.MethodGet, "/media/my%20song.mp3", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "audio/mpeg", res.Header.Get("Content-Type"))
		assert.Equal(t, "/protected/my%20song.mp3", res.Header.Get("X-Accel-Redirect"))
	})

	t.Run("missing file and traversal are 404", func(t *testing.T) {
		for _, path := range []string{
			"/media/user_1/project_unassigned/nope.mp4",
			"/media/%2e%2e/%2e%2e/etc/passwd",
			"/media/",
		} {
			res, _ := ts.SendRequest(t, http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusNotFound, res.StatusCode, path)
			assert.Empty(t, res.Header.Get("X-Accel-Redirect"), path)
		}
	})

	t.Run("directories are not files", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodGet, "/media/user_1/", token, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
