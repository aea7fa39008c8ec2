package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountsDomainEvents(t *testing.T) {
	c, err := NewCollector()
	require.NoError(t, err)

	c.UploadAccepted("video", 1024)
	c.UploadRejected("audio", "too_large")
	c.MediaDeleted(3)
	c.MediaDeleted(0)
	c.Activation(true)
	c.Activation(false)
	c.Activation(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("video", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("audio", "too_large")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(c.uploadBytes))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.mediaDeleted))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.activations.WithLabelValues("failure")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.UploadAccepted("video", 1)
		c.Signup()
		c.Login(true)
		c.CleanupFailed("missing_file")
	})
}

func TestCollector_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := NewCollector()
	require.NoError(t, err)

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/projects/:id/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(c.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/5/", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/projects/:id/", "GET", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mediavault_http_requests_total")
}
