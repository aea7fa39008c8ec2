package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediavault"

// Collector - метрики приложения на собственном реестре.
// Все методы безопасны для nil-получателя, чтобы сервисы можно было собирать без метрик.
type Collector struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	uploads      *prometheus.CounterVec
	uploadBytes  prometheus.Counter
	mediaDeleted prometheus.Counter
	cleanupFails *prometheus.CounterVec
	signups      prometheus.Counter
	activations  *prometheus.CounterVec
	logins       *prometheus.CounterVec
}

func NewCollector() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"route", "method"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploads_total",
			Help:      "Media uploads by file type and result.",
		}, []string{"file_type", "result"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_upload_bytes_total",
			Help:      "Bytes written to media storage.",
		}),
		mediaDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_deleted_total",
			Help:      "Media file records deleted, including cascades.",
		}),
		cleanupFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_cleanup_failures_total",
			Help:      "Physical file cleanup problems that were logged and skipped.",
		}, []string{"reason"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Registered accounts.",
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activations_total",
			Help:      "Activation attempts by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
	}

	toRegister := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests, c.httpDuration,
		c.uploads, c.uploadBytes, c.mediaDeleted, c.cleanupFails,
		c.signups, c.activations, c.logins,
	}
	for _, col := range toRegister {
		if err := c.registry.Register(col); err != nil {
			return nil, err
		}
	}

	c.handler = promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
	return c, nil
}

// Handler returns the HTTP handler for /metrics endpoint
func (c *Collector) Handler() http.Handler {
	return c.handler
}

// Middleware считает запросы по шаблону маршрута, а не по фактическому пути.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		if c == nil {
			return
		}

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequests.WithLabelValues(route, ctx.Request.Method, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpDuration.WithLabelValues(route, ctx.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) UploadAccepted(fileType string, size int64) {
	if c == nil {
		return
	}
	c.uploads.WithLabelValues(fileType, "accepted").Inc()
	c.uploadBytes.Add(float64(size))
}

func (c *Collector) UploadRejected(fileType, reason string) {
	if c == nil {
		return
	}
	c.uploads.WithLabelValues(fileType, reason).Inc()
}

func (c *Collector) MediaDeleted(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.mediaDeleted.Add(float64(n))
}

func (c *Collector) CleanupFailed(reason string) {
	if c == nil {
		return
	}
	c.cleanupFails.WithLabelValues(reason).Inc()
}

func (c *Collector) Signup() {
	if c == nil {
		return
	}
	c.signups.Inc()
}

func (c *Collector) Activation(ok bool) {
	if c == nil {
		return
	}
	c.activations.WithLabelValues(result(ok)).Inc()
}

func (c *Collector) Login(ok bool) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
