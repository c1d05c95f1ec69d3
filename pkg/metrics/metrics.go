package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	StatusCodeCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category"},
	)

	ReservationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lzhub_reservations_total",
			Help: "Reservation operations by action (created, updated, rejected_capacity, rejected_conflict, status_changed, deleted)",
		},
		[]string{"action"},
	)

	QuizSubmissionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lzhub_quiz_submissions_total",
			Help: "Onboarding quiz submissions by result (passed, failed)",
		},
		[]string{"result"},
	)

	WarningsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lzhub_warnings_total",
			Help: "Warning lifecycle events by action (issued, acknowledged, refused, cleared)",
		},
		[]string{"action"},
	)

	PostsPublishedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lzhub_social_posts_published_total",
			Help: "Social posts published by trigger (manual, scheduler)",
		},
		[]string{"trigger"},
	)

	ChecklistItemsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lzhub_checklist_items_completed_total",
			Help: "Checklist items marked completed",
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			StatusCodeCategoryCounter,
			ReservationsCounter,
			QuizSubmissionsCounter,
			WarningsCounter,
			PostsPublishedCounter,
			ChecklistItemsCompleted,
		)
	})
}

// HTTPMetrics records request metrics for one service name.
type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	Register()
	return &HTTPMetrics{ServiceName: serviceName}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return ""
	}
}

// Middleware records count, duration and status category. The route template is used as
// the path label so ids do not explode cardinality.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)
		method := c.Request.Method

		RequestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, statusStr).
			Observe(time.Since(start).Seconds())
		if cat := statusCategory(status); cat != "" {
			StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, cat).Inc()
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
