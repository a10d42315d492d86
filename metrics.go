package bloglist

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthFailureRecorder counts rejected authentication and ownership checks
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// Metrics collects the HTTP and auth metrics of the API
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	authFailures *prometheus.CounterVec
	blogsCreated prometheus.Counter
	usersCreated prometheus.Counter
}

var _ AuthFailureRecorder = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloglist_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloglist_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloglist_auth_failures_total",
			Help: "Rejected requests by failure reason",
		}, []string{"reason"}),
		blogsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloglist_blogs_created_total",
			Help: "Blogs created",
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloglist_users_created_total",
			Help: "Users registered",
		}),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.authFailures,
		m.blogsCreated,
		m.usersCreated,
	)

	return m
}

// RecordAuthFailure counts one rejected request. Nil receivers are ignored.
func (m *Metrics) RecordAuthFailure(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordBlogCreated() {
	if m == nil {
		return
	}
	m.blogsCreated.Inc()
}

func (m *Metrics) RecordUserCreated() {
	if m == nil {
		return
	}
	m.usersCreated.Inc()
}

// Middleware observes every request. Errors have not been translated yet
// when it runs, so the status is derived with StatusFor.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}

		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return err
	}
}

// MetricsHandler serves the Prometheus scrape endpoint
func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
