package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

// registerPrometheusMetrics registers all Prometheus metrics with the
// default registry. Re-registration is tolerated so that tests can set up
// multiple routers.
func registerPrometheusMetrics() error {
	for _, c := range []prometheus.Collector{requestCount, requestDuration} {
		err := prometheus.Register(c)

		var alreadyRegistered prometheus.AlreadyRegisteredError
		if err != nil && !errors.As(err, &alreadyRegistered) {
			return fmt.Errorf("could not register %s with Prometheus", c)
		}
	}

	return nil
}

// MetricsMiddleware updates Prometheus metrics.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start)) / float64(time.Second)

		// Replace all URL parameters with their name to reduce cardinality
		// https://prometheus.io/docs/practices/naming/#labels
		url := c.Request.URL.Path
		for _, p := range c.Params {
			url = strings.Replace(url, p.Value, fmt.Sprintf(":%s", p.Key), 1)
		}

		requestDuration.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		requestCount.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}

// SessionMiddleware resolves the user flagged as logged in and sets it as
// the active user on the request context.
//
// When no user is flagged, the context stays without one and every scoped
// operation down the line refuses with an authentication error. A storage
// fault during resolution is a different failure: it must not masquerade as
// a missing login, so the request is aborted.
func SessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := session.ActiveUser(db)
		switch {
		case err == nil:
			c.Request = c.Request.WithContext(session.WithUser(c.Request.Context(), user.ID))
		case errors.Is(err, models.ErrResourceNotFound):
			// Nobody is logged in
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": models.ErrGeneral.Error()})
			return
		}

		c.Next()
	}
}
