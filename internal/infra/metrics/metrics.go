package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gallery_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Derivatives counts processed uploads by how their derivatives were made.
	Derivatives = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_image_derivatives_total",
		Help: "Processed uploads by derivative mode (resized or copied).",
	}, []string{"mode"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	CSRFRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_csrf_rejections_total",
		Help: "Unsafe requests rejected for a missing or bad CSRF token.",
	})
)

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
