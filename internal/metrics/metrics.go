package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain metrics
	enquiriesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_enquiries_created_total",
			Help: "Enquiries created, by segment",
		},
		[]string{"segment"},
	)

	enquiriesUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_enquiries_updated_total",
			Help: "Enquiry edits, by resulting status",
		},
		[]string{"status"},
	)

	customersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_customers_created_total",
			Help: "Customers created, by source (form or enquiry)",
		},
		[]string{"source"},
	)

	signIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_sign_ins_total",
			Help: "Sign-in attempts, by result",
		},
		[]string{"result"},
	)

	eventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_event_subscribers",
			Help: "Open change-event subscriptions",
		},
	)
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordEnquiryCreated(segment string) {
	enquiriesCreated.WithLabelValues(segment).Inc()
}

func RecordEnquiryUpdated(status string) {
	enquiriesUpdated.WithLabelValues(status).Inc()
}

// RecordCustomerCreated counts a new customer; source is "form" or "enquiry".
func RecordCustomerCreated(source string) {
	customersCreated.WithLabelValues(source).Inc()
}

func RecordSignIn(ok bool) {
	result := "rejected"
	if ok {
		result = "ok"
	}
	signIns.WithLabelValues(result).Inc()
}

func SubscriberAdded()   { eventSubscribers.Inc() }
func SubscriberRemoved() { eventSubscribers.Dec() }
