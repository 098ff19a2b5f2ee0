package prometheus

import (
	"scanpay/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	OtpRequestsCounter prometheus.Counter
	AuthSuccessCounter prometheus.Counter
	AuthErrorsCounter  prometheus.Counter

	// Catalog metrics
	CatalogPullsCounter   prometheus.Counter
	CatalogLookupsCounter prometheus.CounterVec

	// Order metrics
	OrdersCreatedCounter  prometheus.Counter
	OrdersRejectedCounter prometheus.CounterVec
	OrderTotalHistogram   prometheus.Histogram

	// Payment metrics
	PaymentVerificationsCounter prometheus.CounterVec

	// Receipt metrics
	ReceiptVerificationsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	OtpRequestsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_otp_requests_total",
			Help: "Total number of OTP challenges issued",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful OTP verifications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of failed OTP verifications",
		},
	)

	// Catalog metrics
	CatalogPullsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_pulls_total",
			Help: "Total number of catalog delta pulls served",
		},
	)

	CatalogLookupsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_lookups_total",
			Help: "Total number of single-product lookups by key kind and outcome",
		},
		[]string{"key", "outcome"},
	)

	// Order metrics
	OrdersCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_orders_created_total",
			Help: "Total number of pending orders created",
		},
	)

	OrdersRejectedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_orders_rejected_total",
			Help: "Total number of rejected checkout attempts by reason",
		},
		[]string{"reason"},
	)

	OrderTotalHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_order_total",
			Help:    "Distribution of trusted order totals",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 25000},
		},
	)

	// Payment metrics
	PaymentVerificationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payment_verifications_total",
			Help: "Total number of payment verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Receipt metrics
	ReceiptVerificationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_receipt_verifications_total",
			Help: "Total number of exit-gate receipt checks by outcome",
		},
		[]string{"outcome"},
	)
}
