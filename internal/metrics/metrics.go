package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of pending orders created at checkout",
	})

	PaymentsVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Total number of payment verification attempts by result",
	}, []string{"result"})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart operations by kind",
	}, []string{"op"})

	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of registered users",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
