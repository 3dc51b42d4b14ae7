package health

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "njatashiz",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "njatashiz",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

var (
	PieceMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "njatashiz",
			Subsystem: "admin",
			Name:      "piece_mutations_total",
			Help:      "Piece mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	Inquiries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "njatashiz",
			Subsystem: "gallery",
			Name:      "inquiries_total",
			Help:      "Visitor inquiries by locale and outcome",
		},
		[]string{"locale", "outcome"},
	)
)
