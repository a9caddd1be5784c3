// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_page_cache_hits_total",
		Help: "Home page cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_page_cache_misses_total",
		Help: "Home page cache misses.",
	})

	FollowActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_actions_total",
		Help: "Follow edge changes by action (follow, unfollow).",
	}, []string{"action"})
)
