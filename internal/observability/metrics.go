// Package observability holds the Prometheus collectors shared by the HTTP
// layer and the services.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplist_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shoplist_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthFailuresTotal counts rejected credentials and tokens by reason.
	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplist_auth_failures_total",
		Help: "Total number of failed authentication attempts",
	}, []string{"reason"})

	// UnitOfWorkFailuresTotal counts compound writes that were rolled back
	// because of a store error.
	UnitOfWorkFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplist_unit_of_work_failures_total",
		Help: "Total number of transactional operations rolled back on store errors",
	}, []string{"operation"})

	// SuggestionRequestsTotal counts outbound suggestion calls by outcome.
	SuggestionRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplist_suggestion_requests_total",
		Help: "Total number of suggestion provider calls",
	}, []string{"outcome"})
)
