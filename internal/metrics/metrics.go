// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics registers the Prometheus collectors exported by the
// service and exposes small helpers to record into them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes used as the "result" label.
const (
	FetchOK       = "ok"
	FetchNotFound = "not_found"
	FetchError    = "error"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgchart",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orgchart",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency broken down by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgchart",
		Subsystem: "hierarchy",
		Name:      "fetch_total",
		Help:      "Total number of hierarchy fetches broken down by result.",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "orgchart",
		Subsystem: "hierarchy",
		Name:      "fetch_duration_seconds",
		Help:      "Latency of hierarchy fetches including tree assembly.",
		Buckets:   prometheus.DefBuckets,
	})

	subtreeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "orgchart",
		Subsystem: "hierarchy",
		Name:      "subtree_size",
		Help:      "Number of employees returned by successful fetches.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	seededEmployees = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orgchart",
		Subsystem: "seed",
		Name:      "employees_total",
		Help:      "Total number of employees written by the seeder.",
	})
)

// ObserveFetch records one hierarchy fetch. size is ignored unless result is FetchOK.
func ObserveFetch(result string, d time.Duration, size int) {
	fetchTotal.WithLabelValues(result).Inc()
	fetchDuration.Observe(d.Seconds())
	if result == FetchOK {
		subtreeSize.Observe(float64(size))
	}
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// AddSeeded records rows written by the seeder.
func AddSeeded(n int) {
	seededEmployees.Add(float64(n))
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
