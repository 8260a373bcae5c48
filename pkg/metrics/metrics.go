// Copyright 2025 Author(s) of webhits
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/armon/go-metrics"
	"github.com/armon/go-metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once
	initErr  error
)

// Initialize prepares the metrics system with a Prometheus sink. It sets up a
// global collector usable throughout the application; the metrics are exposed
// on the /metrics endpoint.
func Initialize() error {
	initOnce.Do(func() {
		sink, err := prometheus.NewPrometheusSink()
		if err != nil {
			initErr = err
			return
		}

		conf := metrics.DefaultConfig("webhits")
		conf.EnableHostname = false

		_, initErr = metrics.NewGlobal(conf, sink)
	})
	return initErr
}

// Handler returns an http.Handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer starts a standalone HTTP server exposing the metrics. Used when
// metrics are scraped on a different port than the main listener.
func StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return server.ListenAndServe()
}

// IncrCounter increments a counter.
func IncrCounter(name []string, val float32) {
	metrics.IncrCounter(name, val)
}

// MeasureSince records the time elapsed since start.
func MeasureSince(name []string, start time.Time) {
	metrics.MeasureSince(name, start)
}
