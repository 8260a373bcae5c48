// Copyright 2025 Author(s) of webhits
// SPDX-License-Identifier: Apache-2.0

// Package middleware provides the HTTP middleware chain wrapped around the
// server's mux: request logging with latency metrics, and panic recovery.
package middleware

import (
	"net/http"
	"time"

	"github.com/webhits/core/pkg/logging"
	"github.com/webhits/core/pkg/metrics"
)

// statusRecorder captures the status code written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging returns a middleware that logs every request and records its
// latency. The status defaults to 200 when the handler never calls
// WriteHeader explicitly.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.IncrCounter([]string{"http", "requests"}, 1)
		metrics.MeasureSince([]string{"http", "request_duration"}, start)
		logging.For("http").Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// Recovery returns a middleware that converts a downstream panic into a 500
// response instead of tearing down the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.For("http").Error("panic in handler", "path", r.URL.Path, "error", rec)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
