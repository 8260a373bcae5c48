/*
 * Copyright 2025 Author(s) of webhits
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package app wires the store, counter, and identity resolver into the HTTP
// server and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/webhits/core/pkg/config"
	"github.com/webhits/core/pkg/counter"
	"github.com/webhits/core/pkg/logging"
	"github.com/webhits/core/pkg/metrics"
	"github.com/webhits/core/pkg/store"
)

// Runner is the entry point contract used by the command layer.
type Runner interface {
	Run(ctx context.Context, cfg *config.Settings) error
}

// Application is the default Runner.
type Application struct{}

// NewApplication creates a new Application.
func NewApplication() *Application {
	return &Application{}
}

// Run starts the webhits server and blocks until ctx is canceled or a server
// fails to start. The Redis client is created once here and shared by every
// request for the life of the process.
func (a *Application) Run(ctx context.Context, cfg *config.Settings) error {
	log := logging.GetLogger()
	log.Info("Starting webhits service...")

	st := store.New(cfg.RedisAddr(), cfg.RedisDB())
	defer func() { _ = st.Close() }()

	ctr := counter.NewWithPolicy(st.Client(), cfg.CounterKey(), cfg.RetryBudget(), cfg.RetryDelay())

	serveMetricsInline := cfg.MetricsListenAddress() == ""
	handler := NewHandler(ctr, st, serveMetricsInline)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	startHTTPServer(ctx, &wg, errChan, "webhits HTTP", cfg.ListenAddress(), handler, cfg.ShutdownTimeout())

	if !serveMetricsInline {
		go func() {
			if err := metrics.StartServer(cfg.MetricsListenAddress()); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server failed", "error", err)
			}
		}()
	}

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start a server: %w", err)
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down gracefully...")
	}

	wg.Wait()
	log.Info("Server has shut down.")
	return nil
}

// startHTTPServer starts an HTTP server in a new goroutine and shuts it down
// gracefully when the context is canceled.
func startHTTPServer(ctx context.Context, wg *sync.WaitGroup, errChan chan<- error, name, addr string, handler http.Handler, shutdownTimeout time.Duration) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		serverLog := logging.GetLogger().With("server", name, "addr", addr)
		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 3 * time.Second,
		}

		go func() {
			serverLog.Info("HTTP server listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("[%s] server failed: %w", name, err)
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		serverLog.Info("Attempting to gracefully shut down server...")
		if err := server.Shutdown(shutdownCtx); err != nil {
			serverLog.Error("Shutdown error", "error", err)
		}
		serverLog.Info("Server shut down.")
	}()
}
