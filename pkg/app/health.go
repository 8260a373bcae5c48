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

package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/webhits/core/pkg/store"
)

var healthCheckClient = &http.Client{}

// newHealthHandler builds the /healthz handler. The endpoint reports healthy
// only while the Redis store answers a ping.
func newHealthHandler(st *store.Store) http.Handler {
	checker := health.NewChecker(
		health.WithTimeout(3*time.Second),
		// Without this the checker caches results for 1s and keeps
		// reporting healthy after the store goes down.
		health.WithDisabledCache(),
		health.WithCheck(health.Check{
			Name:  "redis",
			Check: st.Ping,
		}),
	)
	return health.NewHandler(checker)
}

// HealthCheck performs a health check against a running server by sending an
// HTTP GET request to its /healthz endpoint. Used by the `health` subcommand
// and by monitoring.
func HealthCheck(out io.Writer, addr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/healthz", addr), nil)
	if err != nil {
		return fmt.Errorf("failed to create request for health check: %w", err)
	}

	resp, err := healthCheckClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Read the body fully so the underlying connection can be reused.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status code: %d", resp.StatusCode)
	}

	_, _ = fmt.Fprintln(out, "Health check successful: server is running and healthy.")
	return nil
}
