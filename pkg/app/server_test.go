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
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Run("successful health check", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/healthz", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		var out bytes.Buffer
		err := HealthCheck(&out, strings.TrimPrefix(server.URL, "http://"), time.Second)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "healthy")
	})

	t.Run("failed health check with non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		var out bytes.Buffer
		err := HealthCheck(&out, strings.TrimPrefix(server.URL, "http://"), time.Second)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code: 503")
	})

	t.Run("unreachable server", func(t *testing.T) {
		var out bytes.Buffer
		err := HealthCheck(&out, "127.0.0.1:1", 200*time.Millisecond)
		assert.Error(t, err)
	})
}
