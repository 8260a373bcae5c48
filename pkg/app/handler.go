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
	"fmt"
	"net/http"

	"github.com/webhits/core/pkg/counter"
	"github.com/webhits/core/pkg/identity"
	"github.com/webhits/core/pkg/logging"
	"github.com/webhits/core/pkg/metrics"
	"github.com/webhits/core/pkg/middleware"
	"github.com/webhits/core/pkg/store"
)

// HitsHandler serves the single business route: resolve the local host's
// identity, increment the visit counter, and render both in a short HTML
// body. Either step failing yields the plain default server error response;
// there is no custom error page.
func HitsHandler(ctr *counter.Counter) http.Handler {
	log := logging.For("hits")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		id, err := identity.Resolve(r.Context())
		if err != nil {
			log.Error("identity resolution failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		count, err := ctr.Increment(r.Context())
		if err != nil {
			log.Error("counter increment failed", "key", ctr.Key(), "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		metrics.IncrCounter([]string{"hits", "served"}, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "Hostname: %s<br/>IP Address: %s<br/>I have been seen %d times.<br/>",
			id.Hostname, id.Address, count)
	})
}

// NewHandler assembles the server's full HTTP surface: the hits route,
// /healthz, optionally /metrics, all wrapped in the standard middleware
// chain. serveMetrics is false when metrics are exposed on a standalone
// listener instead.
func NewHandler(ctr *counter.Counter, st *store.Store, serveMetrics bool) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", HitsHandler(ctr))
	mux.Handle("/healthz", newHealthHandler(st))
	if serveMetrics {
		mux.Handle("/metrics", metrics.Handler())
	}
	return middleware.Recovery(middleware.Logging(mux))
}
