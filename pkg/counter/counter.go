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

// Package counter implements the resilient visit counter: a single Redis
// INCR wrapped in a bounded retry loop. Atomicity of the increment itself is
// entirely the store's responsibility; this package only decides when a
// failed attempt is worth repeating.
package counter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/webhits/core/pkg/logging"
	"github.com/webhits/core/pkg/metrics"
)

// Default retry policy: 5 extra attempts after the first, half a second
// apart.
const (
	DefaultRetryBudget = 5
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Counter increments a named integer in Redis, retrying a bounded number of
// times on connection failure. It holds no mutable state of its own, so a
// single Counter may be shared across concurrent requests.
type Counter struct {
	rdb         redis.Cmdable
	key         string
	retryBudget int
	retryDelay  time.Duration
}

// New creates a Counter for key with the default retry policy (5 extra
// attempts, 500ms fixed delay).
func New(rdb redis.Cmdable, key string) *Counter {
	return NewWithPolicy(rdb, key, DefaultRetryBudget, DefaultRetryDelay)
}

// NewWithPolicy creates a Counter with an explicit retry policy. retryBudget
// is the number of extra attempts after the first, so the total attempt count
// is retryBudget+1.
func NewWithPolicy(rdb redis.Cmdable, key string, retryBudget int, retryDelay time.Duration) *Counter {
	return &Counter{
		rdb:         rdb,
		key:         key,
		retryBudget: retryBudget,
		retryDelay:  retryDelay,
	}
}

// Key returns the Redis key the counter increments.
func (c *Counter) Key() string {
	return c.key
}

// Increment atomically increments the counter and returns the post-increment
// value.
//
// On a connection-class failure it waits the fixed delay and tries again,
// consuming one unit of retry budget per repeat. The budget is checked before
// it is consumed, so with a budget of 5 the store is contacted at most 6
// times; the final failure surfaces the underlying connection error itself,
// not a synthesized "exhausted" error. Any other failure (a Redis reply error
// such as WRONGTYPE, or the caller's context expiring) propagates immediately
// without a retry.
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	log := logging.For("counter")
	retries := c.retryBudget
	for {
		n, err := c.rdb.Incr(ctx, c.key).Result()
		if err == nil {
			metrics.IncrCounter([]string{"counter", "increments"}, 1)
			return n, nil
		}
		if !IsConnectionError(err) {
			return 0, err
		}
		if retries == 0 {
			metrics.IncrCounter([]string{"counter", "exhausted"}, 1)
			return 0, err
		}
		retries--
		metrics.IncrCounter([]string{"counter", "retries"}, 1)
		log.Warn("store unreachable, retrying increment", "key", c.key, "remaining", retries, "error", err)

		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}
