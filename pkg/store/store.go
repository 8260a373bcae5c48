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

// Package store owns the long-lived Redis client handle. The client is
// created once at process start and shared across all request-handling
// goroutines; go-redis manages the underlying connection pool.
package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store wraps the shared Redis client.
type Store struct {
	client *redis.Client
}

// New creates a Store connected to the Redis instance at addr. The connection
// is established lazily; an unreachable store surfaces as errors on the first
// command, not here.
func New(addr string, db int) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
		// The counter owns retrying; the client must not add its own.
		MaxRetries: -1,
	}))
}

// NewWithClient creates a Store around an existing Redis client. Used by
// tests to substitute miniredis or a mock.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client returns the underlying Redis client.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Ping checks that the store is reachable. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
