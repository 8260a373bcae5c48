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

package counter

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

// freeAddr reserves a port and releases it so a later listener can claim it.
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestIncrement_Monotonic(t *testing.T) {
	_, client := setupMiniredis(t)
	c := New(client, "hits")

	for want := int64(1); want <= 3; want++ {
		got, err := c.Increment(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIncrement_ReturnsPostIncrementValue(t *testing.T) {
	s, client := setupMiniredis(t)
	require.NoError(t, s.Set("hits", "41"))

	c := New(client, "hits")
	got, err := c.Increment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestIncrement_SixAttemptsOnConnectionFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	for i := 0; i < 6; i++ {
		mock.ExpectIncr("hits").SetErr(io.EOF)
	}

	c := NewWithPolicy(db, "hits", 5, time.Millisecond)
	got, err := c.Increment(context.Background())

	assert.Zero(t, got)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, mock.ExpectationsWereMet(), "exactly 6 attempts expected")
}

func TestIncrement_RecoversWithinBudget(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectIncr("hits").SetErr(io.EOF)
	mock.ExpectIncr("hits").SetErr(io.EOF)
	mock.ExpectIncr("hits").SetVal(7)

	c := NewWithPolicy(db, "hits", 5, time.Millisecond)
	got, err := c.Increment(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrement_RecoversWhenStoreComesBack(t *testing.T) {
	addr := freeAddr(t)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	// Bring the store up partway through the retry window.
	s := miniredis.NewMiniRedis()
	t.Cleanup(s.Close)
	go func() {
		time.Sleep(250 * time.Millisecond)
		_ = s.StartAddr(addr)
	}()

	c := NewWithPolicy(client, "hits", 5, 100*time.Millisecond)
	got, err := c.Increment(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestIncrement_SurfacesConnectionErrorAfterExhaustion(t *testing.T) {
	addr := freeAddr(t)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	c := NewWithPolicy(client, "hits", 2, 50*time.Millisecond)

	start := time.Now()
	got, err := c.Increment(context.Background())
	elapsed := time.Since(start)

	assert.Zero(t, got)
	require.Error(t, err)
	assert.True(t, IsConnectionError(err), "expected a connection-class error, got %v", err)
	// 2 consumed retries means at least 2 delays were honored.
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestIncrement_ReplyErrorNotRetried(t *testing.T) {
	s, client := setupMiniredis(t)
	require.NoError(t, s.Set("hits", "not-a-number"))

	c := NewWithPolicy(client, "hits", 5, time.Minute)

	start := time.Now()
	got, err := c.Increment(context.Background())

	assert.Zero(t, got)
	require.Error(t, err)
	assert.False(t, IsConnectionError(err))
	// A retry would have slept for a minute.
	assert.Less(t, time.Since(start), time.Second)
}

func TestIncrement_ContextCanceledDuringDelay(t *testing.T) {
	addr := freeAddr(t)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	c := NewWithPolicy(client, "hits", 5, time.Minute)
	_, err := c.Increment(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"closed client", redis.ErrClosed, true},
		{"net op error", &net.OpError{Op: "dial", Err: io.EOF}, true},
		{"reply error", redis.Nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"unclassified", assert.AnError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}
