// Copyright 2025 Author(s) of webhits
// SPDX-License-Identifier: Apache-2.0

package counter

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// IsConnectionError reports whether err is a connection-class failure: the
// store was unreachable or the connection dropped mid-command. Only these
// errors are worth retrying.
//
// A redis.Error is a reply from the server, which means the connection is
// fine and the command itself was rejected; those are never retried. Context
// errors are the caller giving up, not the store failing, so they are not
// connection errors either.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return false
	}
	if errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
