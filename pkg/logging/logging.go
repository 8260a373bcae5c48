// Copyright 2025 Author(s) of webhits
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	once          sync.Once
	defaultLogger *slog.Logger
)

// ForTestsOnlyResetLogger resets the `sync.Once` guard so that tests can
// re-initialize the global logger with their own output. It must not be used
// in production code.
func ForTestsOnlyResetLogger() {
	once = sync.Once{}
	defaultLogger = nil
}

// Init initializes the application's global logger. It is intended to be
// called exactly once at process start; subsequent calls are no-ops.
//
// Parameters:
//   - level: the minimum log level to record (e.g. `slog.LevelInfo`).
//   - output: the `io.Writer` log entries are written to (e.g. `os.Stdout`).
func Init(level slog.Level, output io.Writer) {
	once.Do(func() {
		defaultLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: level,
		}))
	})
}

// GetLogger returns the shared global logger. If `Init` was never called, the
// logger is initialized with defaults: `os.Stderr` at `slog.LevelInfo`.
func GetLogger() *slog.Logger {
	once.Do(func() {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	})
	return defaultLogger
}

// For returns the global logger scoped to a component, so that every entry a
// package emits carries a stable "component" attribute.
func For(component string) *slog.Logger {
	return GetLogger().With("component", component)
}
