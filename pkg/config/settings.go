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

package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the resolved server configuration for a single run. It is
// populated from flags and environment variables by LoadServerConfig and is
// read-only afterwards, so it may be shared freely across goroutines.
type Settings struct {
	listenAddress        string
	redisAddr            string
	redisDB              int
	counterKey           string
	retryBudget          int
	retryDelay           time.Duration
	metricsListenAddress string
	debug                bool
	logLevel             string
	logFile              string
	shutdownTimeout      time.Duration
}

// LoadServerConfig reads the bound flag and environment values into a
// Settings snapshot. BindFlags must have been called on the command first.
func LoadServerConfig() *Settings {
	return &Settings{
		listenAddress:        viper.GetString("listen-address"),
		redisAddr:            viper.GetString("redis-addr"),
		redisDB:              viper.GetInt("redis-db"),
		counterKey:           viper.GetString("counter-key"),
		retryBudget:          viper.GetInt("retry-budget"),
		retryDelay:           viper.GetDuration("retry-delay"),
		metricsListenAddress: viper.GetString("metrics-listen-address"),
		debug:                viper.GetBool("debug"),
		logLevel:             viper.GetString("log-level"),
		logFile:              viper.GetString("logfile"),
		shutdownTimeout:      viper.GetDuration("shutdown-timeout"),
	}
}

// ListenAddress returns the HTTP server bind address. A bare port is
// normalized to a ":port" form so it binds on all interfaces.
func (s *Settings) ListenAddress() string {
	addr := s.listenAddress
	if addr != "" && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	return addr
}

// RedisAddr returns the address of the Redis store.
func (s *Settings) RedisAddr() string {
	return s.redisAddr
}

// RedisDB returns the Redis database number.
func (s *Settings) RedisDB() int {
	return s.redisDB
}

// CounterKey returns the Redis key of the visit counter.
func (s *Settings) CounterKey() string {
	return s.counterKey
}

// RetryBudget returns the number of extra increment attempts allowed after
// the first one fails with a connection error.
func (s *Settings) RetryBudget() int {
	return s.retryBudget
}

// RetryDelay returns the fixed delay between increment attempts.
func (s *Settings) RetryDelay() time.Duration {
	return s.retryDelay
}

// MetricsListenAddress returns the standalone metrics server address, or
// empty if metrics are served on the main listener.
func (s *Settings) MetricsListenAddress() string {
	return s.metricsListenAddress
}

// IsDebug returns whether debug mode is enabled.
func (s *Settings) IsDebug() bool {
	return s.debug
}

// LogFile returns the path to the log file.
func (s *Settings) LogFile() string {
	return s.logFile
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (s *Settings) ShutdownTimeout() time.Duration {
	return s.shutdownTimeout
}

// LogLevel resolves the effective slog level from the debug flag and the
// log-level string. Unknown values fall back to Info.
func (s *Settings) LogLevel() slog.Level {
	if s.debug {
		return slog.LevelDebug
	}
	switch strings.ToLower(s.logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
