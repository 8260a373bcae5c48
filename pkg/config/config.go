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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/webhits/core/pkg/counter"
)

// Defaults for the server's connection parameters. They follow the classic
// compose setup: the store is reachable as "redis" on its standard port, and
// the web server listens on 5000.
const (
	DefaultListenAddress = ":5000"
	DefaultRedisAddr     = "redis:6379"
	DefaultCounterKey    = "hits"
)

// BindFlags binds the command line flags to viper.
func BindFlags(cmd *cobra.Command) {
	viper.SetEnvPrefix("WEBHITS")
	// Flag names use dashes; the matching env vars use underscores
	// (redis-addr is WEBHITS_REDIS_ADDR).
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	cmd.PersistentFlags().String("listen-address", DefaultListenAddress, "Address for the HTTP server to bind to. Env: WEBHITS_LISTEN_ADDRESS")
	if err := viper.BindPFlag("listen-address", cmd.PersistentFlags().Lookup("listen-address")); err != nil {
		fmt.Printf("Error binding listen-address flag: %v\n", err)
		os.Exit(1)
	}

	cmd.Flags().String("redis-addr", DefaultRedisAddr, "Address of the Redis store holding the visit counter. Env: WEBHITS_REDIS_ADDR")
	cmd.Flags().Int("redis-db", 0, "Redis database number. Env: WEBHITS_REDIS_DB")
	cmd.Flags().String("counter-key", DefaultCounterKey, "Redis key of the visit counter. Env: WEBHITS_COUNTER_KEY")
	cmd.Flags().Int("retry-budget", counter.DefaultRetryBudget, "Extra increment attempts after the first on connection failure. Env: WEBHITS_RETRY_BUDGET")
	cmd.Flags().Duration("retry-delay", counter.DefaultRetryDelay, "Fixed delay between increment attempts. Env: WEBHITS_RETRY_DELAY")
	cmd.Flags().String("metrics-listen-address", "", "Address for a standalone metrics server. If not set, metrics are served on the main listener. Env: WEBHITS_METRICS_LISTEN_ADDRESS")
	cmd.Flags().Bool("debug", false, "Enable debug logging. Env: WEBHITS_DEBUG")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error). Env: WEBHITS_LOG_LEVEL")
	cmd.Flags().String("logfile", "", "Path to a file to write logs to. If not set, logs are written to stdout.")
	cmd.Flags().Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown timeout. Env: WEBHITS_SHUTDOWN_TIMEOUT")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("Error binding command line flags: %v\n", err)
		os.Exit(1)
	}
}
