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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/webhits/core/pkg/app"
	"github.com/webhits/core/pkg/appconsts"
	"github.com/webhits/core/pkg/config"
	"github.com/webhits/core/pkg/logging"
	"github.com/webhits/core/pkg/metrics"
)

var appRunner app.Runner = app.NewApplication()

// newRootCmd creates and configures the main command for the application. It
// sets up the command-line flags (listen address, store connection, retry
// policy) with environment variable binding, and adds the `version` and
// `health` subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appconsts.Name,
		Short: "webhits is a Redis-backed visit counter web service.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfig()

			var logOutput io.Writer = os.Stdout
			if cfg.LogFile() != "" {
				fs := afero.NewOsFs()
				f, err := fs.OpenFile(cfg.LogFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					return fmt.Errorf("failed to open logfile: %w", err)
				}
				defer f.Close()
				logOutput = f
			}
			logging.Init(cfg.LogLevel(), logOutput)

			if err := metrics.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize metrics: %w", err)
			}

			log := logging.GetLogger().With("service", appconsts.Name)
			log.Info("Configuration",
				"listen-address", cfg.ListenAddress(),
				"redis-addr", cfg.RedisAddr(),
				"counter-key", cfg.CounterKey(),
				"retry-budget", cfg.RetryBudget(),
				"retry-delay", cfg.RetryDelay(),
			)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := appRunner.Run(ctx, cfg); err != nil {
				log.Error("Application failed", "error", err)
				return err
			}
			log.Info("Shutdown complete.")
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of webhits",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appconsts.Name, appconsts.Version)
			if err != nil {
				return fmt.Errorf("failed to print version: %w", err)
			}
			return nil
		},
	}
	rootCmd.AddCommand(versionCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Run a health check against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfig()
			addr := cfg.ListenAddress()
			if strings.HasPrefix(addr, ":") {
				addr = "localhost" + addr
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return app.HealthCheck(cmd.OutOrStdout(), addr, timeout)
		},
	}
	healthCmd.Flags().Duration("timeout", 5*time.Second, "Timeout for the health check.")
	rootCmd.AddCommand(healthCmd)

	config.BindFlags(rootCmd)

	return rootCmd
}

// main is the entry point for the webhits server. The process exits with a
// non-zero status code if the command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
