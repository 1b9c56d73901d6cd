// Package main provides the lifestream binary entry point. Lifestream
// aggregates activity from a blog feed, a twitter timeline, and a
// code-hosting activity stream into one de-duplicated unified timeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacobemerick/lifestream-service/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "lifestream"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Personal activity aggregation service",
		Long: `Lifestream pulls raw activity records from a blog feed, a twitter
timeline, and a code-hosting events stream, normalizes each record into
a unified event, and persists them de-duplicated by (source, foreign id).`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization pass over all enabled sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), configPath, logLevel)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run scheduled synchronization passes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func setup(configPath, logLevel string) (*config.Config, *slog.Logger, error) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, logger, nil
}

func runSync(ctx context.Context, configPath, logLevel string) error {
	cfg, logger, err := setup(configPath, logLevel)
	if err != nil {
		return err
	}

	app := NewApp(cfg, logger)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Shutdown(5 * time.Second)

	reports, err := app.RunOnce(ctx)
	for _, r := range reports {
		fmt.Printf("%s: %d inserted, %d updated, %d skipped, %d failed\n",
			r.Source, r.Report.Inserted, r.Report.Updated, r.Report.Skipped, r.Report.Failed)
	}

	return err
}

func runServe(configPath, logLevel string) error {
	cfg, logger, err := setup(configPath, logLevel)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := NewApp(cfg, logger)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Shutdown(5 * time.Second)

	return app.Serve(ctx)
}
