package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/jacobemerick/lifestream-service/config"
	"github.com/jacobemerick/lifestream-service/event"
	"github.com/jacobemerick/lifestream-service/metrics"
	"github.com/jacobemerick/lifestream-service/process"
	"github.com/jacobemerick/lifestream-service/source"
)

// Syncer is one source synchronization pass.
type Syncer interface {
	Sync(ctx context.Context) (process.Report, error)
}

// SourceReport pairs a source name with the report of its last pass.
type SourceReport struct {
	Source string
	Report process.Report
}

type namedSyncer struct {
	name   string
	syncer Syncer
}

// App wires configuration, storage, clients, and synchronizers.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	embeddedServer *server.Server
	natsConn       *nats.Conn

	store   event.Store
	syncers []namedSyncer
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Start initializes the store and the enabled synchronizers.
func (a *App) Start(ctx context.Context) error {
	if err := a.startStore(ctx); err != nil {
		return err
	}

	if a.cfg.Blog.Enabled {
		client := source.NewBlogClient(a.cfg.Blog.FeedURL, nil)
		a.syncers = append(a.syncers, namedSyncer{
			name:   string(event.SourceBlog),
			syncer: process.NewBlog(client, a.store, a.cfg.Author, a.logger),
		})
	}
	if a.cfg.Twitter.Enabled {
		client := source.NewTwitterClient(a.cfg.Twitter.Endpoint, a.cfg.Twitter.ScreenName, a.cfg.Twitter.Token, nil)
		a.syncers = append(a.syncers, namedSyncer{
			name:   string(event.SourceTwitter),
			syncer: process.NewTwitter(client, a.store, a.cfg.Author, a.logger),
		})
	}
	if a.cfg.Code.Enabled {
		client := source.NewCodeClient(a.cfg.Code.Endpoint, a.cfg.Code.Username, nil)
		a.syncers = append(a.syncers, namedSyncer{
			name:   string(event.SourceCode),
			syncer: process.NewCode(client, a.store, a.cfg.Author, a.logger),
		})
	}

	if len(a.syncers) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	a.logger.Info("Lifestream ready",
		"version", Version,
		"sources", len(a.syncers),
		"store", a.cfg.Store.Backend)
	return nil
}

func (a *App) startStore(ctx context.Context) error {
	if a.cfg.Store.Backend == "memory" {
		a.store = event.NewMemoryStore()
		return nil
	}

	if err := a.startNATS(); err != nil {
		return fmt.Errorf("start NATS: %w", err)
	}

	js, err := jetstream.New(a.natsConn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := event.NewKVStore(ctx, js)
	if err != nil {
		return fmt.Errorf("initialize event store: %w", err)
	}
	a.store = store

	return nil
}

func (a *App) startNATS() error {
	if a.cfg.NATS.URL != "" && !a.cfg.NATS.Embedded {
		a.logger.Info("Connecting to NATS", "url", a.cfg.NATS.URL)
		conn, err := nats.Connect(a.cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		a.natsConn = conn
		return nil
	}

	// Start embedded NATS server
	a.logger.Info("Starting embedded NATS server")
	opts := &server.Options{
		Port:      -1, // Random available port
		JetStream: true,
		StoreDir:  a.cfg.NATS.StoreDir,
		NoLog:     true,
		NoSigs:    true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return fmt.Errorf("create embedded NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return fmt.Errorf("embedded NATS server failed to start")
	}
	a.embeddedServer = ns

	conn, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		return fmt.Errorf("connect to embedded NATS: %w", err)
	}
	a.natsConn = conn

	return nil
}

// RunOnce runs one synchronization pass per enabled source. Sources are
// independent: a failed source aborts only its own pass. The combined
// error joins every per-source failure.
func (a *App) RunOnce(ctx context.Context) ([]SourceReport, error) {
	reports := make([]SourceReport, 0, len(a.syncers))
	var errs []error

	for _, s := range a.syncers {
		start := time.Now()
		report, err := s.syncer.Sync(ctx)
		metrics.ObserveRun(s.name, report, time.Since(start), err)

		if err != nil {
			a.logger.Error("Sync failed", "source", s.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
		reports = append(reports, SourceReport{Source: s.name, Report: report})
	}

	return reports, errors.Join(errs...)
}

// Serve runs scheduled passes until the context is canceled.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Metrics.Enabled {
		go a.serveMetrics(ctx)
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(a.cfg.Schedule, func() {
		if _, err := a.RunOnce(ctx); err != nil {
			a.logger.Error("Scheduled run finished with errors", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", a.cfg.Schedule, err)
	}

	// One immediate pass, then the schedule takes over.
	if _, err := a.RunOnce(ctx); err != nil {
		a.logger.Error("Initial run finished with errors", "error", err)
	}

	scheduler.Start()
	<-ctx.Done()
	scheduler.Stop()

	return nil
}

func (a *App) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("Serving metrics", "addr", a.cfg.Metrics.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("Metrics server failed", "error", err)
	}
}

// Shutdown gracefully stops all components. The timeout bounds the
// whole shutdown; components that miss it are abandoned.
func (a *App) Shutdown(timeout time.Duration) {
	deadline := time.Now().Add(timeout)

	if a.natsConn != nil {
		_ = a.natsConn.FlushTimeout(time.Until(deadline))
		a.natsConn.Close()
	}

	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()

		done := make(chan struct{})
		go func() {
			a.embeddedServer.WaitForShutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Until(deadline)):
			a.logger.Warn("Embedded NATS server did not stop within shutdown timeout")
		}
	}
}
