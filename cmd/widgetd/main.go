// Command widgetd hosts the passive-display surface. It re-renders the widget
// at each local midnight or when a reload is published, and serves the
// timeline provider over gRPC.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/bondtracker-backend/internal/adapter/grpc"
	"github.com/simaogato/bondtracker-backend/internal/app"
	"github.com/simaogato/bondtracker-backend/internal/config"
	"github.com/simaogato/bondtracker-backend/internal/logging"
	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

const shutdownTimeout = 5 * time.Second

func main() {
	a := &cli.App{
		Name:  "widgetd",
		Usage: "serve and refresh the bond widget",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML configuration file",
				EnvVars: []string{"BONDTRACKER_CONFIG"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(c.Context, cfg)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// 1. Setup storage
	storage, err := app.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	// 2. Reload signals (optional)
	var reload <-chan struct{}
	reloads, err := app.OpenReloads(ctx, *cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("reload bus unavailable, refreshing at midnight only")
	}
	if reloads != nil {
		defer reloads.Close()
		reload, err = reloads.Bus.Subscribe(ctx)
		if err != nil {
			logger.WithError(err).Warn("failed to subscribe to reloads")
		}
	}

	// 3. Provider and scheduler
	provider := widget.NewTimelineProvider(storage.Settings, logger)
	provider.EntriesAhead = cfg.Widget.EntriesAhead
	scheduler := widget.NewScheduler(provider, renderer(logger), logger)

	// 4. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.LoggingInterceptor(logger.WithField("component", "grpc"))),
	)
	grpcadapter.RegisterWidgetTimelineServer(grpcServer, grpcadapter.NewServer(provider))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Widget.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Widget.GRPCAddr, err)
	}

	errs := make(chan error, 3)
	go func() {
		logger.Infof("gRPC server listening on %s", cfg.Widget.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errs <- fmt.Errorf("failed to serve gRPC server: %w", err)
		}
	}()

	// 5. Metrics
	var metricsServer *http.Server
	if cfg.Widget.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Widget.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Infof("metrics listening on %s", cfg.Widget.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("failed to serve metrics: %w", err)
			}
		}()
	}

	go func() {
		if err := scheduler.Run(ctx, reload); err != nil && !errors.Is(err, context.Canceled) {
			errs <- err
		}
	}()

	// Graceful shutdown
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
	case runErr = <-errs:
		logger.WithError(runErr).Error("widgetd stopping")
	}

	grpcServer.GracefulStop()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("metrics server shutdown")
		}
	}
	logger.Info("widgetd stopped")

	return runErr
}

// renderer logs each rendered timeline; the log stands in for the home-screen surface
func renderer(logger logrus.FieldLogger) widget.RenderFunc {
	return func(t widget.Timeline) {
		if len(t.Entries) == 0 {
			return
		}
		s := widget.Summarize(t.Entries[0])
		logger.WithFields(logrus.Fields{
			"headline":     s.Headline,
			"detail":       s.Detail,
			"progress":     s.Progress,
			"next_refresh": t.NextRefresh.Format(time.RFC3339),
		}).Info("widget rendered")
	}
}
