package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trends-explorer/internal/config"
	"trends-explorer/internal/handler"
	"trends-explorer/internal/service"
	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/logger"
	"trends-explorer/pkg/metrics"
	"trends-explorer/pkg/trends"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Server panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func (app *Application) Run() error {
	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return err
	}
	if app.debug {
		cfg.Logger.Level = "debug"
	}

	log := logger.New(cfg.Logger)
	logger.SetLogger(log)

	collector := metrics.NewCollector()
	client, err := trends.NewClient(cfg.Trends,
		trends.WithLogger(log),
		trends.WithRequestObserver(collector),
	)
	if err != nil {
		return fmt.Errorf("failed to create trends client: %w", err)
	}

	analyzer := analysis.NewAnalyzer(client, cfg.Analysis, log, collector)
	svc := service.NewTrendsService(analyzer, log)
	server := handler.NewController(svc, svc, collector.Handler(), log).App()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Dashboard listening")
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received, shutting down gracefully")
	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	if err := server.ShutdownWithTimeout(timeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
