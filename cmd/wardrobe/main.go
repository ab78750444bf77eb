package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gcbaptista/go-wardrobe-search/api"
	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/internal/engine"
	"github.com/gcbaptista/go-wardrobe-search/internal/logger"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
)

const version = "1.0.0"

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML config file")
		port       = flag.Int("port", 0, "Port to run the server on (overrides config)")
		dataDir    = flag.String("data-dir", "", "Directory to store closet data (overrides config)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Wardrobe Search - ranked clothing search with a configurable query language\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                  # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config wardrobe.yaml       # Load settings from a file\n", os.Args[0])
		fmt.Printf("  %s --data-dir /tmp/wardrobe     # Use custom data directory\n", os.Args[0])
		return
	}

	if *showVer {
		fmt.Printf("Wardrobe Search v%s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	log := logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting wardrobe service", "version", version, "port", cfg.Port, "data_dir", cfg.DataDir)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	wardrobe := engine.NewEngine(cfg.DataDir,
		engine.WithLogger(log),
		engine.WithMetrics(m),
		engine.WithDefaultGrammar(cfg.Grammar),
	)
	log.Info("closets loaded", "count", len(wardrobe.ListClosets()))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.CORSMiddleware(), api.RequestSizeLimitMiddleware(cfg.MaxBodySize))
	api.SetupRoutes(router, wardrobe, api.WithLogger(logger.WithComponent("api")), api.WithMetrics(m))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.Timeouts.Read,
		WriteTimeout: cfg.Timeouts.Write,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("wardrobe service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	for _, name := range wardrobe.ListClosets() {
		if err := wardrobe.PersistClosetData(name); err != nil {
			slog.Error("failed to persist closet on shutdown", "closet", name, "error", err)
		}
	}
	slog.Info("wardrobe service stopped")
}
