// Plantdocd is the plantdoc HTTP API daemon.
//
// It serves the diagnosis engine over HTTP along with a small embedded web
// front end, a health check, and Prometheus metrics.
//
// Usage:
//
//	# Start with defaults
//	plantdocd
//
//	# Configure via file or environment
//	plantdocd -config /etc/plantdoc/config.yaml
//	PLANTDOC_SERVER_PORT=9090 plantdocd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/config"
	"github.com/verdantlabs/plantdoc/internal/engine"
	"github.com/verdantlabs/plantdoc/internal/history"
	httpserver "github.com/verdantlabs/plantdoc/internal/http"
	"github.com/verdantlabs/plantdoc/internal/logging"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/plantdoc/config.yaml)")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  plantdocd           Start the plantdoc daemon\n")
			fmt.Fprintf(os.Stderr, "  plantdocd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("plantdocd\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the plantdoc daemon and blocks until the context is cancelled.
//
// Initialization order: configuration, logger, knowledge base (fatal if
// missing or malformed), engine, interaction history, HTTP server.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("starting plantdocd",
		zap.String("version", version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	// The knowledge base must load and contain the generic fallback record;
	// anything else is fatal at startup.
	cat, err := loadCatalog(cfg.Engine.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load plant catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.Int("plants", cat.Len()))

	eng, err := engine.New(cat, cfg.Engine, logger.Named("engine"))
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	var hist *history.Logger
	if cfg.History.Enabled {
		hist, err = history.New(cfg.History.Path, logger.Named("history"))
		if err != nil {
			// History is best-effort; the daemon runs without it.
			logger.Warn("failed to open interaction history", zap.Error(err))
		} else {
			defer hist.Close()
			logger.Info("interaction history enabled", zap.String("path", cfg.History.Path))
		}
	}

	srv, err := httpserver.NewServer(eng, hist, logger.Named("http"), &httpserver.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// loadCatalog loads the catalog from the configured path, or the embedded
// data when no path is set.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}
