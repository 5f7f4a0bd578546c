// Package main provides the satellite stress HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"go.ngs.io/satstress/internal/adapter/love"
	"go.ngs.io/satstress/internal/adapter/nvf"
	"go.ngs.io/satstress/internal/adapter/store"
	"go.ngs.io/satstress/internal/config"
	"go.ngs.io/satstress/internal/domain"
	httpHandler "go.ngs.io/satstress/internal/http"
	"go.ngs.io/satstress/internal/logging"
	"go.ngs.io/satstress/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	configFile := flag.String("config", "", "Optional configuration file (YAML, JSON or TOML)")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("satstress-server version %s\n", version)
		return
	}

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	// Load configuration from environment and the optional file.
	cfg, err := config.Load(config.New(), configFile)
	if err != nil {
		return err
	}
	if err := cfg.RequireSatellite(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting satstress server",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("satellite", cfg.Satellite.File))

	solver, err := newSolver(cfg.Love, logger)
	if err != nil {
		return err
	}

	// Initialize store and use case. Forcings are built once, here.
	var loader store.SatelliteLoader = nvf.NewSatelliteStore("")
	stressUC, err := usecase.LoadStressUseCase(context.Background(), loader, cfg.Satellite.File, solver, logger)
	if err != nil {
		return err
	}

	// Setup router.
	router := httpHandler.SetupRouter(stressUC, cfg.Server.CORSAllowedOrigins)

	// Start server.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server listening",
		zap.String("addr", addr),
		zap.Strings("endpoints", []string{"GET /health", "GET /v1/satellite", "GET /v1/forcings", "GET /v1/stress"}))

	if err := router.Run(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// newSolver returns the static solver when Love numbers are configured
// directly, and the external program otherwise.
func newSolver(cfg config.LoveConfig, logger *zap.Logger) (domain.LoveSolver, error) {
	if cfg.Static != "" {
		ln, err := love.ParseStatic(cfg.Static)
		if err != nil {
			return nil, fmt.Errorf("invalid static Love numbers: %w", err)
		}
		logger.Info("using static Love numbers", zap.Stringer("love", ln))
		return love.StaticSolver{Love: ln}, nil
	}
	return love.NewExternalSolver(cfg.Program, cfg.Timeout, cfg.WorkDir, logger), nil
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Satellite Stress Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  satstress-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println("  -config FILE   Read configuration from FILE")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  SATSTRESS_SATELLITE_FILE               Satellite definition file (required)")
	fmt.Println("  SATSTRESS_SERVER_PORT                  Server port (default: 8080)")
	fmt.Println("  SATSTRESS_SERVER_CORS_ALLOWED_ORIGINS  Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  SATSTRESS_LOG_LEVEL                    debug, info, warn or error (default: info)")
	fmt.Println("  SATSTRESS_LOVE_PROGRAM                 Love number program (default: calcLoveWahr4Layer)")
	fmt.Println("  SATSTRESS_LOVE_TIMEOUT                 Per-run Love program timeout (default: 60s)")
	fmt.Println("  SATSTRESS_LOVE_WORKDIR                 Parent directory for Love program runs")
	fmt.Println("  SATSTRESS_LOVE_STATIC                  Fixed Love numbers h2r,h2i,k2r,k2i,l2r,l2i")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server for Europa")
	fmt.Println("  SATSTRESS_SATELLITE_FILE=europa.satellite satstress-server")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                        Health check")
	fmt.Println("  GET /v1/satellite[?format=text]    Satellite definition and derived quantities")
	fmt.Println("  GET /v1/forcings[?format=text]     Forcing frequencies, complex moduli and Love numbers")
	fmt.Println("  GET /v1/stress?lat=&lon=&t=        Surface stress tensor and principal stresses")
	fmt.Println()
}
