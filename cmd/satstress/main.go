// Package main provides the satstress command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.ngs.io/satstress/internal/adapter/love"
	"go.ngs.io/satstress/internal/adapter/nvf"
	"go.ngs.io/satstress/internal/config"
	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/logging"
)

var (
	// Global flags
	configFile  string
	logLevel    string
	loveProgram string
	loveTimeout time.Duration
	staticLove  string

	// Set up by the root command before any subcommand runs.
	logger *zap.Logger
	solver domain.LoveSolver
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "satstress",
	Short: "Tidal stresses on the surface of icy satellites",
	Long: `satstress calculates the surface stresses of a four layer icy satellite
(core, ocean, lower ice, upper ice) due to orbital eccentricity (diurnal
stresses) and non-synchronous rotation of a decoupled ice shell (NSR).

Satellites and calculation grids are described in NAME = VALUE files. Love
numbers come from an external four layer program unless --static-love is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New()
		flags := cmd.Root().PersistentFlags()
		for key, name := range map[string]string{
			"log.level":    "log-level",
			"love.program": "love-program",
			"love.timeout": "love-timeout",
			"love.static":  "static-love",
		} {
			if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
		cfg, err := config.Load(v, configFile)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log.Level)
		if err != nil {
			return err
		}
		solver, err = newSolver(cfg.Love)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&loveProgram, "love-program", love.DefaultProgram, "Four layer Love number program")
	rootCmd.PersistentFlags().DurationVar(&loveTimeout, "love-timeout", time.Minute, "Timeout for each Love number program run")
	rootCmd.PersistentFlags().StringVar(&staticLove, "static-love", "", "Use fixed Love numbers h2r,h2i,k2r,k2i,l2r,l2i instead of the program")

	// Command flags
	tensorCmd.Flags().Float64Var(&tensorLat, "lat", 0, "Latitude [deg north]")
	tensorCmd.Flags().Float64Var(&tensorLon, "lon", 0, "Longitude [deg east]")
	tensorCmd.Flags().Float64Var(&tensorTime, "time", 0, "Time after periapse [s]")
	tensorCmd.Flags().StringSliceVar(&tensorForcings, "forcings", nil, "Forcings to include (diurnal, nsr); default all")

	sampleCmd.Flags().Float64Var(&sampleLat, "lat", 0, "Latitude [deg north]")
	sampleCmd.Flags().Float64Var(&sampleLon, "lon", 0, "Longitude [deg east]")
	sampleCmd.Flags().IntVar(&sampleIndex, "index", 0, "Index along the time (diurnal) or nsr_period (NSR) axis")
	sampleCmd.Flags().StringVar(&sampleForcing, "forcing", "diurnal", "Forcing: diurnal or nsr")

	// Add commands to root
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(loveCmd)
	rootCmd.AddCommand(tensorCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(sampleCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newSolver returns the static solver when Love numbers are given directly,
// and the external program otherwise.
func newSolver(cfg config.LoveConfig) (domain.LoveSolver, error) {
	if cfg.Static != "" {
		ln, err := love.ParseStatic(cfg.Static)
		if err != nil {
			return nil, fmt.Errorf("invalid --static-love: %w", err)
		}
		logger.Debug("using static Love numbers", zap.Stringer("love", ln))
		return love.StaticSolver{Love: ln}, nil
	}
	return love.NewExternalSolver(cfg.Program, cfg.Timeout, cfg.WorkDir, logger), nil
}

// loadBody reads a satellite definition file.
func loadBody(path string) (domain.Body, error) {
	body, err := nvf.NewSatelliteStore("").LoadBody(path)
	if err != nil {
		return domain.Body{}, err
	}
	logger.Debug("loaded satellite",
		zap.String("path", path),
		zap.String("system_id", body.SystemID))
	return body, nil
}
