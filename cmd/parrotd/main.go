// Package main is the entry point for the parrot theme daemon.
// parrotd serves the daily theme over HTTP, reports health over gRPC and
// rotates the active theme at local midnight.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/server"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configFile := flag.String("config", "", "config file (default is $HOME/.config/parrot/config.yaml)")
	logLevel := flag.String("log-level", "", "override logging level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "override logging format (json, console)")
	host := flag.String("host", "", "address to bind (default from config)")
	port := flag.Int("port", 0, "HTTP port (default from config)")
	flag.Parse()

	overrides := map[string]any{}
	if *logLevel != "" {
		overrides["logging.level"] = *logLevel
	}
	if *logFormat != "" {
		overrides["logging.format"] = *logFormat
	}
	if *host != "" {
		overrides["server.host"] = *host
	}
	if *port > 0 {
		overrides["server.port"] = *port
	}

	cfg, loader, err := loadConfig(*configFile, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var output io.Writer = os.Stderr
	if cfg.Logging.File != "" {
		f, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		output = f
	}
	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       output,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	logger := logging.Component("parrotd")

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Warn().Err(err).Msg("failed to create directories")
	}

	if cfgUsed := loader.ConfigFileUsed(); cfgUsed != "" {
		logger.Debug().Str("config_file", cfgUsed).Msg("loaded config file")
	}

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("built", date).
		Str("listen", cfg.Server.Host+":"+strconv.Itoa(cfg.Server.Port)).
		Msg("parrotd starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daemon, database, err := server.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize parrotd")
		os.Exit(1)
	}

	go func() {
		select {
		case <-daemon.Ready():
			logger.Info().
				Stringer("http", daemon.HTTPAddr()).
				Stringer("grpc", daemon.GRPCAddr()).
				Msg("parrotd ready")
		case <-ctx.Done():
		}
	}()

	runErr := daemon.Run(ctx)
	if err := database.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close database")
	}
	if runErr != nil {
		logger.Error().Err(runErr).Msg("parrotd exited with error")
		os.Exit(1)
	}
	logger.Info().Msg("parrotd stopped")
}

func loadConfig(path string, overrides map[string]any) (*config.Config, *config.Loader, error) {
	loader := config.NewLoader()
	if path != "" {
		loader.SetConfigFile(path)
	}
	for key, value := range overrides {
		loader.Set(key, value)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}
