package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/server"
)

var (
	serveHost     string
	servePort     int
	serveGRPCPort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "address to bind (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default from config)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", -1, "gRPC health port, 0 disables (default from config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the theme API in the foreground",
	Long: `Run the HTTP theme API, the gRPC health service and the midnight
rotator until interrupted. Equivalent to running parrotd.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if serveHost != "" {
			cfg.Server.Host = serveHost
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if serveGRPCPort >= 0 {
			cfg.Server.GRPCPort = serveGRPCPort
		}
		if err := cfg.Validate(); err != nil {
			return &PreflightError{Message: "invalid server settings", Hint: err.Error(), Err: err}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := logging.Component("parrotd")
		daemon, database, err := server.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		return daemon.Run(ctx)
	},
}
