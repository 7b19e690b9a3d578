package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/internal/analyzer/grpcapi"
	"github.com/msto63/lexzig/internal/analyzer/server"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/pkg/core/config"
	coregrpc "github.com/msto63/lexzig/pkg/core/grpc"
	"github.com/msto63/lexzig/pkg/core/health"
	"github.com/msto63/lexzig/pkg/core/logging"
	"github.com/msto63/lexzig/pkg/core/version"
)

var (
	servePort     int
	serveGRPCPort int
	serveGRPC     bool
	serveHistory  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API",
	Long: `Starts the HTTP API with its websocket endpoint and, when enabled,
the gRPC Analyzer service.

HTTP routes:
  POST /                 analyze {"code": "..."}
  POST /api/v1/analyze   same as POST /
  POST /api/v1/tokens    tokens only
  GET  /api/v1/health    health report
  GET  /api/v1/history   recorded analyses
  GET  /api/v1/ws        websocket live analysis

Examples:
  lexzig serve
  lexzig serve --port 8080 --grpc --history`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides config)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port (overrides config, enables gRPC)")
	serveCmd.Flags().BoolVar(&serveGRPC, "grpc", false, "enable the gRPC service")
	serveCmd.Flags().BoolVar(&serveHistory, "history", false, "record analyses in the history database")
}

func applyServeFlags(cfg *config.Config) error {
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveGRPCPort != 0 {
		cfg.GRPC.Port = serveGRPCPort
		cfg.GRPC.Enabled = true
	}
	if serveGRPC {
		cfg.GRPC.Enabled = true
	}
	if serveHistory {
		cfg.History.Enabled = true
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg, "lexzig-serve", false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logging.CloseGlobalFileWriter()

	svc, err := newService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.HistoryEnabled() && cfg.History.Retention.Duration > 0 {
		if _, err := svc.PruneHistory(cmd.Context(), cfg.History.Retention.Duration); err != nil {
			logger.LogError(err)
		}
	}

	httpServer, err := server.New(server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout.Duration,
		WriteTimeout:   cfg.Server.WriteTimeout.Duration,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		Version:        version.Server,
		CORSEnabled:    cfg.Server.CORS.Enabled,
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		AllowedMethods: cfg.Server.CORS.AllowedMethods,
		Logger:         logger,
	}, svc)
	if err != nil {
		return err
	}
	if err := httpServer.StartAsync(); err != nil {
		return err
	}

	var grpcServer *coregrpc.Server
	if cfg.GRPC.Enabled {
		grpcServer, err = startGRPC(cfg, svc, logger)
		if err != nil {
			httpServer.Stop(context.Background())
			return err
		}
		httpServer.HealthRegistry().Register(grpcHealthCheck(grpcServer.Address()))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "LexZig %s\n", version.Platform)
	fmt.Fprintf(out, "  HTTP API:  http://%s\n", httpServer.Address())
	fmt.Fprintf(out, "  WebSocket: ws://%s/api/v1/ws\n", httpServer.Address())
	if grpcServer != nil {
		fmt.Fprintf(out, "  gRPC:      %s (%s)\n", grpcServer.Address(), grpcapi.ServiceName)
	}
	if svc.HistoryEnabled() {
		fmt.Fprintf(out, "  History:   %s\n", cfg.History.Path)
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.StopWithTimeout(shutdownCtx)
	}
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", mdwlog.Fields{"error": err.Error()})
	}
	return nil
}

// grpcHealthCheck probes the gRPC listener from the HTTP health route.
// Wildcard listen addresses are dialed on loopback.
func grpcHealthCheck(address string) health.Checker {
	host, port, err := net.SplitHostPort(address)
	if err == nil {
		if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
			address = net.JoinHostPort("127.0.0.1", port)
		}
	}
	return health.TCPCheck("grpc", address, 2*time.Second)
}

func startGRPC(cfg *config.Config, svc *service.Service, logger *mdwlog.Logger) (*coregrpc.Server, error) {
	srv := coregrpc.NewServer(coregrpc.ServerConfig{
		Host:             cfg.GRPC.Host,
		Port:             cfg.GRPC.Port,
		MaxRecvMsgSize:   cfg.GRPC.MaxRecvMsgSize,
		EnableReflection: cfg.GRPC.EnableReflection,
		Logger:           logger.WithField("component", "grpc-server"),
	})

	grpcapi.Register(srv.GRPCServer(), svc)

	hs := grpchealth.NewServer()
	hs.SetServingStatus(grpcapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv.GRPCServer(), hs)

	if err := srv.StartAsync(); err != nil {
		return nil, err
	}
	return srv, nil
}
