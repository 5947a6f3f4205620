package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/driveaddon/internal/addon"
	"github.com/teemow/driveaddon/internal/instrumentation"
	"github.com/teemow/driveaddon/internal/server"
	"github.com/teemow/driveaddon/internal/tools/drive_tools"
)

// Supported --transport values.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = server.TransportStreamableHTTP
	transportSSE            = server.TransportSSE
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		transport      string
		httpAddr       string
		yolo           bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server exposing the Drive addon actions as tools.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on /mcp
  - sse: Server-sent events on /sse and /message

HTTP transports also serve /healthz, /readyz and /healthz/detailed.

By default the server runs in read-only mode: drive_delete_document is not
registered. Use --yolo to enable it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), transport, httpAddr, yolo, MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, streamable-http or sse")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http and sse transports)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (moving files to trash)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(ctx context.Context, transport string, httpAddr string, yolo bool, metricsConfig MetricsConfig) error {
	switch transport {
	case transportStdio, transportStreamableHTTP, transportSSE:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http, sse)", transport)
	}

	// Load metrics config from environment if not set via flags
	if !metricsConfig.Enabled {
		if os.Getenv("METRICS_ENABLED") == "true" {
			metricsConfig.Enabled = true
		}
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil && transport != transportStdio {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	// Start metrics server if enabled, not in stdio mode, and metrics are
	// scraped rather than pushed
	if transport != transportStdio && metricsConfig.Enabled && provider.PrometheusHandler() != nil {
		metricsServer, err := startMetricsServer(metricsConfig, provider)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}()
	}

	var opts []addon.Option
	var auditLogger *instrumentation.AuditLogger
	if provider.Enabled() {
		auditLogger = instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging)
		opts = append(opts, addon.WithMetrics(provider.Metrics()), addon.WithAuditLogger(auditLogger))
	}

	driveAddon, err := newAddon(false, opts...)
	if err != nil {
		return err
	}
	if driveAddon.Config() == nil && transport != transportStdio {
		log.Printf("Warning: no addon configuration given (use --config or %s); tools will answer 500 until one is loaded", configEnvVar)
	}

	serverContext, err := server.NewServerContext(ctx, driveAddon)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil && transport != transportStdio {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("driveaddon", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	// Log the mode for visibility (only for non-stdio transports)
	if transport != transportStdio {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	if err := drive_tools.RegisterDriveTools(mcpSrv, serverContext, readOnly); err != nil {
		return fmt.Errorf("failed to register Drive tools: %w", err)
	}

	if transport == transportStdio {
		return runStdioServer(mcpSrv)
	}
	fmt.Printf("Starting driveaddon MCP server with %s transport on %s...\n", transport, httpAddr)
	return runHTTPServer(ctx, mcpSrv, serverContext, transport, httpAddr)
}

func startMetricsServer(metricsConfig MetricsConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    metricsConfig.Addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	// Wait for metrics server to be ready or fail
	select {
	case <-metricsReady:
		log.Printf("Metrics server started on %s", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, transport, addr string) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, transport)
	if err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
