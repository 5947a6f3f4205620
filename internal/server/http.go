package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/driveaddon/internal/instrumentation"
)

// Transport names accepted by NewHTTPServer.
const (
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// HTTPServer exposes an MCP server over HTTP together with health endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	serverType string

	mu         sync.Mutex
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP server for mcpServer using serverType
// ("sse" or "streamable-http").
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, serverType string) (*HTTPServer, error) {
	if serverType != TransportSSE && serverType != TransportStreamableHTTP {
		return nil, fmt.Errorf("unsupported server type: %s", serverType)
	}

	return &HTTPServer{
		mcpServer:  mcpServer,
		health:     NewHealthChecker(sc),
		metrics:    sc.Metrics(),
		serverType: serverType,
	}, nil
}

// Handler builds the request router.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.health.RegisterHealthEndpoints(mux)

	// Register MCP endpoints based on server type
	switch s.serverType {
	case TransportSSE:
		sseServer := mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
		)
		mux.Handle("/sse", sseServer)
		mux.Handle("/message", sseServer)

	case TransportStreamableHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		)
		mux.Handle("/mcp", httpServer)
	}

	return InstrumentHTTP(mux, s.metrics)
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	slog.Info("starting MCP HTTP server", "addr", addr, "transport", s.serverType)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming transports working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// InstrumentHTTP records method, path, status and duration of every request.
// A nil metrics recorder returns next unchanged.
func InstrumentHTTP(next http.Handler, metrics *instrumentation.Metrics) http.Handler {
	if metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

// routeLabel bounds the path label to the routes this server registers.
func routeLabel(path string) string {
	switch path {
	case "/mcp", "/sse", "/message", "/healthz", "/readyz", "/healthz/detailed":
		return path
	default:
		return "other"
	}
}
