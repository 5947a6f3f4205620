package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/driveaddon/internal/instrumentation"
)

func TestNewHTTPServer_RejectsUnknownTransport(t *testing.T) {
	sc := loadedServerContext(t)
	_, err := NewHTTPServer(mcpserver.NewMCPServer("test", "0.0.0"), sc, "carrier-pigeon")
	assert.ErrorContains(t, err, "unsupported server type")
}

func TestHTTPServer_HealthRoutes(t *testing.T) {
	for _, transport := range []string{TransportSSE, TransportStreamableHTTP} {
		t.Run(transport, func(t *testing.T) {
			sc := loadedServerContext(t)
			s, err := NewHTTPServer(mcpserver.NewMCPServer("test", "0.0.0"), sc, transport)
			require.NoError(t, err)

			handler := s.Handler()
			for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				assert.Equal(t, http.StatusOK, rec.Code, path)
			}
		})
	}
}

func TestHTTPServer_ShutdownMarksNotReady(t *testing.T) {
	s, err := NewHTTPServer(mcpserver.NewMCPServer("test", "0.0.0"), loadedServerContext(t), TransportStreamableHTTP)
	require.NoError(t, err)

	require.NoError(t, s.Shutdown(context.Background()))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInstrumentHTTP(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	// No metrics: the handler is returned as is.
	rec := httptest.NewRecorder()
	InstrumentHTTP(next, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	InstrumentHTTP(next, &instrumentation.Metrics{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/mcp", routeLabel("/mcp"))
	assert.Equal(t, "/healthz/detailed", routeLabel("/healthz/detailed"))
	assert.Equal(t, "other", routeLabel("/wp-admin/setup.php"))
}
