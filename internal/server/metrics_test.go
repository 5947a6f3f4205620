package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/driveaddon/internal/instrumentation"
)

func newProvider(t *testing.T, cfg instrumentation.Config) *instrumentation.Provider {
	t.Helper()

	cfg.ServiceName = "driveaddon-test"
	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func prometheusProvider(t *testing.T) *instrumentation.Provider {
	return newProvider(t, instrumentation.Config{
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
}

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name     string
		provider func(t *testing.T) *instrumentation.Provider
		addr     string
		wantAddr string
		wantErr  string
	}{
		{
			name:     "explicit addr",
			provider: prometheusProvider,
			addr:     ":9091",
			wantAddr: ":9091",
		},
		{
			name:     "default addr",
			provider: prometheusProvider,
			wantAddr: DefaultMetricsAddr,
		},
		{
			name:     "nil provider",
			provider: func(*testing.T) *instrumentation.Provider { return nil },
			wantErr:  "instrumentation provider is required",
		},
		{
			name: "disabled provider",
			provider: func(t *testing.T) *instrumentation.Provider {
				return newProvider(t, instrumentation.Config{Enabled: false})
			},
			wantErr: "instrumentation provider is not enabled",
		},
		{
			name: "stdout exporter",
			provider: func(t *testing.T) *instrumentation.Provider {
				return newProvider(t, instrumentation.Config{
					Enabled:         true,
					MetricsExporter: instrumentation.ExporterStdout,
					TracingExporter: instrumentation.ExporterNone,
				})
			},
			wantErr: "does not use the prometheus exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewMetricsServer(MetricsServerConfig{
				Addr:                    tt.addr,
				Enabled:                 true,
				InstrumentationProvider: tt.provider(t),
			})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, srv.Addr())
		})
	}
}

func TestMetricsServer_ServesScrapes(t *testing.T) {
	provider := prometheusProvider(t)
	provider.Metrics().RecordAction(context.Background(), "list_documents", "drive-1", http.StatusOK, 200, 10*time.Millisecond)

	srv, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	require.NoError(t, err)

	ready := make(chan struct{})
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.StartWithReadySignal(ready) }()

	select {
	case <-ready:
	case err := <-serveErr:
		t.Fatalf("metrics server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server startup timed out")
	}

	base := "http://" + srv.Addr()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + instrumentation.DefaultPrometheusEndpoint)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "addon_action_invocations")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.ErrorIs(t, <-serveErr, http.ErrServerClosed)
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	srv, err := NewMetricsServer(MetricsServerConfig{
		Enabled:                 true,
		InstrumentationProvider: prometheusProvider(t),
	})
	require.NoError(t, err)

	assert.NoError(t, srv.Shutdown(context.Background()))
}
