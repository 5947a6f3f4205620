package instrumentation

import (
	"strings"
	"testing"
)

// envMap returns a LookupFunc backed by a fixed map.
func envMap(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	config := ConfigFromEnv(envMap(nil))

	if config.ServiceName != "driveaddon" {
		t.Errorf("expected ServiceName 'driveaddon', got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate 0.1, got %f", config.TraceSamplingRate)
	}
	if config.PrometheusEndpoint != DefaultPrometheusEndpoint {
		t.Errorf("expected PrometheusEndpoint %q, got %q", DefaultPrometheusEndpoint, config.PrometheusEndpoint)
	}
	if !config.AuditLogging.Enabled || config.AuditLogging.IncludeFileIDs {
		t.Errorf("unexpected audit defaults %+v", config.AuditLogging)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	config := ConfigFromEnv(envMap(map[string]string{
		EnvServiceName:       "test-service",
		EnvEnabled:           "false",
		EnvMetricsExporter:   "stdout",
		EnvTracingExporter:   "stdout",
		EnvTraceSamplingRate: "0.5",
		EnvAuditFileIDs:      "true",
		"POD_NAMESPACE":      "drive",
		"HOSTNAME":           "driveaddon-0",
	}))

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected Enabled to be false")
	}
	if config.MetricsExporter != ExporterStdout || config.TracingExporter != ExporterStdout {
		t.Errorf("unexpected exporters %q/%q", config.MetricsExporter, config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
	if !config.AuditLogging.IncludeFileIDs {
		t.Error("expected IncludeFileIDs to follow the environment")
	}
	if config.K8sNamespace != "drive" || config.K8sPodName != "driveaddon-0" {
		t.Errorf("expected Kubernetes fallbacks, got %q/%q", config.K8sNamespace, config.K8sPodName)
	}
}

func TestConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	config := ConfigFromEnv(envMap(map[string]string{
		EnvEnabled:           "not_a_bool",
		EnvTraceSamplingRate: "not_a_float",
		EnvMetricsExporter:   "",
	}))

	if !config.Enabled {
		t.Error("expected default Enabled for an invalid bool")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected default sampling rate for an invalid float, got %f", config.TraceSamplingRate)
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected default exporter for an empty value, got %q", config.MetricsExporter)
	}
}

func TestDefaultConfig_ReadsProcessEnv(t *testing.T) {
	t.Setenv(EnvServiceName, "from-process")

	if got := DefaultConfig().ServiceName; got != "from-process" {
		t.Errorf("expected ServiceName 'from-process', got %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		errContains string
	}{
		{
			name:   "prometheus without tracing",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone},
		},
		{
			name:   "otlp tracing with endpoint",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"},
		},
		{
			name:        "negative sampling rate",
			config:      Config{TraceSamplingRate: -0.5},
			errContains: "sampling rate",
		},
		{
			name:        "sampling rate above 1",
			config:      Config{TraceSamplingRate: 1.5},
			errContains: "sampling rate",
		},
		{
			name:        "unknown metrics exporter",
			config:      Config{MetricsExporter: "invalid"},
			errContains: "invalid metrics exporter",
		},
		{
			name:        "unknown tracing exporter",
			config:      Config{TracingExporter: "invalid"},
			errContains: "invalid tracing exporter",
		},
		{
			name:        "otlp tracing without endpoint",
			config:      Config{TracingExporter: ExporterOTLP},
			errContains: "OTLP tracing exporter",
		},
		{
			name:        "otlp metrics without endpoint",
			config:      Config{MetricsExporter: ExporterOTLP},
			errContains: "OTLP metrics exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %v", tt.errContains, err)
			}
		})
	}
}
