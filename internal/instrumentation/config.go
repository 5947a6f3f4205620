package instrumentation

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Environment variables read by DefaultConfig.
const (
	EnvServiceName        = "OTEL_SERVICE_NAME"
	EnvServiceInstanceID  = "OTEL_SERVICE_INSTANCE_ID"
	EnvEnabled            = "INSTRUMENTATION_ENABLED"
	EnvMetricsExporter    = "METRICS_EXPORTER"
	EnvTracingExporter    = "TRACING_EXPORTER"
	EnvOTLPEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvTraceSamplingRate  = "OTEL_TRACES_SAMPLER_ARG"
	EnvPrometheusEndpoint = "PROMETHEUS_ENDPOINT"
	EnvDetailedLabels     = "METRICS_DETAILED_LABELS"
	EnvAuditEnabled       = "AUDIT_LOGGING_ENABLED"
	EnvAuditFileIDs       = "AUDIT_LOGGING_INCLUDE_FILE_IDS"
)

// Label values and exporter names.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

const defaultServiceName = "driveaddon"

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// ServiceInstanceID identifies this process; in Kubernetes usually the pod name.
	ServiceInstanceID string
	K8sNamespace      string
	K8sPodName        string

	// Enabled switches metrics and tracing on or off as a whole.
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout.
	MetricsExporter string

	// TracingExporter is one of otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port of the collector, without scheme.
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP. Local development only.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio in [0, 1].
	TraceSamplingRate float64

	PrometheusEndpoint string

	// DetailedLabels adds the addon instance ID to action metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeFileIDs logs full Drive file IDs instead of masked ones.
	IncludeFileIDs bool
}

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// DefaultConfig builds a Config from the process environment.
func DefaultConfig() Config {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup, falling back to defaults for
// unset, empty or unparsable values.
func ConfigFromEnv(lookup LookupFunc) Config {
	str := func(key, def string) string { return envValue(lookup, key, def, parseString) }
	flag := func(key string, def bool) bool { return envValue(lookup, key, def, strconv.ParseBool) }

	return Config{
		ServiceName:        str(EnvServiceName, defaultServiceName),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  str(EnvServiceInstanceID, ""),
		K8sNamespace:       str("K8S_NAMESPACE", str("POD_NAMESPACE", "")),
		K8sPodName:         str("K8S_POD_NAME", str("HOSTNAME", "")),
		Enabled:            flag(EnvEnabled, true),
		MetricsExporter:    str(EnvMetricsExporter, ExporterPrometheus),
		TracingExporter:    str(EnvTracingExporter, ExporterNone),
		OTLPEndpoint:       str(EnvOTLPEndpoint, ""),
		OTLPInsecure:       flag(EnvOTLPInsecure, false),
		TraceSamplingRate:  envValue(lookup, EnvTraceSamplingRate, 0.1, parseFloat),
		PrometheusEndpoint: str(EnvPrometheusEndpoint, DefaultPrometheusEndpoint),
		DetailedLabels:     flag(EnvDetailedLabels, false),
		AuditLogging: AuditLoggingConfig{
			Enabled:        flag(EnvAuditEnabled, true),
			IncludeFileIDs: flag(EnvAuditFileIDs, false),
		},
	}
}

func envValue[T any](lookup LookupFunc, key string, def T, parse func(string) (T, error)) T {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// Validate checks exporter names, the sampling rate and the OTLP endpoint.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %v", c.MetricsExporter, metricsExporters)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %v", c.TracingExporter, tracingExporters)
	}
	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}
	return nil
}
