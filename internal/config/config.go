package config

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

// SecretAccessToken is the secrets key holding the Google Drive OAuth access token.
const SecretAccessToken = "google_drive_access_token"

// Defaults applied by New when a tunable is absent from the blob.
const (
	DefaultPageSize          = 100
	DefaultMaxPageSize       = 1000
	DefaultMaxDownloadSizeMB = 50
	DefaultRequestTimeout    = 30 * time.Second
)

// bytesPerMB is the multiplier used for max_download_size_mb.
const bytesPerMB = 1024 * 1024

// Field names recognised in a configuration blob.
const (
	fieldID                = "id"
	fieldType              = "type"
	fieldName              = "name"
	fieldDescription       = "description"
	fieldEnabled           = "enabled"
	fieldSecrets           = "secrets"
	fieldConfig            = "config"
	fieldPageSize          = "page_size"
	fieldMaxPageSize       = "max_page_size"
	fieldMaxDownloadSizeMB = "max_download_size_mb"
	fieldRequestTimeoutS   = "request_timeout_s"
	fieldAPIBaseURL        = "api_base_url"
	fieldRequestsPerSecond = "requests_per_second"
)

var knownFields = []string{
	fieldID, fieldType, fieldName, fieldDescription, fieldEnabled,
	fieldSecrets, fieldConfig, fieldPageSize, fieldMaxPageSize,
	fieldMaxDownloadSizeMB, fieldRequestTimeoutS, fieldAPIBaseURL,
	fieldRequestsPerSecond,
}

// RequiredSecrets returns the secret names that must map to a non-empty value.
func RequiredSecrets() []string {
	return []string{SecretAccessToken}
}

// AddonConfig is the validated, read-only addon configuration.
type AddonConfig struct {
	id          string
	addonType   string
	name        string
	description string
	enabled     bool

	secrets  map[string]string
	settings map[string]any
	extra    map[string]any

	pageSize          int
	maxPageSize       int
	maxDownloadSizeMB int
	requestTimeout    time.Duration
	apiBaseURL        string
	requestsPerSecond float64
}

// New builds an AddonConfig from a decoded configuration blob.
// All problems are collected and returned together as a *ValidationError.
func New(blob map[string]any) (*AddonConfig, error) {
	d := decoder{blob: blob}

	c := &AddonConfig{
		id:          d.requiredString(fieldID),
		addonType:   d.requiredString(fieldType),
		name:        d.requiredString(fieldName),
		description: d.requiredString(fieldDescription),
		enabled:     d.boolOr(fieldEnabled, true),
		secrets:     d.stringMap(fieldSecrets),
		settings:    d.anyMap(fieldConfig),
		extra:       make(map[string]any),

		pageSize:          d.positiveIntOr(fieldPageSize, DefaultPageSize),
		maxPageSize:       d.positiveIntOr(fieldMaxPageSize, DefaultMaxPageSize),
		maxDownloadSizeMB: d.positiveIntOr(fieldMaxDownloadSizeMB, DefaultMaxDownloadSizeMB),
		requestTimeout:    time.Duration(d.positiveIntOr(fieldRequestTimeoutS, int(DefaultRequestTimeout/time.Second))) * time.Second,
		apiBaseURL:        d.stringOr(fieldAPIBaseURL, ""),
		requestsPerSecond: d.nonNegativeFloatOr(fieldRequestsPerSecond, 0),
	}

	for k, v := range blob {
		if !slices.Contains(knownFields, k) {
			c.extra[k] = v
		}
	}

	var missing []string
	for _, key := range RequiredSecrets() {
		if c.secrets[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(d.problems) > 0 || len(missing) > 0 {
		return nil, &ValidationError{Problems: d.problems, MissingSecrets: missing}
	}

	return c, nil
}

// ID returns the addon instance identifier.
func (c *AddonConfig) ID() string { return c.id }

// Type returns the addon type.
func (c *AddonConfig) Type() string { return c.addonType }

// Name returns the addon display name.
func (c *AddonConfig) Name() string { return c.name }

// Description returns the addon description.
func (c *AddonConfig) Description() string { return c.description }

// Enabled reports whether the addon is enabled.
func (c *AddonConfig) Enabled() bool { return c.enabled }

// Secret returns the value stored under key in the secrets map.
func (c *AddonConfig) Secret(key string) (string, bool) {
	v, ok := c.secrets[key]
	return v, ok
}

// SecretNames returns the sorted names of all configured secrets.
func (c *AddonConfig) SecretNames() []string {
	return slices.Sorted(maps.Keys(c.secrets))
}

// AccessToken returns the Drive access token. It fails only when the
// configuration itself is unusable; an empty token is returned as "".
func (c *AddonConfig) AccessToken() (string, error) {
	if c == nil {
		return "", fmt.Errorf("addon configuration is not loaded")
	}
	if c.secrets == nil {
		return "", fmt.Errorf("secrets are not configured")
	}
	return c.secrets[SecretAccessToken], nil
}

// WithSecrets returns a copy of c whose secrets are replaced by secrets.
// The copy is not revalidated: credentials supplied at runtime take effect
// as given, and an empty token surfaces when an action runs.
func (c *AddonConfig) WithSecrets(secrets map[string]string) *AddonConfig {
	clone := *c
	clone.secrets = maps.Clone(secrets)
	if clone.secrets == nil {
		clone.secrets = map[string]string{}
	}
	return &clone
}

// Settings returns a copy of the free-form config section.
func (c *AddonConfig) Settings() map[string]any {
	return maps.Clone(c.settings)
}

// Extra returns an unknown top-level field preserved from the blob.
func (c *AddonConfig) Extra(key string) (any, bool) {
	v, ok := c.extra[key]
	return v, ok
}

// PageSize returns the configured list page size.
func (c *AddonConfig) PageSize() int { return c.pageSize }

// MaxPageSize returns the largest page size the addon will request.
func (c *AddonConfig) MaxPageSize() int { return c.maxPageSize }

// EffectivePageSize returns the page size clamped to MaxPageSize.
func (c *AddonConfig) EffectivePageSize() int {
	return min(c.pageSize, c.maxPageSize)
}

// MaxDownloadSizeMB returns the download ceiling in megabytes.
func (c *AddonConfig) MaxDownloadSizeMB() int { return c.maxDownloadSizeMB }

// MaxDownloadBytes returns the download ceiling in bytes.
func (c *AddonConfig) MaxDownloadBytes() int64 {
	return int64(c.maxDownloadSizeMB) * bytesPerMB
}

// RequestTimeout returns the timeout applied to every action.
func (c *AddonConfig) RequestTimeout() time.Duration { return c.requestTimeout }

// APIBaseURL returns the Drive API base URL override, or "" for the public endpoint.
func (c *AddonConfig) APIBaseURL() string { return c.apiBaseURL }

// RequestsPerSecond returns the outbound pacing rate; 0 disables pacing.
func (c *AddonConfig) RequestsPerSecond() float64 { return c.requestsPerSecond }

// String renders the configuration without secret values.
func (c *AddonConfig) String() string {
	return fmt.Sprintf("AddonConfig{id=%s type=%s name=%q enabled=%t secrets=%v page_size=%d max_page_size=%d max_download_size_mb=%d request_timeout=%s}",
		c.id, c.addonType, c.name, c.enabled, c.SecretNames(), c.pageSize, c.maxPageSize, c.maxDownloadSizeMB, c.requestTimeout)
}

// decoder pulls typed values out of a loosely typed blob and records problems.
type decoder struct {
	blob     map[string]any
	problems []string
}

func (d *decoder) problemf(format string, args ...any) {
	d.problems = append(d.problems, fmt.Sprintf(format, args...))
}

func (d *decoder) requiredString(key string) string {
	v, ok := d.blob[key]
	if !ok || v == nil {
		d.problemf("%s: field required", key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.problemf("%s: expected string, got %T", key, v)
		return ""
	}
	return s
}

func (d *decoder) stringOr(key, def string) string {
	v, ok := d.blob[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		d.problemf("%s: expected string, got %T", key, v)
		return def
	}
	return s
}

func (d *decoder) boolOr(key string, def bool) bool {
	v, ok := d.blob[key]
	if !ok || v == nil {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		d.problemf("%s: expected bool, got %T", key, v)
		return def
	}
	return b
}

func (d *decoder) positiveIntOr(key string, def int) int {
	v, ok := d.blob[key]
	if !ok || v == nil {
		return def
	}
	n, ok := toInt(v)
	if !ok {
		d.problemf("%s: expected integer, got %v", key, v)
		return def
	}
	if n <= 0 {
		d.problemf("%s: must be positive, got %d", key, n)
		return def
	}
	return n
}

func (d *decoder) nonNegativeFloatOr(key string, def float64) float64 {
	v, ok := d.blob[key]
	if !ok || v == nil {
		return def
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		i, ok := toInt(v)
		if !ok {
			d.problemf("%s: expected number, got %T", key, v)
			return def
		}
		f = float64(i)
	}
	if f < 0 {
		d.problemf("%s: must not be negative, got %v", key, f)
		return def
	}
	return f
}

func (d *decoder) stringMap(key string) map[string]string {
	out := make(map[string]string)
	v, ok := d.blob[key]
	if !ok || v == nil {
		return out
	}
	switch m := v.(type) {
	case map[string]string:
		maps.Copy(out, m)
	case map[string]any:
		for k, raw := range m {
			s, ok := raw.(string)
			if !ok {
				d.problemf("%s.%s: expected string, got %T", key, k, raw)
				continue
			}
			out[k] = s
		}
	default:
		d.problemf("%s: expected mapping, got %T", key, v)
	}
	return out
}

func (d *decoder) anyMap(key string) map[string]any {
	v, ok := d.blob[key]
	if !ok || v == nil {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.problemf("%s: expected mapping, got %T", key, v)
		return map[string]any{}
	}
	return maps.Clone(m)
}

// toInt accepts the integer shapes produced by the JSON, YAML and TOML decoders.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
