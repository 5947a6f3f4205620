package addon

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"github.com/teemow/driveaddon/internal/actions"
	"github.com/teemow/driveaddon/internal/config"
	"github.com/teemow/driveaddon/internal/envelope"
	"github.com/teemow/driveaddon/internal/instrumentation"
	"github.com/teemow/driveaddon/internal/logging"
)

// Type identifies this addon to hosts.
const Type = "google_drive"

// Addon is the Google Drive addon facade.
type Addon struct {
	mu       sync.RWMutex
	cfg      *config.AddonConfig
	observer Observer
	addonID  string

	credentials *CredentialsRegistry
	tools       *ToolRegistry
	runner      *actions.Runner
	logger      *slog.Logger
}

// Option configures an Addon.
type Option func(*Addon)

// WithLogger sets the base logger. Records are tagged with the addon type.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Addon) {
		a.logger = logger
	}
}

// WithMetrics records action and Drive call metrics.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(a *Addon) {
		a.runner.Metrics = metrics
	}
}

// WithAuditLogger writes an audit record for every action.
func WithAuditLogger(audit *instrumentation.AuditLogger) Option {
	return func(a *Addon) {
		a.runner.Audit = audit
	}
}

// WithHTTPClient sets the HTTP client used for Drive requests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Addon) {
		a.runner.HTTPClient = client
	}
}

// New creates an addon with no configuration loaded.
func New(opts ...Option) *Addon {
	a := &Addon{
		credentials: NewCredentialsRegistry(),
		tools:       NewToolRegistry(),
		runner:      &actions.Runner{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.WithAddonType(a.logger, Type)
	a.runner.Logger = a.logger
	return a
}

// Logger returns the addon's type-tagged logger.
func (a *Addon) Logger() *slog.Logger {
	return a.logger
}

// LoadAddonConfig validates blob and makes it the active configuration.
// On failure the previous configuration stays in place.
func (a *Addon) LoadAddonConfig(blob map[string]any) error {
	cfg, err := config.New(blob)
	if err != nil {
		a.logger.Error("Failed to load addon configuration", logging.Err(err))
		return err
	}
	a.setConfig(cfg)
	return nil
}

// LoadAddonConfigFile reads and validates a JSON, YAML or TOML configuration file.
func (a *Addon) LoadAddonConfigFile(path string) error {
	cfg, err := config.LoadFile(path)
	if err != nil {
		a.logger.Error("Failed to load addon configuration", slog.String("path", path), logging.Err(err))
		return err
	}
	a.setConfig(cfg)
	return nil
}

func (a *Addon) setConfig(cfg *config.AddonConfig) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.logger.Info("Addon configuration loaded successfully", slog.String("config", cfg.String()))
}

// Config returns the active configuration, or nil if none is loaded.
func (a *Addon) Config() *config.AddonConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// LoadCredentials stores runtime secrets. When a configuration is loaded,
// every secret it names must be present in creds.
func (a *Addon) LoadCredentials(creds map[string]string) error {
	a.logger.Debug("Loading credentials", slog.Any("credentials", logging.SanitizeSecrets(creds)))

	if cfg := a.Config(); cfg != nil {
		var missing []string
		for _, name := range cfg.SecretNames() {
			if _, ok := creds[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			err := fmt.Errorf("missing required secrets: %v", missing)
			a.logger.Error("Failed to load credentials", logging.Err(err))
			return err
		}
	}

	a.credentials.StoreMultiple(creds)
	a.logger.Info("Loaded credentials successfully", slog.Int("count", len(creds)))
	return nil
}

// Credentials returns the runtime credentials registry.
func (a *Addon) Credentials() *CredentialsRegistry {
	return a.credentials
}

// LoadTools registers host tools. Descriptions and retry budgets may be nil.
func (a *Addon) LoadTools(funcs map[string]ToolFunc, descriptions map[string]string, maxRetries map[string]int) {
	a.tools.RegisterTools(funcs, descriptions, maxRetries)
	a.logger.Info("Successfully registered tools", slog.Any("tools", a.tools.Names()))
}

// GetTools returns the registered tools.
func (a *Addon) GetTools() map[string]Tool {
	return a.tools.GetToolsForAction()
}

// ClearTools removes every registered tool.
func (a *Addon) ClearTools() {
	a.tools.Clear()
}

// SetObserverCallback registers cb to be notified after every action,
// tagging events with addonID.
func (a *Addon) SetObserverCallback(cb Observer, addonID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = cb
	a.addonID = addonID
}

// ListDocuments lists the first page of a folder.
func (a *Addon) ListDocuments(ctx context.Context, in actions.ListInput) *envelope.Response {
	return a.invoke(ctx, actions.ActionList, func(ctx context.Context) *envelope.Response {
		return a.runner.ListDocuments(ctx, a.effectiveConfig(), in)
	})
}

// DeleteDocument moves a file to the trash.
func (a *Addon) DeleteDocument(ctx context.Context, fileID string) *envelope.Response {
	return a.invoke(ctx, actions.ActionDelete, func(ctx context.Context) *envelope.Response {
		return a.runner.DeleteDocument(ctx, a.effectiveConfig(), fileID)
	})
}

// DownloadDocument downloads or exports a file.
func (a *Addon) DownloadDocument(ctx context.Context, in actions.DownloadInput) *envelope.Response {
	return a.invoke(ctx, actions.ActionDownload, func(ctx context.Context) *envelope.Response {
		return a.runner.DownloadDocument(ctx, a.effectiveConfig(), in)
	})
}

// effectiveConfig overlays runtime credentials on the configured secrets.
func (a *Addon) effectiveConfig() *config.AddonConfig {
	cfg := a.Config()
	if cfg == nil || a.credentials.Len() == 0 {
		return cfg
	}

	secrets := make(map[string]string)
	for _, name := range cfg.SecretNames() {
		secrets[name], _ = cfg.Secret(name)
	}
	maps.Copy(secrets, a.credentials.All())
	return cfg.WithSecrets(secrets)
}

// invoke runs one action under an "addon.<action>" span and notifies the
// observer, whose event carries that span's trace and span IDs.
func (a *Addon) invoke(ctx context.Context, action string, call func(ctx context.Context) *envelope.Response) *envelope.Response {
	ctx, span := instrumentation.StartSpan(ctx, "addon."+action)
	defer span.End()

	resp := call(ctx)

	a.mu.RLock()
	observer, addonID := a.observer, a.addonID
	a.mu.RUnlock()

	if observer != nil {
		event := newEvent(addonID, action, resp.Code, resp.Message)
		event.TraceID = instrumentation.GetTraceID(ctx)
		event.SpanID = instrumentation.GetSpanID(ctx)
		observer(event)
	}
	return resp
}
