package addon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/teemow/driveaddon/internal/actions"
	"github.com/teemow/driveaddon/internal/config"
	"github.com/teemow/driveaddon/internal/envelope"
	"github.com/teemow/driveaddon/internal/logging"
)

// componentCheck verifies one component without touching the network.
type componentCheck struct {
	name  string
	check func(ctx context.Context) error
}

type manifestModule struct {
	name       string
	components []componentCheck
}

// manifest lists the components Test verifies, grouped by module.
func (a *Addon) manifest() []manifestModule {
	// Checks bypass the configured metrics and audit hooks.
	runner := &actions.Runner{Logger: a.logger}

	return []manifestModule{
		{
			name: "actions",
			components: []componentCheck{
				{"ListDocuments", func(ctx context.Context) error {
					return expectCode(runner.ListDocuments(ctx, nil, actions.ListInput{}), http.StatusInternalServerError)
				}},
				{"DeleteDocument", func(ctx context.Context) error {
					return expectCode(runner.DeleteDocument(ctx, nil, ""), http.StatusBadRequest)
				}},
				{"DownloadDocument", func(ctx context.Context) error {
					return expectCode(runner.DownloadDocument(ctx, nil, actions.DownloadInput{}), http.StatusBadRequest)
				}},
			},
		},
		{
			name: "configuration",
			components: []componentCheck{
				{"RequiredSecrets", func(context.Context) error {
					if len(config.RequiredSecrets()) == 0 {
						return fmt.Errorf("no required secrets declared")
					}
					return nil
				}},
				{"AddonConfig", func(context.Context) error {
					_, err := config.New(map[string]any{
						"id": "selftest", "type": Type, "name": "selftest", "description": "selftest",
						"secrets": map[string]any{config.SecretAccessToken: "selftest"},
					})
					return err
				}},
				{"ValidationError", func(context.Context) error {
					if _, err := config.New(map[string]any{}); err == nil {
						return fmt.Errorf("empty configuration was accepted")
					}
					return nil
				}},
			},
		},
		{
			name: "envelope",
			components: []componentCheck{
				{"Response", func(context.Context) error {
					if !envelope.Success(http.StatusOK, 1, "ok", nil).IsSuccess() {
						return fmt.Errorf("success envelope reports failure")
					}
					if envelope.Failure(http.StatusNotFound, "missing", nil).Error() != "missing" {
						return fmt.Errorf("failure envelope lost its error")
					}
					return nil
				}},
			},
		},
		{
			name: "services",
			components: []componentCheck{
				{"CredentialsRegistry", func(context.Context) error {
					r := NewCredentialsRegistry()
					r.StoreMultiple(map[string]string{"k": "v"})
					if v, ok := r.Get("k"); !ok || v != "v" {
						return fmt.Errorf("stored credential not returned")
					}
					return nil
				}},
			},
		},
		{
			name: "tools",
			components: []componentCheck{
				{"ToolRegistry", func(context.Context) error {
					r := NewToolRegistry()
					r.RegisterTools(map[string]ToolFunc{"noop": func(context.Context, map[string]any) (any, error) { return nil, nil }}, nil, nil)
					if len(r.GetToolsForAction()) != 1 {
						return fmt.Errorf("registered tool not returned")
					}
					r.Clear()
					return nil
				}},
			},
		},
	}
}

// Test runs every offline check in the manifest and reports whether all passed.
func (a *Addon) Test(ctx context.Context) bool {
	a.logger.Info("Running google-drive addon self-test")
	return a.runManifest(ctx, a.manifest())
}

func (a *Addon) runManifest(ctx context.Context, modules []manifestModule) bool {
	total := 0
	for _, m := range modules {
		for _, p := range m.components {
			if err := p.check(ctx); err != nil {
				a.logger.Error("Component check failed",
					slog.String("module", m.name),
					slog.String("component", p.name),
					logging.Err(err))
				return false
			}
			a.logger.Debug("Component check passed", slog.String("module", m.name), slog.String("component", p.name))
		}
		total += len(m.components)
		a.logger.Info("Module loaded correctly", slog.String("module", m.name), slog.Int("components", len(m.components)))
	}

	a.logger.Info("Self-test completed successfully", slog.Int("components", total), slog.Int("modules", len(modules)))
	return true
}

func expectCode(resp *envelope.Response, want int) error {
	if resp.Code != want {
		return fmt.Errorf("expected code %d, got %d: %s", want, resp.Code, resp.Message)
	}
	return nil
}
