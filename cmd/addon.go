package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teemow/driveaddon/internal/addon"
	"github.com/teemow/driveaddon/internal/envelope"
)

// configEnvVar names the environment variable used when --config is unset.
const configEnvVar = "DRIVEADDON_CONFIG"

// resolveConfigPath returns the --config flag, falling back to DRIVEADDON_CONFIG.
func resolveConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return os.Getenv(configEnvVar)
}

// newAddon creates an addon and loads the configuration file and any
// credentials named by --credential-env. When requireConfig is false a
// missing configuration path is not an error.
func newAddon(requireConfig bool, opts ...addon.Option) (*addon.Addon, error) {
	a := addon.New(opts...)

	path := resolveConfigPath()
	if path == "" {
		if requireConfig {
			return nil, fmt.Errorf("no addon configuration given: use --config or %s", configEnvVar)
		}
		return a, nil
	}

	if err := a.LoadAddonConfigFile(path); err != nil {
		return nil, fmt.Errorf("failed to load addon configuration from %s: %w", path, err)
	}

	if creds := credentialsFromEnv(parseCommaSeparatedList(credentialEnvs)); len(creds) > 0 {
		if err := a.LoadCredentials(creds); err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
	}

	return a, nil
}

// credentialsFromEnv reads each secret from the environment variable named
// after it in upper case. Unset variables are skipped.
func credentialsFromEnv(names []string) map[string]string {
	creds := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := os.LookupEnv(strings.ToUpper(name)); ok {
			creds[name] = v
		}
	}
	return creds
}

// printEnvelope writes resp as indented JSON and returns an error for
// non-2xx codes so the process exits non-zero.
func printEnvelope(w io.Writer, resp *envelope.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("action failed with code %d: %s", resp.Code, resp.Message)
	}
	return nil
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
