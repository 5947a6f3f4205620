package config

import (
	"fmt"
	"strings"
)

// ValidationError reports every problem found while building an AddonConfig.
type ValidationError struct {
	// Problems are field-level issues (missing base fields, wrong types, bad ranges).
	Problems []string

	// MissingSecrets lists required secret names with no non-empty value.
	MissingSecrets []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems)+1)
	if len(e.MissingSecrets) > 0 {
		parts = append(parts, fmt.Sprintf("Missing Google Drive secrets: %q. Put your OAuth access token under these keys in `secrets`.", e.MissingSecrets))
	}
	parts = append(parts, e.Problems...)
	return "invalid addon configuration: " + strings.Join(parts, "; ")
}
