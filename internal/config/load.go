package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a configuration blob.
type Format string

const (
	// FormatYAML also covers JSON, which is a subset of YAML.
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the blob format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported configuration file extension %q (expected .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Decode turns raw bytes into a configuration blob without validating it.
func Decode(data []byte, format Format) (map[string]any, error) {
	blob := make(map[string]any)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &blob); err != nil {
			return nil, fmt.Errorf("failed to decode yaml configuration: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &blob); err != nil {
			return nil, fmt.Errorf("failed to decode toml configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}
	return blob, nil
}

// Parse decodes and validates a configuration blob.
func Parse(data []byte, format Format) (*AddonConfig, error) {
	blob, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return New(blob)
}

// LoadFile reads, decodes and validates the configuration file at path.
func LoadFile(path string) (*AddonConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return Parse(data, format)
}
