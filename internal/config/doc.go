// Package config holds the addon configuration and validates it once at
// construction time.
//
// An AddonConfig is built from a configuration blob (a decoded JSON, YAML or
// TOML document) and is immutable afterwards: every tunable is resolved to a
// concrete value by New, and consumers only read through accessor methods.
//
// The only hard requirement beyond the base addon fields is that the secrets
// map carries a non-empty OAuth access token under SecretAccessToken. Unknown
// fields are accepted and kept so newer configuration blobs keep loading.
package config
