package addon

import (
	"maps"
	"slices"
	"sync"
)

// CredentialsRegistry holds secrets supplied at runtime.
// It is safe for concurrent use.
type CredentialsRegistry struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewCredentialsRegistry creates an empty registry.
func NewCredentialsRegistry() *CredentialsRegistry {
	return &CredentialsRegistry{secrets: make(map[string]string)}
}

// StoreMultiple adds or replaces every entry of secrets.
func (r *CredentialsRegistry) StoreMultiple(secrets map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.Copy(r.secrets, secrets)
}

// Get returns the secret stored under key.
func (r *CredentialsRegistry) Get(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.secrets[key]
	return v, ok
}

// All returns a copy of every stored secret.
func (r *CredentialsRegistry) All() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.secrets)
}

// Keys returns the sorted names of the stored secrets.
func (r *CredentialsRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.secrets))
}

// Len returns the number of stored secrets.
func (r *CredentialsRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.secrets)
}
