package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

type Config struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	// PublicURL overrides the server-wide base URL used in confirmation links.
	PublicURL string `json:"public_url,omitempty"`
}

type TenantsFile struct {
	Tenants []Config `json:"tenants"`
}

type Registry struct {
	mu      sync.RWMutex
	tenants map[string]*Config
}

func NewRegistry() *Registry {
	return &Registry{
		tenants: make(map[string]*Config),
	}
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenants config: %w", err)
	}

	var file TenantsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tenants config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Tenants {
		if file.Tenants[i].TenantID == "" {
			return nil, fmt.Errorf("tenants config entry %d has no tenant_id", i)
		}
		registry.Register(&file.Tenants[i])
	}
	return registry, nil
}

func (r *Registry) Register(cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[cfg.TenantID] = cfg
}

func (r *Registry) Get(tenantID string) *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tenants[tenantID]
}

func (r *Registry) Exists(tenantID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tenants[tenantID]
	return ok
}

// All returns the registered tenants ordered by id.
func (r *Registry) All() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Config, 0, len(r.tenants))
	for _, cfg := range r.tenants {
		result = append(result, cfg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TenantID < result[j].TenantID })
	return result
}

// PublicURL returns the tenant's link base, or fallback when none is set.
func (r *Registry) PublicURL(tenantID, fallback string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.tenants[tenantID]; ok && cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	return fallback
}
