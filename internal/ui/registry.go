package ui

import "log"

// Registry maps UI names to their static configuration. Lookup is O(1);
// unregistered names return ok=false rather than panicking.
type Registry struct {
	configs map[string]Config
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]Config)}
}

// Register stores cfg by name. Re-registration overwrites with a warning.
func (r *Registry) Register(cfg Config) {
	if _, ok := r.configs[cfg.Name]; ok {
		log.Printf("ui: config %q re-registered, overwriting", cfg.Name)
	}
	r.configs[cfg.Name] = cfg
}

// RegisterMany stores every config in order.
func (r *Registry) RegisterMany(cfgs []Config) {
	for _, cfg := range cfgs {
		r.Register(cfg)
	}
}

// Lookup returns the config for name.
func (r *Registry) Lookup(name string) (Config, bool) {
	cfg, ok := r.configs[name]
	return cfg, ok
}

// Len returns the number of registered configs.
func (r *Registry) Len() int {
	return len(r.configs)
}
