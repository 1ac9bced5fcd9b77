package assistant

import (
	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

// Registry holds the known providers keyed by their closed identifier set.
// It is built once at startup and read-only afterwards, so it is safely
// shared across concurrent orchestration calls without locking.
type Registry struct {
	providers map[ports.ProviderID]ports.Provider
	known     []ports.ProviderID // insertion order, for listing
}

// NewRegistry builds a registry from the given providers. A later provider
// with the same ID replaces an earlier one.
func NewRegistry(provs ...ports.Provider) *Registry {
	r := &Registry{providers: make(map[ports.ProviderID]ports.Provider, len(provs))}
	for _, p := range provs {
		if _, exists := r.providers[p.ID()]; !exists {
			r.known = append(r.known, p.ID())
		}
		r.providers[p.ID()] = p
	}
	return r
}

// Lookup returns the provider registered under id, if any.
func (r *Registry) Lookup(id ports.ProviderID) (ports.Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Known returns every registered provider ID in registration order.
func (r *Registry) Known() []ports.ProviderID {
	out := make([]ports.ProviderID, len(r.known))
	copy(out, r.known)
	return out
}

// Configured returns the IDs of the providers whose credentials were present
// at startup.
func (r *Registry) Configured() []ports.ProviderID {
	var out []ports.ProviderID
	for _, id := range r.known {
		if r.providers[id].Configured() {
			out = append(out, id)
		}
	}
	return out
}
