package weapon

import (
	"fmt"
	"sort"
)

// Registry holds loaded weapon profiles indexed by ID.
// It is read-only after loading and may be shared across goroutines.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// Register adds p to the registry.
//
// Precondition:  p must not be nil.
// Postcondition: Profile(p.ID) returns p; returns error if p.ID already registered.
func (r *Registry) Register(p *Profile) error {
	if _, exists := r.profiles[p.ID]; exists {
		return fmt.Errorf("weapon: Registry.Register: profile ID %q already registered", p.ID)
	}
	r.profiles[p.ID] = p
	return nil
}

// RegisterAll registers every profile, stopping at the first duplicate.
func (r *Registry) RegisterAll(ps []*Profile) error {
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Profile returns the profile for id and whether it was found.
func (r *Registry) Profile(id string) (*Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// IDs returns all registered profile IDs in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
