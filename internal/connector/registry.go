package connector

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps plugin slugs to connectors.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]*Connector
}

func NewRegistry() *Registry {
	return &Registry{connectors: make(map[string]*Connector)}
}

// NewDefaultRegistry registers the issue and user story connectors, both
// building trackers with factory.
func NewDefaultRegistry(factory TrackerFactory) *Registry {
	r := NewRegistry()
	for _, kind := range []Kind{KindIssue, KindUserStory} {
		if err := r.Register(New(kind, factory)); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds c under its descriptor slug.
func (r *Registry) Register(c *Connector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slug := c.Descriptor().Slug
	if _, exists := r.connectors[slug]; exists {
		return fmt.Errorf("connector: duplicate registration for %q", slug)
	}
	r.connectors[slug] = c
	return nil
}

// Get returns the connector for slug.
func (r *Registry) Get(slug string) (*Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[slug]
	return c, ok
}

// List returns all connectors ordered by slug.
func (r *Registry) List() []*Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Connector, 0, len(r.connectors))
	for _, c := range r.connectors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor().Slug < out[j].Descriptor().Slug
	})
	return out
}
