// Package registry is a minimal HTTP service registry: services announce
// themselves with a TTL and peers look them up by name. It stands in for a
// full discovery system; entries expire unless refreshed, so a crashed
// service drops out of rotation on its own.
package registry

import (
	"sync"
	"time"
)

// DefaultTTL is how long a registration lives without a heartbeat.
const DefaultTTL = 90 * time.Second

// Instance is one registered service endpoint.
type Instance struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	RegisteredAt time.Time `json:"registeredAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Store holds live registrations. One entry per service name; re-registering
// refreshes the TTL (that doubles as the heartbeat).
type Store struct {
	mu         sync.RWMutex
	defaultTTL time.Duration
	instances  map[string]Instance
}

func NewStore(defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{
		defaultTTL: defaultTTL,
		instances:  make(map[string]Instance),
	}
}

// Register adds or refreshes a service entry. A ttl of 0 uses the default.
func (s *Store) Register(name, url string, ttl time.Duration) Instance {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	inst := Instance{
		Name:         name,
		URL:          url,
		RegisteredAt: now,
		ExpiresAt:    now.Add(ttl),
	}

	s.mu.Lock()
	if prev, ok := s.instances[name]; ok && prev.URL == url {
		inst.RegisteredAt = prev.RegisteredAt
	}
	s.instances[name] = inst
	s.mu.Unlock()
	return inst
}

// Deregister removes a service entry. Removing an unknown name is a no-op.
func (s *Store) Deregister(name string) {
	s.mu.Lock()
	delete(s.instances, name)
	s.mu.Unlock()
}

// Lookup returns the live entry for name, or false if absent or expired.
func (s *Store) Lookup(name string) (Instance, bool) {
	s.mu.RLock()
	inst, ok := s.instances[name]
	s.mu.RUnlock()

	if !ok || time.Now().After(inst.ExpiresAt) {
		return Instance{}, false
	}
	return inst, true
}

// List returns all live entries.
func (s *Store) List() []Instance {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		if now.After(inst.ExpiresAt) {
			continue
		}
		out = append(out, inst)
	}
	return out
}
