package breaker

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Manager is the single creation point for breakers keyed by service name,
// preventing duplicate breakers for the same dependency.
type Manager struct {
	mu        sync.Mutex
	defaults  Config
	overrides map[string]Config
	breakers  map[string]*CircuitBreaker
	log       *zap.Logger
}

// NewManager creates a registry that lazily builds breakers with defaults,
// unless an override was registered for that name.
func NewManager(defaults Config, log *zap.Logger) (*Manager, error) {
	if err := defaults.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		defaults:  defaults,
		overrides: make(map[string]Config),
		breakers:  make(map[string]*CircuitBreaker),
		log:       log,
	}, nil
}

// SetOverride registers a per-name config. It must be called before the
// first Get for that name to take effect.
func (m *Manager) SetOverride(name string, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[name] = cfg
	return nil
}

// Get returns the breaker for name, creating it on first use.
func (m *Manager) Get(name string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, ok := m.breakers[name]; ok {
		return cb
	}
	cfg := m.defaults
	if override, ok := m.overrides[name]; ok {
		cfg = override
	}
	// Configs are validated on entry, so New cannot fail here.
	cb, _ := New(name, cfg, m.log)
	m.breakers[name] = cb
	return cb
}

// Stats returns snapshots for every breaker created so far.
func (m *Manager) Stats() map[string]Stats {
	m.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(m.breakers))
	for _, cb := range m.breakers {
		breakers = append(breakers, cb)
	}
	m.mu.Unlock()

	stats := make(map[string]Stats, len(breakers))
	for _, cb := range breakers {
		stats[cb.Name()] = cb.Stats()
	}
	return stats
}

// ResetAll forces every known breaker back to closed.
func (m *Manager) ResetAll() {
	m.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(m.breakers))
	for _, cb := range m.breakers {
		breakers = append(breakers, cb)
	}
	m.mu.Unlock()

	for _, cb := range breakers {
		cb.Reset()
	}
}

// Healthy returns the sorted names of breakers currently closed.
func (m *Manager) Healthy() []string {
	m.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(m.breakers))
	for _, cb := range m.breakers {
		breakers = append(breakers, cb)
	}
	m.mu.Unlock()

	var names []string
	for _, cb := range breakers {
		if cb.State() == StateClosed {
			names = append(names, cb.Name())
		}
	}
	sort.Strings(names)
	return names
}
