package cart

import (
	"sync"
)

// Manager maps session ids to carts. Cart contents are in-memory only;
// persistence across restarts is not this component's concern.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Store
}

// NewManager creates an empty cart registry.
func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Store)}
}

// Get returns the cart for the session, creating it on first use.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.carts[sessionID]
	if !ok {
		store = NewStore()
		m.carts[sessionID] = store
	}
	return store
}

// Drop discards the cart of a session.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
