package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.SessionStores = (*MemorySessionStores)(nil)
	_ ports.Navigator     = (*RecordingNavigator)(nil)
)

// MemorySessionStore holds one session pair in memory and counts operations.
// GetErr, SetErr and ClearErr, when set, are returned instead of touching the pair.
type MemorySessionStore struct {
	mu   sync.Mutex
	pair domainauth.StoredSession

	GetErr   error
	SetErr   error
	ClearErr error

	Gets   int
	Sets   int
	Clears int
}

// NewMemorySessionStore creates a store pre-loaded with the given pair.
func NewMemorySessionStore(initial domainauth.StoredSession) *MemorySessionStore {
	return &MemorySessionStore{pair: initial}
}

func (m *MemorySessionStore) Get(_ context.Context) (domainauth.StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return domainauth.StoredSession{}, m.GetErr
	}
	return m.pair, nil
}

func (m *MemorySessionStore) Set(_ context.Context, sess domainauth.StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.pair = sess
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.pair = domainauth.StoredSession{}
	return nil
}

// Snapshot returns the current pair without counting a Get.
func (m *MemorySessionStore) Snapshot() domainauth.StoredSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair
}

// MemorySessionStores hands out one MemorySessionStore per scope id.
type MemorySessionStores struct {
	mu     sync.Mutex
	scopes map[string]*MemorySessionStore
}

// NewMemorySessionStores creates an empty multi-scope store.
func NewMemorySessionStores() *MemorySessionStores {
	return &MemorySessionStores{scopes: make(map[string]*MemorySessionStore)}
}

func (m *MemorySessionStores) Scope(id string) ports.SessionStore {
	return m.Store(id)
}

// Store returns the concrete store for id, creating it on first use.
func (m *MemorySessionStores) Store(id string) *MemorySessionStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scopes[id]
	if !ok {
		s = NewMemorySessionStore(domainauth.StoredSession{})
		m.scopes[id] = s
	}
	return s
}

// RecordingNavigator records pushed paths. When FollowPush is set, a push of a path
// listed in Names moves CurrentRouteName to that route, like a real router would.
type RecordingNavigator struct {
	mu         sync.Mutex
	Current    string
	Names      map[string]string
	FollowPush bool
	PushErr    error
	Pushed     []string
}

// NewRecordingNavigator creates a navigator positioned on the given route name that
// follows pushes to the login path.
func NewRecordingNavigator(current string) *RecordingNavigator {
	return &RecordingNavigator{
		Current:    current,
		Names:      map[string]string{"/login": "Login", "/": "Dashboard"},
		FollowPush: true,
	}
}

func (n *RecordingNavigator) CurrentRouteName() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Current
}

func (n *RecordingNavigator) Push(_ context.Context, path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Pushed = append(n.Pushed, path)
	if n.PushErr != nil {
		return n.PushErr
	}
	if name, ok := n.Names[path]; ok && n.FollowPush {
		n.Current = name
	}
	return nil
}

// Pushes returns a copy of the recorded paths.
func (n *RecordingNavigator) Pushes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.Pushed...)
}
