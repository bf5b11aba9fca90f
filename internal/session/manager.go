package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ubique-pay/ubique_pay/internal/ledger"
	"github.com/ubique-pay/ubique_pay/internal/schedule"
	"github.com/ubique-pay/ubique_pay/internal/transfer"
	"github.com/ubique-pay/ubique_pay/internal/verification"
)

// Manager is the in-memory session store. Sessions live until deleted or the
// process exits.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	clock     schedule.Clock
	cfg       Config
	ledger    ledger.Ledger
	verifier  verification.Service
	processor transfer.Processor
}

// NewManager builds a session manager sharing one ledger backend and one set
// of collaborators across sessions.
func NewManager(clock schedule.Clock, cfg Config, led ledger.Ledger, verifier verification.Service, processor transfer.Processor) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		clock:     clock,
		cfg:       cfg,
		ledger:    led,
		verifier:  verifier,
		processor: processor,
	}
}

// Create provisions a new session on the welcome stage.
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.clock, m.cfg, m.ledger, m.verifier, m.processor)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete closes and removes a session, cancelling its pending effects.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}
