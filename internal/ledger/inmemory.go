package ledger

import (
	"context"
	"sync"
)

type inMemoryLedger struct {
	mu      sync.RWMutex
	records map[string][]TransactionRecord
}

// NewInMemory creates a concurrency-safe in-memory ledger. This is the default
// backend; records live for the process lifetime only.
func NewInMemory() Ledger {
	return &inMemoryLedger{records: make(map[string][]TransactionRecord)}
}

func (l *inMemoryLedger) Append(_ context.Context, sessionID string, rec TransactionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.records[sessionID] {
		if existing.ID == rec.ID {
			return ErrDuplicateRecord
		}
	}

	// Prepend to keep newest-first order.
	l.records[sessionID] = append([]TransactionRecord{rec}, l.records[sessionID]...)
	return nil
}

func (l *inMemoryLedger) List(_ context.Context, sessionID string) ([]TransactionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored := l.records[sessionID]
	out := make([]TransactionRecord, len(stored))
	copy(out, stored)
	return out, nil
}
