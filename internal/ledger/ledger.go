package ledger

import (
	"context"
	"errors"
)

// ErrDuplicateRecord indicates a record with the same identifier already
// exists for the session; the append is treated as idempotent.
var ErrDuplicateRecord = errors.New("duplicate transaction record")

// TransactionRecord is one completed transfer. Records are immutable once
// appended.
type TransactionRecord struct {
	ID         string
	Amount     string
	Recipient  string
	Date       string
	CardSuffix string
}

// Ledger stores completed transfer records per session, newest first. There is
// no update or delete; the ledger only accumulates for the session lifetime.
type Ledger interface {
	Append(ctx context.Context, sessionID string, rec TransactionRecord) error
	List(ctx context.Context, sessionID string) ([]TransactionRecord, error)
}
