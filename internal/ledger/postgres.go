package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists transfer records in PostgreSQL. Sessions themselves
// stay in process memory; only the completed-transfer trail is written out.
//
// Expected schema:
//
//	CREATE TABLE transfer_records (
//	    session_id  TEXT        NOT NULL,
//	    record_id   TEXT        NOT NULL,
//	    amount      TEXT        NOT NULL,
//	    recipient   TEXT        NOT NULL,
//	    display_date TEXT       NOT NULL,
//	    card_suffix TEXT        NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (session_id, record_id)
//	);
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed ledger implementation.
func NewPostgres(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Append inserts the record. A primary-key conflict maps to ErrDuplicateRecord.
func (l *PostgresLedger) Append(ctx context.Context, sessionID string, rec TransactionRecord) error {
	_, err := l.db.Exec(ctx, `INSERT INTO transfer_records
        (session_id, record_id, amount, recipient, display_date, card_suffix)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		sessionID, rec.ID, rec.Amount, rec.Recipient, rec.Date, rec.CardSuffix)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// List returns the session's records newest first.
func (l *PostgresLedger) List(ctx context.Context, sessionID string) ([]TransactionRecord, error) {
	rows, err := l.db.Query(ctx, `SELECT record_id, amount, recipient, display_date, card_suffix
        FROM transfer_records
        WHERE session_id = $1
        ORDER BY created_at DESC, record_id DESC`, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var rec TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.Recipient, &rec.Date, &rec.CardSuffix); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
