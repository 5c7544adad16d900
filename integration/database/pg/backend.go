package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultSessionID is the snapshot row key used when none is given.
const DefaultSessionID = "default"

const (
	loadSnapshotQuery = `SELECT data FROM pagekit_sessions WHERE id = $1`
	saveSnapshotQuery = `INSERT INTO pagekit_sessions (id, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

// DB is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionBackend keeps the session snapshot in the pagekit_sessions table.
type SessionBackend struct {
	db DB
	id string
}

// NewSessionBackend returns a backend storing the snapshot in row id.
func NewSessionBackend(db DB, id string) *SessionBackend {
	if id == "" {
		id = DefaultSessionID
	}
	return &SessionBackend{db: db, id: id}
}

// Load returns the stored snapshot, or nil when the row does not exist.
func (b *SessionBackend) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.conn(ctx).QueryRow(ctx, loadSnapshotQuery, b.id).Scan(&data)
	if IsNotFoundError(err) {
		return nil, nil
	}
	return data, err
}

// Save upserts the snapshot row.
func (b *SessionBackend) Save(ctx context.Context, data []byte) error {
	_, err := b.conn(ctx).Exec(ctx, saveSnapshotQuery, b.id, string(data))
	return err
}

// Ping checks the connection when the underlying handle supports it.
func (b *SessionBackend) Ping(ctx context.Context) error {
	p, ok := b.db.(Pinger)
	if !ok {
		return errors.New("pg: handle does not support ping")
	}
	return Healthcheck(p)(ctx)
}

func (b *SessionBackend) conn(ctx context.Context) DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return b.db
}
