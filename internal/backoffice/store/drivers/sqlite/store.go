// Package sqlite implements store.Store on SQLite via modernc.org/sqlite.
// Repositories write plain SQL against a shared querier so the same code
// runs on the database handle and inside transactions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	_ "modernc.org/sqlite"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  querier
}

// NewStore opens the database at dsn. Use ":memory:" for tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection sidesteps SQLITE_BUSY under concurrent writers,
	// keeps ":memory:" databases from silently forking per connection, and
	// makes connection-scoped PRAGMAs stick.
	db.SetMaxOpenConns(1)

	// Enforce FKs; SQLite has them off by default.
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, q: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx}, nil
}

// WithTx executes fn within a transaction, handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after commit is a no-op, so this also covers panics.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users                 { return &usersRepo{q: s.q} }
func (s *Store) Organizations() store.Organizations { return &organizationsRepo{q: s.q} }
func (s *Store) Memberships() store.Memberships     { return &membershipsRepo{q: s.q} }
func (s *Store) Invites() store.Invites             { return &invitesRepo{q: s.q} }
func (s *Store) Depots() store.Depots               { return &depotsRepo{q: s.q} }
func (s *Store) Crews() store.Crews                 { return &crewsRepo{q: s.q} }
func (s *Store) Employees() store.Employees         { return &employeesRepo{q: s.q} }
func (s *Store) Vehicles() store.Vehicles           { return &vehiclesRepo{q: s.q} }
func (s *Store) Bookings() store.Bookings           { return &bookingsRepo{q: s.q} }

// mapErr translates driver errors into the store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return store.ErrAlreadyExists
	default:
		return err
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
