package sqlite

import (
	"context"
	"database/sql"

	"github.com/crewdesk/crewdesk/internal/backoffice/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested transactions are not supported.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx starts

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.tx} }
func (t *txStore) Organizations() store.Organizations { return &organizationsRepo{q: t.tx} }
func (t *txStore) Memberships() store.Memberships     { return &membershipsRepo{q: t.tx} }
func (t *txStore) Invites() store.Invites             { return &invitesRepo{q: t.tx} }
func (t *txStore) Depots() store.Depots               { return &depotsRepo{q: t.tx} }
func (t *txStore) Crews() store.Crews                 { return &crewsRepo{q: t.tx} }
func (t *txStore) Employees() store.Employees         { return &employeesRepo{q: t.tx} }
func (t *txStore) Vehicles() store.Vehicles           { return &vehiclesRepo{q: t.tx} }
func (t *txStore) Bookings() store.Bookings           { return &bookingsRepo{q: t.tx} }
