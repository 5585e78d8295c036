package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, username, email, password_hash, role, billing_customer_id, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u       domain.User
		email   sql.NullString
		billing sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role, &billing, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.Email = fromNullString(email)
	u.BillingCustomerID = fromNullString(billing)
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, billing_customer_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, nullString(u.Email), u.PasswordHash, u.Role,
		nullString(u.BillingCustomerID), now, now)
	return mapErr(err)
}

func (r *usersRepo) SetBillingCustomerID(ctx context.Context, userID, customerID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET billing_customer_id = ?, updated_at = ?
		 WHERE id = ? AND billing_customer_id IS NULL`,
		customerID, time.Now().UTC(), userID)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the user is gone or another request already stored a
		// reference. The caller re-reads to tell the two apart.
		return store.ErrAlreadyExists
	}
	return nil
}

// requireRowAffected turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapErr(sql.ErrNoRows)
	}
	return nil
}
