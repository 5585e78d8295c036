package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type invitesRepo struct {
	q querier
}

const inviteColumns = `id, token_fingerprint, email, role, org_id, created_by, expires_at, created_at`

func scanInvite(row *sql.Row) (domain.Invite, error) {
	var inv domain.Invite
	err := row.Scan(&inv.ID, &inv.TokenFingerprint, &inv.Email, &inv.Role,
		&inv.OrgID, &inv.CreatedBy, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		return domain.Invite{}, mapErr(err)
	}
	return inv, nil
}

func (r *invitesRepo) Create(ctx context.Context, inv domain.Invite) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invites (id, token_fingerprint, email, role, org_id, created_by, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TokenFingerprint, inv.Email, string(inv.Role),
		inv.OrgID, inv.CreatedBy, inv.ExpiresAt.UTC(), time.Now().UTC())
	return mapErr(err)
}

func (r *invitesRepo) GetByFingerprint(ctx context.Context, fingerprint string) (domain.Invite, error) {
	return scanInvite(r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_fingerprint = ?`, fingerprint))
}

func (r *invitesRepo) GetByID(ctx context.Context, id string) (domain.Invite, error) {
	return scanInvite(r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id))
}

func (r *invitesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM invites WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *invitesRepo) ListByOrg(ctx context.Context, orgID string) ([]domain.Invite, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE org_id = ? ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Invite
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(&inv.ID, &inv.TokenFingerprint, &inv.Email, &inv.Role,
			&inv.OrgID, &inv.CreatedBy, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitesRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM invites WHERE expires_at < ?`, time.Now().UTC())
	return mapErr(err)
}
