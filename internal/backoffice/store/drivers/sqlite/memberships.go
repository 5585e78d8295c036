package sqlite

import (
	"context"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type membershipsRepo struct {
	q querier
}

func (r *membershipsRepo) Get(ctx context.Context, userID, orgID string) (domain.Membership, error) {
	var m domain.Membership
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, org_id, role, accepted_at, created_at
		 FROM organization_memberships WHERE user_id = ? AND org_id = ?`,
		userID, orgID).
		Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.AcceptedAt, &m.CreatedAt)
	if err != nil {
		return domain.Membership{}, mapErr(err)
	}
	return m, nil
}

func (r *membershipsRepo) Create(ctx context.Context, m domain.Membership) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO organization_memberships (id, user_id, org_id, role, accepted_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.OrgID, string(m.Role), m.AcceptedAt.UTC(), time.Now().UTC())
	return mapErr(err)
}

func (r *membershipsRepo) ListByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, org_id, role, accepted_at, created_at
		 FROM organization_memberships WHERE user_id = ? ORDER BY accepted_at`,
		userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.AcceptedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) ListMembers(ctx context.Context, orgID string) ([]domain.OrgMember, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT m.user_id, u.username, COALESCE(u.email, ''), m.role, m.accepted_at
		 FROM organization_memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.org_id = ?
		 ORDER BY m.accepted_at`,
		orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.OrgMember
	for rows.Next() {
		var m domain.OrgMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.Email, &m.Role, &m.AcceptedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
