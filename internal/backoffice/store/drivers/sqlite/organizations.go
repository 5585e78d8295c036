package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type organizationsRepo struct {
	q querier
}

func (r *organizationsRepo) GetByID(ctx context.Context, id string) (domain.Organization, error) {
	var (
		o     domain.Organization
		trial sql.NullTime
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, owner_user_id, plan, subscription_status, trial_ends_at, created_at, updated_at
		 FROM organizations WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.OwnerUserID, &o.Plan, &o.SubscriptionStatus, &trial, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Organization{}, mapErr(err)
	}
	if trial.Valid {
		t := trial.Time
		o.TrialEndsAt = &t
	}
	return o, nil
}

func (r *organizationsRepo) Create(ctx context.Context, o domain.Organization) error {
	now := time.Now().UTC()
	var trial sql.NullTime
	if o.TrialEndsAt != nil {
		trial = sql.NullTime{Time: o.TrialEndsAt.UTC(), Valid: true}
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO organizations (id, name, owner_user_id, plan, subscription_status, trial_ends_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.OwnerUserID, o.Plan, o.SubscriptionStatus, trial, now, now)
	return mapErr(err)
}

func (r *organizationsRepo) UpdateSubscription(ctx context.Context, orgID, plan, status string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE organizations SET plan = ?, subscription_status = ?, updated_at = ? WHERE id = ?`,
		plan, status, time.Now().UTC(), orgID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}
