package sqlite

import (
	"context"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type depotsRepo struct {
	q querier
}

func (r *depotsRepo) Create(ctx context.Context, d domain.Depot) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO depots (id, org_id, name, postcode, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.OrgID, d.Name, d.Postcode, now, now)
	return mapErr(err)
}

func (r *depotsRepo) Get(ctx context.Context, orgID, id string) (domain.Depot, error) {
	var d domain.Depot
	err := r.q.QueryRowContext(ctx,
		`SELECT id, org_id, name, postcode, created_at, updated_at
		 FROM depots WHERE org_id = ? AND id = ?`, orgID, id).
		Scan(&d.ID, &d.OrgID, &d.Name, &d.Postcode, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Depot{}, mapErr(err)
	}
	return d, nil
}

func (r *depotsRepo) List(ctx context.Context, orgID string) ([]domain.Depot, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, org_id, name, postcode, created_at, updated_at
		 FROM depots WHERE org_id = ? ORDER BY name`, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Depot
	for rows.Next() {
		var d domain.Depot
		if err := rows.Scan(&d.ID, &d.OrgID, &d.Name, &d.Postcode, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *depotsRepo) Update(ctx context.Context, d domain.Depot) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE depots SET name = ?, postcode = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		d.Name, d.Postcode, time.Now().UTC(), d.OrgID, d.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *depotsRepo) Delete(ctx context.Context, orgID, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM depots WHERE org_id = ? AND id = ?`, orgID, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}
