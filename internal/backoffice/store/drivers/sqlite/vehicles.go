package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type vehiclesRepo struct {
	q querier
}

func (r *vehiclesRepo) Create(ctx context.Context, v domain.Vehicle) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO vehicles (id, org_id, registration, kind, depot_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.OrgID, v.Registration, v.Kind, nullString(v.DepotID), now, now)
	return mapErr(err)
}

func (r *vehiclesRepo) Get(ctx context.Context, orgID, id string) (domain.Vehicle, error) {
	var (
		v     domain.Vehicle
		depot sql.NullString
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, org_id, registration, kind, depot_id, created_at, updated_at
		 FROM vehicles WHERE org_id = ? AND id = ?`, orgID, id).
		Scan(&v.ID, &v.OrgID, &v.Registration, &v.Kind, &depot, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Vehicle{}, mapErr(err)
	}
	v.DepotID = fromNullString(depot)
	return v, nil
}

func (r *vehiclesRepo) List(ctx context.Context, orgID string) ([]domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, org_id, registration, kind, depot_id, created_at, updated_at
		 FROM vehicles WHERE org_id = ? ORDER BY registration`, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		var (
			v     domain.Vehicle
			depot sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.OrgID, &v.Registration, &v.Kind, &depot, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		v.DepotID = fromNullString(depot)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehiclesRepo) Update(ctx context.Context, v domain.Vehicle) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE vehicles SET registration = ?, kind = ?, depot_id = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		v.Registration, v.Kind, nullString(v.DepotID), time.Now().UTC(), v.OrgID, v.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *vehiclesRepo) Delete(ctx context.Context, orgID, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM vehicles WHERE org_id = ? AND id = ?`, orgID, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}
