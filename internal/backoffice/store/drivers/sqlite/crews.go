package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type crewsRepo struct {
	q querier
}

func (r *crewsRepo) Create(ctx context.Context, c domain.Crew) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO crews (id, org_id, name, depot_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.OrgID, c.Name, nullString(c.DepotID), now, now)
	return mapErr(err)
}

func (r *crewsRepo) Get(ctx context.Context, orgID, id string) (domain.Crew, error) {
	var (
		c     domain.Crew
		depot sql.NullString
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, org_id, name, depot_id, created_at, updated_at
		 FROM crews WHERE org_id = ? AND id = ?`, orgID, id).
		Scan(&c.ID, &c.OrgID, &c.Name, &depot, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Crew{}, mapErr(err)
	}
	c.DepotID = fromNullString(depot)
	return c, nil
}

func (r *crewsRepo) List(ctx context.Context, orgID string) ([]domain.Crew, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, org_id, name, depot_id, created_at, updated_at
		 FROM crews WHERE org_id = ? ORDER BY name`, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Crew
	for rows.Next() {
		var (
			c     domain.Crew
			depot sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &depot, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.DepotID = fromNullString(depot)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *crewsRepo) Update(ctx context.Context, c domain.Crew) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE crews SET name = ?, depot_id = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		c.Name, nullString(c.DepotID), time.Now().UTC(), c.OrgID, c.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *crewsRepo) Delete(ctx context.Context, orgID, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM crews WHERE org_id = ? AND id = ?`, orgID, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}
