package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type employeesRepo struct {
	q querier
}

func (r *employeesRepo) Create(ctx context.Context, e domain.Employee) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO employees (id, org_id, name, email, crew_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrgID, e.Name, e.Email, nullString(e.CrewID), now, now)
	return mapErr(err)
}

func (r *employeesRepo) Get(ctx context.Context, orgID, id string) (domain.Employee, error) {
	var (
		e    domain.Employee
		crew sql.NullString
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, org_id, name, email, crew_id, created_at, updated_at
		 FROM employees WHERE org_id = ? AND id = ?`, orgID, id).
		Scan(&e.ID, &e.OrgID, &e.Name, &e.Email, &crew, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Employee{}, mapErr(err)
	}
	e.CrewID = fromNullString(crew)
	return e, nil
}

func (r *employeesRepo) List(ctx context.Context, orgID string) ([]domain.Employee, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, org_id, name, email, crew_id, created_at, updated_at
		 FROM employees WHERE org_id = ? ORDER BY name`, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var (
			e    domain.Employee
			crew sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Name, &e.Email, &crew, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.CrewID = fromNullString(crew)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *employeesRepo) Update(ctx context.Context, e domain.Employee) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE employees SET name = ?, email = ?, crew_id = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		e.Name, e.Email, nullString(e.CrewID), time.Now().UTC(), e.OrgID, e.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *employeesRepo) Delete(ctx context.Context, orgID, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM employees WHERE org_id = ? AND id = ?`, orgID, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}
