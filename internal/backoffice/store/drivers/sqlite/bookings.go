package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

type bookingsRepo struct {
	q querier
}

const bookingColumns = `id, org_id, reference, crew_id, postcode, starts_at, ends_at, status, notes, created_at, updated_at`

func (r *bookingsRepo) Create(ctx context.Context, b domain.Booking) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OrgID, b.Reference, nullString(b.CrewID), b.Postcode,
		b.StartsAt.UTC(), b.EndsAt.UTC(), string(b.Status), b.Notes, now, now)
	return mapErr(err)
}

func scanBooking(scan func(dest ...any) error) (domain.Booking, error) {
	var (
		b    domain.Booking
		crew sql.NullString
	)
	err := scan(&b.ID, &b.OrgID, &b.Reference, &crew, &b.Postcode,
		&b.StartsAt, &b.EndsAt, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Booking{}, err
	}
	b.CrewID = fromNullString(crew)
	return b, nil
}

func (r *bookingsRepo) Get(ctx context.Context, orgID, id string) (domain.Booking, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE org_id = ? AND id = ?`, orgID, id)
	b, err := scanBooking(row.Scan)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	return b, nil
}

func (r *bookingsRepo) List(ctx context.Context, orgID string) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE org_id = ? ORDER BY starts_at`, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *bookingsRepo) Update(ctx context.Context, b domain.Booking) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE bookings
		 SET reference = ?, crew_id = ?, postcode = ?, starts_at = ?, ends_at = ?, status = ?, notes = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		b.Reference, nullString(b.CrewID), b.Postcode, b.StartsAt.UTC(), b.EndsAt.UTC(),
		string(b.Status), b.Notes, time.Now().UTC(), b.OrgID, b.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *bookingsRepo) Delete(ctx context.Context, orgID, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM bookings WHERE org_id = ? AND id = ?`, orgID, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}
