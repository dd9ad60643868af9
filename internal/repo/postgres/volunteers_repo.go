package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/volunteer"
	"github.com/jackc/pgx/v5"
)

const volunteerColumns = `id, user_id, name, email, phone, availability, skills, notes`

type VolunteersRepo struct {
	base
}

func scanVolunteer(row pgx.Row) (volunteer.Volunteer, error) {
	var v volunteer.Volunteer
	err := row.Scan(&v.ID, &v.UserID, &v.Name, &v.Email, &v.Phone, &v.Availability, &v.Skills, &v.Notes)
	return v, err
}

func (r *VolunteersRepo) Create(ctx context.Context, ownerID int64, in volunteer.CreateInput) (volunteer.Volunteer, error) {
	var v volunteer.Volunteer

	err := r.observe("volunteer.create", func() error {
		var err error
		v, err = scanVolunteer(r.pool.QueryRow(ctx,
			`INSERT INTO volunteer (user_id, name, email, phone, availability, skills, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING `+volunteerColumns,
			ownerID, in.Name, in.Email, in.Phone, in.Availability, in.Skills, in.Notes,
		))
		return err
	})

	return v, mapErr(err)
}

func (r *VolunteersRepo) GetByID(ctx context.Context, id int64) (volunteer.Volunteer, error) {
	var v volunteer.Volunteer

	err := r.observe("volunteer.get_by_id", func() error {
		var err error
		v, err = scanVolunteer(r.pool.QueryRow(ctx, `SELECT `+volunteerColumns+` FROM volunteer WHERE id = $1`, id))
		return err
	})

	return v, mapErr(err)
}

func (r *VolunteersRepo) ListByOwner(ctx context.Context, ownerID int64) ([]volunteer.Volunteer, error) {
	var out []volunteer.Volunteer

	err := r.observe("volunteer.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+volunteerColumns+` FROM volunteer WHERE user_id = $1 ORDER BY name ASC, id ASC`, ownerID)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (volunteer.Volunteer, error) {
			return scanVolunteer(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *VolunteersRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "volunteer.delete", "volunteer", id)
}
