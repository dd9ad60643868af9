package sqlite

import (
	"context"
	"database/sql"

	"github.com/geocoder89/foodshelter/internal/domain/volunteer"
)

const volunteerColumns = `id, user_id, name, email, phone, availability, skills, notes`

type VolunteersRepo struct {
	base
}

func scanVolunteer(row scanner) (volunteer.Volunteer, error) {
	var (
		v                                  volunteer.Volunteer
		phone, availability, skills, notes sql.NullString
	)

	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &v.Email, &phone, &availability, &skills, &notes); err != nil {
		return volunteer.Volunteer{}, err
	}

	v.Phone = nullString(phone)
	v.Availability = nullString(availability)
	v.Skills = nullString(skills)
	v.Notes = nullString(notes)

	return v, nil
}

func (r *VolunteersRepo) Create(ctx context.Context, ownerID int64, in volunteer.CreateInput) (volunteer.Volunteer, error) {
	return queryOne(ctx, r.base, "volunteer.create",
		`INSERT INTO volunteer (user_id, name, email, phone, availability, skills, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+volunteerColumns,
		scanVolunteer, ownerID, in.Name, in.Email, optional(in.Phone), optional(in.Availability), optional(in.Skills), optional(in.Notes),
	)
}

func (r *VolunteersRepo) GetByID(ctx context.Context, id int64) (volunteer.Volunteer, error) {
	return queryOne(ctx, r.base, "volunteer.get_by_id",
		`SELECT `+volunteerColumns+` FROM volunteer WHERE id = ?`, scanVolunteer, id)
}

func (r *VolunteersRepo) ListByOwner(ctx context.Context, ownerID int64) ([]volunteer.Volunteer, error) {
	return queryAll(ctx, r.base, "volunteer.list_by_owner",
		`SELECT `+volunteerColumns+` FROM volunteer WHERE user_id = ? ORDER BY name ASC, id ASC`,
		scanVolunteer, ownerID)
}

func (r *VolunteersRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "volunteer.delete", "volunteer", id)
}
