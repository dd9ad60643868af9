package sqlite

import (
	"context"
	"database/sql"

	"github.com/geocoder89/foodshelter/internal/domain/location"
)

const locationColumns = `id, user_id, address, date, latitude, longitude`

type LocationsRepo struct {
	base
}

func scanLocation(row scanner) (location.Location, error) {
	var (
		l        location.Location
		date     string
		lat, lng sql.NullFloat64
	)

	if err := row.Scan(&l.ID, &l.UserID, &l.Address, &date, &lat, &lng); err != nil {
		return location.Location{}, err
	}

	d, err := parseDate(date)
	if err != nil {
		return location.Location{}, err
	}

	l.Date = d
	l.Latitude = nullFloat(lat)
	l.Longitude = nullFloat(lng)

	return l, nil
}

func (r *LocationsRepo) Create(ctx context.Context, ownerID int64, in location.CreateInput) (location.Location, error) {
	return queryOne(ctx, r.base, "shelter_location.create",
		`INSERT INTO shelter_location (user_id, address, date, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+locationColumns,
		scanLocation, ownerID, in.Address, formatDate(in.Date), optional(in.Latitude), optional(in.Longitude),
	)
}

func (r *LocationsRepo) GetByID(ctx context.Context, id int64) (location.Location, error) {
	return queryOne(ctx, r.base, "shelter_location.get_by_id",
		`SELECT `+locationColumns+` FROM shelter_location WHERE id = ?`, scanLocation, id)
}

func (r *LocationsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]location.Location, error) {
	return queryAll(ctx, r.base, "shelter_location.list_by_owner",
		`SELECT `+locationColumns+` FROM shelter_location WHERE user_id = ? ORDER BY date ASC, id ASC`,
		scanLocation, ownerID)
}

func (r *LocationsRepo) ListAll(ctx context.Context) ([]location.Location, error) {
	return queryAll(ctx, r.base, "shelter_location.list_all",
		`SELECT `+locationColumns+` FROM shelter_location ORDER BY user_id ASC, date ASC, id ASC`,
		scanLocation)
}

func (r *LocationsRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "shelter_location.delete", "shelter_location", id)
}
