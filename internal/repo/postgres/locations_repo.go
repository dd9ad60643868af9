package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/jackc/pgx/v5"
)

const locationColumns = `id, user_id, address, date, latitude, longitude`

type LocationsRepo struct {
	base
}

func scanLocation(row pgx.Row) (location.Location, error) {
	var l location.Location
	err := row.Scan(&l.ID, &l.UserID, &l.Address, &l.Date, &l.Latitude, &l.Longitude)
	return l, err
}

func (r *LocationsRepo) Create(ctx context.Context, ownerID int64, in location.CreateInput) (location.Location, error) {
	var l location.Location

	err := r.observe("shelter_location.create", func() error {
		var err error
		l, err = scanLocation(r.pool.QueryRow(ctx,
			`INSERT INTO shelter_location (user_id, address, date, latitude, longitude)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+locationColumns,
			ownerID, in.Address, in.Date, in.Latitude, in.Longitude,
		))
		return err
	})

	return l, mapErr(err)
}

func (r *LocationsRepo) GetByID(ctx context.Context, id int64) (location.Location, error) {
	var l location.Location

	err := r.observe("shelter_location.get_by_id", func() error {
		var err error
		l, err = scanLocation(r.pool.QueryRow(ctx, `SELECT `+locationColumns+` FROM shelter_location WHERE id = $1`, id))
		return err
	})

	return l, mapErr(err)
}

func (r *LocationsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]location.Location, error) {
	return r.list(ctx, "shelter_location.list_by_owner",
		`SELECT `+locationColumns+` FROM shelter_location WHERE user_id = $1 ORDER BY date ASC, id ASC`, ownerID)
}

func (r *LocationsRepo) ListAll(ctx context.Context) ([]location.Location, error) {
	return r.list(ctx, "shelter_location.list_all",
		`SELECT `+locationColumns+` FROM shelter_location ORDER BY user_id ASC, date ASC, id ASC`)
}

func (r *LocationsRepo) list(ctx context.Context, op, query string, args ...any) ([]location.Location, error) {
	var out []location.Location

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (location.Location, error) {
			return scanLocation(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *LocationsRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "shelter_location.delete", "shelter_location", id)
}
