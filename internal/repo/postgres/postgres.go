package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/observability"
	"github.com/geocoder89/foodshelter/internal/repo"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type base struct {
	pool *pgxpool.Pool
	prom *observability.Prom
	now  func() time.Time
}

func (b base) observe(op string, fn func() error) error {
	if b.prom != nil {
		return b.prom.ObserveDB(op, fn)
	}
	return fn()
}

// mapErr turns driver errors into the apperr taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.ErrDuplicateIdentifier
	}

	return err
}

func (b base) deleteByID(ctx context.Context, op, table string, id int64) error {
	var affected int64

	err := b.observe(op, func() error {
		tag, err := b.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// Options tune a Set; zero values fall back to defaults.
type Options struct {
	Prom *observability.Prom
	Now  func() time.Time
}

// NewSet wires every repository over one pool. Close releases the pool.
func NewSet(pool *pgxpool.Pool, opts Options) repo.Set {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	b := base{pool: pool, prom: opts.Prom, now: now}

	return repo.Set{
		Users:      &UsersRepo{base: b},
		FoodStock:  &FoodStockRepo{base: b},
		Locations:  &LocationsRepo{base: b},
		Notes:      &NotesRepo{base: b},
		Volunteers: &VolunteersRepo{base: b},
		Budgets:    &BudgetsRepo{base: b},
		Donations:  &DonationsRepo{base: b},
		Ping:       pool.Ping,
		Close:      pool.Close,
	}
}
