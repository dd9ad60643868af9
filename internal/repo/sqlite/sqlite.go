// Package sqlite implements the repositories over a modernc.org/sqlite database opened by db.OpenSQLite.
// Dates are stored as YYYY-MM-DD text and timestamps as RFC 3339 text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/domain"
	"github.com/geocoder89/foodshelter/internal/observability"
	"github.com/geocoder89/foodshelter/internal/repo"
)

type base struct {
	db   *sql.DB
	prom *observability.Prom
	now  func() time.Time
}

func (b base) observe(op string, fn func() error) error {
	if b.prom != nil {
		return b.prom.ObserveDB(op, fn)
	}
	return fn()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return apperr.ErrDuplicateIdentifier
	}

	return err
}

func (b base) deleteByID(ctx context.Context, op, table string, id int64) error {
	var affected int64

	err := b.observe(op, func() error {
		res, err := b.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, b base, op, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	out := []T{}

	err := b.observe(op, func() error {
		rows, err := b.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, v)
		}

		return rows.Err()
	})

	return out, mapErr(err)
}

func queryOne[T any](ctx context.Context, b base, op, query string, scan func(scanner) (T, error), args ...any) (T, error) {
	var v T

	err := b.observe(op, func() error {
		var err error
		v, err = scan(b.db.QueryRowContext(ctx, query, args...))
		return err
	})

	return v, mapErr(err)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatOptionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

func parseOptionalDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}

	d, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// optional unwraps a pointer argument so NULL is bound for nil.
func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// Options tune a Set; zero values fall back to defaults.
type Options struct {
	Prom *observability.Prom
	Now  func() time.Time
}

// NewSet wires every repository over conn. Close closes conn.
func NewSet(conn *sql.DB, opts Options) repo.Set {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	b := base{db: conn, prom: opts.Prom, now: now}

	return repo.Set{
		Users:      &UsersRepo{base: b},
		FoodStock:  &FoodStockRepo{base: b},
		Locations:  &LocationsRepo{base: b},
		Notes:      &NotesRepo{base: b},
		Volunteers: &VolunteersRepo{base: b},
		Budgets:    &BudgetsRepo{base: b},
		Donations:  &DonationsRepo{base: b},
		Ping:       conn.PingContext,
		Close:      func() { _ = conn.Close() },
	}
}
