package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/budget"
	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, user_id, amount, description, date`

type BudgetsRepo struct {
	base
}

func scanBudget(row pgx.Row) (budget.Entry, error) {
	var e budget.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &e.Date)
	return e, err
}

func (r *BudgetsRepo) Create(ctx context.Context, ownerID int64, in budget.CreateInput) (budget.Entry, error) {
	var e budget.Entry

	err := r.observe("budget.create", func() error {
		var err error
		e, err = scanBudget(r.pool.QueryRow(ctx,
			`INSERT INTO budget (user_id, amount, description, date)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+budgetColumns,
			ownerID, in.Amount, in.Description, in.Date,
		))
		return err
	})

	return e, mapErr(err)
}

func (r *BudgetsRepo) GetByID(ctx context.Context, id int64) (budget.Entry, error) {
	var e budget.Entry

	err := r.observe("budget.get_by_id", func() error {
		var err error
		e, err = scanBudget(r.pool.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budget WHERE id = $1`, id))
		return err
	})

	return e, mapErr(err)
}

func (r *BudgetsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]budget.Entry, error) {
	var out []budget.Entry

	err := r.observe("budget.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+budgetColumns+` FROM budget WHERE user_id = $1 ORDER BY date DESC, id DESC`, ownerID)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (budget.Entry, error) {
			return scanBudget(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *BudgetsRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "budget.delete", "budget", id)
}
