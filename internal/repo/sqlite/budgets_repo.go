package sqlite

import (
	"context"
	"database/sql"

	"github.com/geocoder89/foodshelter/internal/domain/budget"
)

const budgetColumns = `id, user_id, amount, description, date`

type BudgetsRepo struct {
	base
}

func scanBudget(row scanner) (budget.Entry, error) {
	var (
		e    budget.Entry
		desc sql.NullString
		date string
	)

	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &desc, &date); err != nil {
		return budget.Entry{}, err
	}

	d, err := parseDate(date)
	if err != nil {
		return budget.Entry{}, err
	}

	e.Description = nullString(desc)
	e.Date = d

	return e, nil
}

func (r *BudgetsRepo) Create(ctx context.Context, ownerID int64, in budget.CreateInput) (budget.Entry, error) {
	return queryOne(ctx, r.base, "budget.create",
		`INSERT INTO budget (user_id, amount, description, date) VALUES (?, ?, ?, ?) RETURNING `+budgetColumns,
		scanBudget, ownerID, in.Amount, optional(in.Description), formatDate(in.Date),
	)
}

func (r *BudgetsRepo) GetByID(ctx context.Context, id int64) (budget.Entry, error) {
	return queryOne(ctx, r.base, "budget.get_by_id", `SELECT `+budgetColumns+` FROM budget WHERE id = ?`, scanBudget, id)
}

func (r *BudgetsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]budget.Entry, error) {
	return queryAll(ctx, r.base, "budget.list_by_owner",
		`SELECT `+budgetColumns+` FROM budget WHERE user_id = ? ORDER BY date DESC, id DESC`,
		scanBudget, ownerID)
}

func (r *BudgetsRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "budget.delete", "budget", id)
}
