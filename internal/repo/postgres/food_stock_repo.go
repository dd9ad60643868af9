package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/jackc/pgx/v5"
)

const foodColumns = `id, user_id, item_name, quantity, category, unit, expiration_date, minimum_stock`

type FoodStockRepo struct {
	base
}

func scanFood(row pgx.Row) (food.Item, error) {
	var i food.Item
	err := row.Scan(&i.ID, &i.UserID, &i.ItemName, &i.Quantity, &i.Category, &i.Unit, &i.ExpirationDate, &i.MinimumStock)
	return i, err
}

func (r *FoodStockRepo) Create(ctx context.Context, ownerID int64, in food.CreateInput) (food.Item, error) {
	item := in.NewItem(ownerID)

	err := r.observe("food_stock.create", func() error {
		var err error
		item, err = scanFood(r.pool.QueryRow(ctx,
			`INSERT INTO food_stock (user_id, item_name, quantity, category, unit, expiration_date, minimum_stock)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING `+foodColumns,
			item.UserID, item.ItemName, item.Quantity, item.Category, item.Unit, item.ExpirationDate, item.MinimumStock,
		))
		return err
	})

	return item, mapErr(err)
}

func (r *FoodStockRepo) GetByID(ctx context.Context, id int64) (food.Item, error) {
	var item food.Item

	err := r.observe("food_stock.get_by_id", func() error {
		var err error
		item, err = scanFood(r.pool.QueryRow(ctx, `SELECT `+foodColumns+` FROM food_stock WHERE id = $1`, id))
		return err
	})

	return item, mapErr(err)
}

func (r *FoodStockRepo) ListByOwner(ctx context.Context, ownerID int64) ([]food.Item, error) {
	var out []food.Item

	err := r.observe("food_stock.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+foodColumns+` FROM food_stock
			  WHERE user_id = $1
			  ORDER BY category ASC, item_name ASC, id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (food.Item, error) {
			return scanFood(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *FoodStockRepo) Update(ctx context.Context, item food.Item) (food.Item, error) {
	var out food.Item

	err := r.observe("food_stock.update", func() error {
		var err error
		out, err = scanFood(r.pool.QueryRow(ctx,
			`UPDATE food_stock
			    SET item_name = $2,
			        quantity = $3,
			        category = $4,
			        unit = $5,
			        expiration_date = $6,
			        minimum_stock = $7
			  WHERE id = $1
			  RETURNING `+foodColumns,
			item.ID, item.ItemName, item.Quantity, item.Category, item.Unit, item.ExpirationDate, item.MinimumStock,
		))
		return err
	})

	return out, mapErr(err)
}

func (r *FoodStockRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "food_stock.delete", "food_stock", id)
}
