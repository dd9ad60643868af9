package sqlite

import (
	"context"
	"database/sql"

	"github.com/geocoder89/foodshelter/internal/domain/food"
)

const foodColumns = `id, user_id, item_name, quantity, category, unit, expiration_date, minimum_stock`

type FoodStockRepo struct {
	base
}

func scanFood(row scanner) (food.Item, error) {
	var (
		i   food.Item
		exp sql.NullString
	)

	if err := row.Scan(&i.ID, &i.UserID, &i.ItemName, &i.Quantity, &i.Category, &i.Unit, &exp, &i.MinimumStock); err != nil {
		return food.Item{}, err
	}

	d, err := parseOptionalDate(exp)
	if err != nil {
		return food.Item{}, err
	}
	i.ExpirationDate = d

	return i, nil
}

func (r *FoodStockRepo) Create(ctx context.Context, ownerID int64, in food.CreateInput) (food.Item, error) {
	item := in.NewItem(ownerID)

	return queryOne(ctx, r.base, "food_stock.create",
		`INSERT INTO food_stock (user_id, item_name, quantity, category, unit, expiration_date, minimum_stock)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+foodColumns,
		scanFood,
		item.UserID, item.ItemName, item.Quantity, item.Category, item.Unit, formatOptionalDate(item.ExpirationDate), item.MinimumStock,
	)
}

func (r *FoodStockRepo) GetByID(ctx context.Context, id int64) (food.Item, error) {
	return queryOne(ctx, r.base, "food_stock.get_by_id", `SELECT `+foodColumns+` FROM food_stock WHERE id = ?`, scanFood, id)
}

func (r *FoodStockRepo) ListByOwner(ctx context.Context, ownerID int64) ([]food.Item, error) {
	return queryAll(ctx, r.base, "food_stock.list_by_owner",
		`SELECT `+foodColumns+` FROM food_stock
		  WHERE user_id = ?
		  ORDER BY category ASC, item_name ASC, id ASC`,
		scanFood, ownerID,
	)
}

func (r *FoodStockRepo) Update(ctx context.Context, item food.Item) (food.Item, error) {
	return queryOne(ctx, r.base, "food_stock.update",
		`UPDATE food_stock
		    SET item_name = ?, quantity = ?, category = ?, unit = ?, expiration_date = ?, minimum_stock = ?
		  WHERE id = ?
		  RETURNING `+foodColumns,
		scanFood,
		item.ItemName, item.Quantity, item.Category, item.Unit, formatOptionalDate(item.ExpirationDate), item.MinimumStock, item.ID,
	)
}

func (r *FoodStockRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "food_stock.delete", "food_stock", id)
}
