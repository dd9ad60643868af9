package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/db"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/geocoder89/foodshelter/internal/repo"
)

func setupPostgres(t *testing.T) repo.Set {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}

	if err := db.MigratePostgres(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	_, err = pool.Exec(ctx, `TRUNCATE donation, volunteer, budget, note, shelter_location, food_stock, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	set := NewSet(pool, Options{})
	t.Cleanup(set.Close)

	return set
}

func TestPostgresUsersAndFoodStock(t *testing.T) {
	set := setupPostgres(t)
	ctx := context.Background()

	u, err := set.Users.Create(ctx, user.NewUser{Email: "sam@example.com", PasswordHash: "h", Role: user.DefaultRole})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err = set.Users.Create(ctx, user.NewUser{Email: "sam@example.com", PasswordHash: "h", Role: user.DefaultRole})
	if !errors.Is(err, apperr.ErrDuplicateIdentifier) {
		t.Fatalf("expected ErrDuplicateIdentifier, got %v", err)
	}

	item, err := set.FoodStock.Create(ctx, u.ID, food.CreateInput{ItemName: "Rice", Quantity: 3, MinimumStock: 5})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if !item.IsLowStock() {
		t.Fatalf("expected low stock item")
	}

	if err := set.FoodStock.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := set.FoodStock.Delete(ctx, item.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
