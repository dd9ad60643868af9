// Package repo declares the persistence contracts shared by the Postgres and SQLite backends.
// Every getter and Delete returns apperr.ErrNotFound when no row matches.
package repo

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/budget"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/geocoder89/foodshelter/internal/domain/note"
	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/geocoder89/foodshelter/internal/domain/volunteer"
)

type Users interface {
	// Create returns apperr.ErrDuplicateIdentifier when the email is taken.
	Create(ctx context.Context, in user.NewUser) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	UpdateProfile(ctx context.Context, id int64, p user.Profile) (user.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type FoodStock interface {
	Create(ctx context.Context, ownerID int64, in food.CreateInput) (food.Item, error)
	GetByID(ctx context.Context, id int64) (food.Item, error)
	// ListByOwner orders by category, then item name.
	ListByOwner(ctx context.Context, ownerID int64) ([]food.Item, error)
	// Update writes every mutable column of item; ownership is never changed.
	Update(ctx context.Context, item food.Item) (food.Item, error)
	Delete(ctx context.Context, id int64) error
}

type Locations interface {
	Create(ctx context.Context, ownerID int64, in location.CreateInput) (location.Location, error)
	GetByID(ctx context.Context, id int64) (location.Location, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]location.Location, error)
	ListAll(ctx context.Context) ([]location.Location, error)
	Delete(ctx context.Context, id int64) error
}

type Notes interface {
	Create(ctx context.Context, ownerID int64, in note.CreateInput) (note.Note, error)
	GetByID(ctx context.Context, id int64) (note.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]note.Note, error)
	Delete(ctx context.Context, id int64) error
}

type Volunteers interface {
	Create(ctx context.Context, ownerID int64, in volunteer.CreateInput) (volunteer.Volunteer, error)
	GetByID(ctx context.Context, id int64) (volunteer.Volunteer, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]volunteer.Volunteer, error)
	Delete(ctx context.Context, id int64) error
}

type Budgets interface {
	Create(ctx context.Context, ownerID int64, in budget.CreateInput) (budget.Entry, error)
	GetByID(ctx context.Context, id int64) (budget.Entry, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]budget.Entry, error)
	Delete(ctx context.Context, id int64) error
}

type Donations interface {
	// Create stamps the donation with today's date.
	Create(ctx context.Context, ownerID int64, in donation.CreateInput) (donation.Donation, error)
	GetByID(ctx context.Context, id int64) (donation.Donation, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]donation.Donation, error)
	Delete(ctx context.Context, id int64) error
}

// Set is one backend's full repository surface.
type Set struct {
	Users      Users
	FoodStock  FoodStock
	Locations  Locations
	Notes      Notes
	Volunteers Volunteers
	Budgets    Budgets
	Donations  Donations

	Ping  func(ctx context.Context) error
	Close func()
}
