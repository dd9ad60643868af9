// Package dashboard assembles the per-operator dashboard and the public directory.
// Derived counts are recomputed from the stored rows on every read.
package dashboard

import (
	"context"
	"time"

	"github.com/geocoder89/foodshelter/internal/domain/budget"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/geocoder89/foodshelter/internal/domain/note"
	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/geocoder89/foodshelter/internal/domain/volunteer"
	"github.com/geocoder89/foodshelter/internal/repo"
)

type View struct {
	FoodStock  []food.Item
	Locations  []location.Location
	Notes      []note.Note
	Budgets    []budget.Entry
	Volunteers []volunteer.Volunteer
	Donations  []donation.Donation

	LowStockCount     int
	ExpiringSoonCount int
	TotalDonations    string
}

// Shelter is one operator's public listing on the home page.
type Shelter struct {
	User      user.User
	Locations []location.Location
}

type Service struct {
	repos repo.Set
	now   func() time.Time
}

func NewService(repos repo.Set) *Service {
	return &Service{repos: repos, now: time.Now}
}

// WithClock swaps the time source used for the expiry window.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Service) Build(ctx context.Context, ownerID int64) (View, error) {
	var (
		v   View
		err error
	)

	if v.FoodStock, err = s.repos.FoodStock.ListByOwner(ctx, ownerID); err != nil {
		return View{}, err
	}
	if v.Locations, err = s.repos.Locations.ListByOwner(ctx, ownerID); err != nil {
		return View{}, err
	}
	if v.Notes, err = s.repos.Notes.ListByOwner(ctx, ownerID); err != nil {
		return View{}, err
	}
	if v.Budgets, err = s.repos.Budgets.ListByOwner(ctx, ownerID); err != nil {
		return View{}, err
	}
	if v.Volunteers, err = s.repos.Volunteers.ListByOwner(ctx, ownerID); err != nil {
		return View{}, err
	}
	if v.Donations, err = s.repos.Donations.ListByOwner(ctx, ownerID); err != nil {
		return View{}, err
	}

	v.LowStockCount = len(lowStock(v.FoodStock))
	v.ExpiringSoonCount = len(expiringSoon(v.FoodStock, s.now()))
	v.TotalDonations = donation.FormatAmount(donation.Total(v.Donations))

	return v, nil
}

func (s *Service) LowStock(ctx context.Context, ownerID int64) ([]food.Item, error) {
	items, err := s.repos.FoodStock.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return lowStock(items), nil
}

func (s *Service) ExpiringSoon(ctx context.Context, ownerID int64) ([]food.Item, error) {
	items, err := s.repos.FoodStock.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return expiringSoon(items, s.now()), nil
}

// Directory lists every operator with their shelter locations, in registration order.
func (s *Service) Directory(ctx context.Context) ([]Shelter, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}

	locs, err := s.repos.Locations.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[int64][]location.Location, len(users))
	for _, l := range locs {
		byOwner[l.UserID] = append(byOwner[l.UserID], l)
	}

	out := make([]Shelter, 0, len(users))
	for _, u := range users {
		out = append(out, Shelter{User: u, Locations: byOwner[u.ID]})
	}

	return out, nil
}

func lowStock(items []food.Item) []food.Item {
	out := []food.Item{}
	for _, i := range items {
		if i.IsLowStock() {
			out = append(out, i)
		}
	}
	return out
}

func expiringSoon(items []food.Item, now time.Time) []food.Item {
	cutoff := food.ExpiringCutoff(now)

	out := []food.Item{}
	for _, i := range items {
		if i.ExpiresBy(cutoff) {
			out = append(out, i)
		}
	}
	return out
}
