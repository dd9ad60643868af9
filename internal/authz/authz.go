package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/apperr"
)

// Kind enumerates the record types a user can own.
type Kind int

const (
	FoodStock Kind = iota + 1
	ShelterLocation
	Note
	Budget
	Volunteer
	Donation
)

// Kinds lists every owned record type in dashboard order.
var Kinds = []Kind{FoodStock, ShelterLocation, Note, Budget, Volunteer, Donation}

// Slug is the route suffix used by add_/delete_ endpoints.
func (k Kind) Slug() string {
	switch k {
	case FoodStock:
		return "food_stock"
	case ShelterLocation:
		return "shelter_location"
	case Note:
		return "note"
	case Budget:
		return "budget"
	case Volunteer:
		return "volunteer"
	case Donation:
		return "donation"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

// Label is the human-facing name used in flash messages.
func (k Kind) Label() string {
	switch k {
	case FoodStock:
		return "Food stock item"
	case ShelterLocation:
		return "Shelter location"
	case Note:
		return "Note"
	case Budget:
		return "Budget entry"
	case Volunteer:
		return "Volunteer"
	case Donation:
		return "Donation"
	default:
		return "Record"
	}
}

func (k Kind) String() string { return k.Slug() }

// Owned is implemented by every record bound to a user.
type Owned interface {
	OwnerID() int64
}

// Lookup returns the owning user id of a record, or apperr.ErrNotFound.
type Lookup func(ctx context.Context, id int64) (int64, error)

// OwnerLookup adapts a repository getter into a Lookup.
func OwnerLookup[T Owned](get func(ctx context.Context, id int64) (T, error)) Lookup {
	return func(ctx context.Context, id int64) (int64, error) {
		v, err := get(ctx, id)
		if err != nil {
			return 0, err
		}
		return v.OwnerID(), nil
	}
}

// AssertOwner fails with apperr.ErrForbidden unless the principal owns the record.
func AssertOwner(p actorctx.Principal, ownerID int64) error {
	if p.UserID == 0 || p.UserID != ownerID {
		return apperr.ErrForbidden
	}
	return nil
}

type Guard struct {
	lookups map[Kind]Lookup
}

func NewGuard(lookups map[Kind]Lookup) *Guard {
	return &Guard{lookups: lookups}
}

// Authorize is the single check applied before every update or delete.
func (g *Guard) Authorize(ctx context.Context, kind Kind, id int64, p actorctx.Principal) error {
	lookup, ok := g.lookups[kind]
	if !ok {
		return fmt.Errorf("authz: no owner lookup registered for %s", kind)
	}

	ownerID, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}

	return AssertOwner(p, ownerID)
}
