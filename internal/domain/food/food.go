package food

import (
	"time"

	"github.com/geocoder89/foodshelter/internal/domain"
)

// ExpiringWindow is how far ahead of today an expiration date counts as "expiring soon".
const ExpiringWindow = 7 * 24 * time.Hour

type Item struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	ItemName       string     `json:"itemName"`
	Quantity       int        `json:"quantity"`
	Category       string     `json:"category"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	MinimumStock   int        `json:"minimumStock"`
}

func (i Item) OwnerID() int64 { return i.UserID }

func (i Item) IsLowStock() bool {
	return i.Quantity <= i.MinimumStock
}

// ExpiresBy reports whether the item has an expiration date on or before cutoff.
func (i Item) ExpiresBy(cutoff time.Time) bool {
	if i.ExpirationDate == nil {
		return false
	}
	return !domain.Today(*i.ExpirationDate).After(domain.Today(cutoff))
}

// ExpiringCutoff is today + 7 days for the given instant.
func ExpiringCutoff(now time.Time) time.Time {
	return domain.Today(now).Add(ExpiringWindow)
}

type CreateInput struct {
	ItemName       string
	Quantity       int
	Category       string
	Unit           string
	ExpirationDate *time.Time
	MinimumStock   int
}

func (in CreateInput) NewItem(ownerID int64) Item {
	return Item{
		UserID:         ownerID,
		ItemName:       in.ItemName,
		Quantity:       in.Quantity,
		Category:       in.Category,
		Unit:           in.Unit,
		ExpirationDate: in.ExpirationDate,
		MinimumStock:   in.MinimumStock,
	}
}

// Patch is a partial update. Nil fields keep their stored value.
type Patch struct {
	ItemName        *string
	Quantity        *int
	Category        *string
	Unit            *string
	ExpirationDate  *time.Time
	ClearExpiration bool
	MinimumStock    *int
}

func (p Patch) Apply(i Item) Item {
	if p.ItemName != nil {
		i.ItemName = *p.ItemName
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.MinimumStock != nil {
		i.MinimumStock = *p.MinimumStock
	}

	switch {
	case p.ClearExpiration:
		i.ExpirationDate = nil
	case p.ExpirationDate != nil:
		d := *p.ExpirationDate
		i.ExpirationDate = &d
	}

	return i
}
