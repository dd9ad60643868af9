package food

import (
	"testing"
	"time"
)

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minimum  int
		want     bool
	}{
		{name: "below_minimum", quantity: 2, minimum: 5, want: true},
		{name: "at_minimum", quantity: 5, minimum: 5, want: true},
		{name: "above_minimum", quantity: 6, minimum: 5, want: false},
		{name: "zero_default_minimum_empty", quantity: 0, minimum: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := Item{Quantity: tt.quantity, MinimumStock: tt.minimum}
			if got := i.IsLowStock(); got != tt.want {
				t.Fatalf("IsLowStock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiresBy(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	cutoff := ExpiringCutoff(now)

	day := func(offset int) *time.Time {
		d := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &d
	}

	tests := []struct {
		name string
		exp  *time.Time
		want bool
	}{
		{name: "already_expired", exp: day(-1), want: true},
		{name: "today", exp: day(0), want: true},
		{name: "plus_seven", exp: day(7), want: true},
		{name: "plus_eight", exp: day(8), want: false},
		{name: "no_date", exp: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := Item{ExpirationDate: tt.exp}
			if got := i.ExpiresBy(cutoff); got != tt.want {
				t.Fatalf("ExpiresBy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	orig := Item{
		ID:             7,
		UserID:         1,
		ItemName:       "Rice",
		Quantity:       10,
		Category:       "Grains",
		Unit:           "kg",
		ExpirationDate: &exp,
		MinimumStock:   3,
	}

	qty := 4
	name := "Brown rice"

	got := Patch{ItemName: &name, Quantity: &qty}.Apply(orig)

	if got.ItemName != "Brown rice" || got.Quantity != 4 {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.Category != "Grains" || got.Unit != "kg" || got.MinimumStock != 3 {
		t.Fatalf("absent fields should keep previous values: %+v", got)
	}
	if got.ExpirationDate == nil || !got.ExpirationDate.Equal(exp) {
		t.Fatalf("expiration date should be untouched: %v", got.ExpirationDate)
	}

	cleared := Patch{ClearExpiration: true}.Apply(orig)
	if cleared.ExpirationDate != nil {
		t.Fatalf("expected expiration date to be cleared")
	}
	if orig.ExpirationDate == nil {
		t.Fatalf("Apply must not mutate the original item")
	}
}

func TestExpiringCutoffUsesCallerZone(t *testing.T) {
	// 23:30 on March 10 in UTC-6 is already March 11 in UTC
	central := time.FixedZone("UTC-6", -6*60*60)
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, central)

	edge := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	i := Item{ExpirationDate: &edge}

	if i.ExpiresBy(ExpiringCutoff(now)) {
		t.Fatalf("March 18 is eight days out for a UTC-6 operator")
	}
	if !i.ExpiresBy(ExpiringCutoff(now.UTC())) {
		t.Fatalf("March 18 is seven days out in UTC")
	}
}
