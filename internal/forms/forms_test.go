package forms

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/foodshelter/internal/apperr"
)

func TestParseDateIsStrict(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "2026-03-01"},
		{raw: " 2026-03-01 "},
		{raw: "2026-3-1", wantErr: true},
		{raw: "03/01/2026", wantErr: true},
		{raw: "2026-02-30", wantErr: true},
		{raw: "26-03-01", wantErr: true},
		{raw: "2026-03-01T00:00:00Z", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ParseDate("date", tt.raw)
			if tt.wantErr && !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFoodStockFormInput(t *testing.T) {
	in, err := FoodStockForm{
		ItemName:       " Rice ",
		Quantity:       "12",
		Category:       "Grains",
		Unit:           "kg",
		ExpirationDate: "2026-06-30",
		MinimumStock:   "4",
	}.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}

	if in.ItemName != "Rice" || in.Quantity != 12 || in.MinimumStock != 4 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.ExpirationDate == nil || !in.ExpirationDate.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiration: %v", in.ExpirationDate)
	}

	noDefaults, err := FoodStockForm{ItemName: "Beans", Quantity: "3"}.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if noDefaults.MinimumStock != 0 || noDefaults.ExpirationDate != nil {
		t.Fatalf("optional fields should default: %+v", noDefaults)
	}
}

func TestFoodStockFormRejectsNonNumericQuantity(t *testing.T) {
	_, err := FoodStockForm{ItemName: "Rice", Quantity: "lots"}.Input()

	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields[0].Field != "quantity" {
		t.Fatalf("expected quantity field, got %+v", ve.Fields)
	}
}

func TestBudgetAndDonationAmounts(t *testing.T) {
	b, err := BudgetForm{Amount: "-125.50", Date: "2026-01-15", Description: "  "}.Input()
	if err != nil {
		t.Fatalf("BudgetForm.Input: %v", err)
	}
	if b.Amount != -125.50 || b.Description != nil {
		t.Fatalf("unexpected budget input: %+v", b)
	}

	for _, raw := range []string{"ten", "NaN", "Inf", ""} {
		if _, err := (DonationForm{Amount: raw}).Input(); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("amount %q: expected validation error, got %v", raw, err)
		}
	}

	d, err := DonationForm{Amount: "0.1", DonorName: "Ada"}.Input()
	if err != nil {
		t.Fatalf("DonationForm.Input: %v", err)
	}
	if d.Amount != 0.1 || d.DonorName == nil || *d.DonorName != "Ada" {
		t.Fatalf("unexpected donation input: %+v", d)
	}

	spaced, err := DonationForm{Amount: "1", DonorName: " Ada Lovelace  "}.Input()
	if err != nil {
		t.Fatalf("DonationForm.Input: %v", err)
	}
	if spaced.DonorName == nil || *spaced.DonorName != " Ada Lovelace  " {
		t.Fatalf("donor name must be kept as typed: %+v", spaced.DonorName)
	}

	anon, _ := DonationForm{Amount: "1"}.Input()
	if anon.DonorName != nil {
		t.Fatalf("omitted donor name should be nil")
	}
}

func TestFoodStockPatch(t *testing.T) {
	var req FoodStockPatchRequest
	body := `{"item_name":"Oats","quantity":7,"expiration_date":"None","unit":"box"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	p, err := req.Patch()
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	if p.ItemName == nil || *p.ItemName != "Oats" {
		t.Fatalf("item name not set: %+v", p)
	}
	if p.Quantity == nil || *p.Quantity != 7 {
		t.Fatalf("numeric quantity not coerced: %+v", p)
	}
	if !p.ClearExpiration {
		t.Fatalf("None should clear the expiration date")
	}
	if p.Category != nil || p.MinimumStock != nil {
		t.Fatalf("absent keys must stay nil: %+v", p)
	}
}

func TestFoodStockPatchFailsWhole(t *testing.T) {
	var req FoodStockPatchRequest
	body := `{"item_name":"Oats","quantity":"seven","minimum_stock":"2"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	p, err := req.Patch()

	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if p.ItemName != nil || p.MinimumStock != nil {
		t.Fatalf("failed patch must not carry partial values: %+v", p)
	}
}

func TestFoodStockPatchNullClearsDate(t *testing.T) {
	var req FoodStockPatchRequest
	if err := json.Unmarshal([]byte(`{"expiration_date":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	p, err := req.Patch()
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !p.ClearExpiration || p.ExpirationDate != nil {
		t.Fatalf("null should clear the expiration date: %+v", p)
	}
	if p.ItemName != nil || p.Quantity != nil {
		t.Fatalf("absent keys must stay nil: %+v", p)
	}
}

func TestFoodStockPatchLengthLimits(t *testing.T) {
	tests := []struct {
		name  string
		field string
		body  string
	}{
		{name: "item_name", field: "item_name", body: `{"item_name":"` + strings.Repeat("a", 101) + `"}`},
		{name: "category", field: "category", body: `{"category":"` + strings.Repeat("c", 51) + `"}`},
		{name: "unit", field: "unit", body: `{"unit":"` + strings.Repeat("u", 21) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req FoodStockPatchRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			_, err := req.Patch()

			var ve *apperr.ValidationError
			if !errors.As(err, &ve) || len(ve.Fields) != 1 {
				t.Fatalf("expected one field error, got %v", err)
			}
			if ve.Fields[0].Field != tt.field || ve.Fields[0].Rule != "max" {
				t.Fatalf("got %+v", ve.Fields[0])
			}
		})
	}

	var ok FoodStockPatchRequest
	if err := json.Unmarshal([]byte(`{"unit":"`+strings.Repeat("u", 20)+`"}`), &ok); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := ok.Patch(); err != nil {
		t.Fatalf("unit at the limit should pass: %v", err)
	}
}
