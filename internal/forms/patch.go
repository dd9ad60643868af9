package forms

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/domain/food"
)

// patchValue accepts a JSON string, number or null and remembers that the
// key was present; the inline editor sends cell text, API callers may send
// numbers, and null clears a nullable field.
type patchValue struct {
	set bool
	v   string
}

func (p *patchValue) UnmarshalJSON(b []byte) error {
	p.set = true

	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		p.v = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		p.v = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	p.v = n.String()
	return nil
}

func (p patchValue) text() string {
	return strings.TrimSpace(p.v)
}

// FoodStockPatchRequest is the JSON body of POST /update_food_stock/:id.
// Absent keys leave the stored value alone.
type FoodStockPatchRequest struct {
	ItemName       patchValue `json:"item_name"`
	Quantity       patchValue `json:"quantity"`
	Category       patchValue `json:"category"`
	Unit           patchValue `json:"unit"`
	ExpirationDate patchValue `json:"expiration_date"`
	MinimumStock   patchValue `json:"minimum_stock"`
}

// same limits as FoodStockForm
const (
	maxItemName = 100
	maxCategory = 50
	maxUnit     = 20
)

// clearDateValues are the cell texts that mean "no expiration date".
var clearDateValues = map[string]bool{"": true, "none": true, "null": true, "n/a": true, "-": true}

// Patch coerces every present field; one bad field fails the whole update.
func (r FoodStockPatchRequest) Patch() (food.Patch, error) {
	var p food.Patch
	var fields []apperr.FieldError

	tooLong := func(field string, limit int) {
		fields = append(fields, apperr.FieldError{
			Field:   field,
			Rule:    "max",
			Param:   strconv.Itoa(limit),
			Message: "must be at most " + strconv.Itoa(limit) + " characters",
		})
	}

	if r.ItemName.set {
		name := r.ItemName.text()
		switch {
		case name == "":
			fields = append(fields, apperr.FieldError{Field: "item_name", Rule: "required", Message: "is required"})
		case utf8.RuneCountInString(name) > maxItemName:
			tooLong("item_name", maxItemName)
		default:
			p.ItemName = &name
		}
	}

	if r.Quantity.set {
		n, err := strconv.Atoi(r.Quantity.text())
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "quantity", Rule: "int", Message: "must be a whole number"})
		} else {
			p.Quantity = &n
		}
	}

	if r.MinimumStock.set {
		n, err := strconv.Atoi(r.MinimumStock.text())
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "minimum_stock", Rule: "int", Message: "must be a whole number"})
		} else {
			p.MinimumStock = &n
		}
	}

	if r.Category.set {
		c := r.Category.text()
		if utf8.RuneCountInString(c) > maxCategory {
			tooLong("category", maxCategory)
		} else {
			p.Category = &c
		}
	}

	if r.Unit.set {
		u := r.Unit.text()
		if utf8.RuneCountInString(u) > maxUnit {
			tooLong("unit", maxUnit)
		} else {
			p.Unit = &u
		}
	}

	if r.ExpirationDate.set {
		raw := r.ExpirationDate.text()
		if clearDateValues[strings.ToLower(raw)] {
			p.ClearExpiration = true
		} else if d, err := ParseDate("expiration_date", raw); err != nil {
			fields = append(fields, apperr.FieldError{Field: "expiration_date", Rule: "date", Message: "must be a date in YYYY-MM-DD format"})
		} else {
			p.ExpirationDate = &d
		}
	}

	if len(fields) > 0 {
		return food.Patch{}, &apperr.ValidationError{Fields: fields}
	}

	return p, nil
}
