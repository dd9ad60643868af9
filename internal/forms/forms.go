// Package forms holds the input schema of every mutating route. Each struct
// declares its named fields, whether they are required and the validator rules
// gin applies while binding; Input converts the bound strings into typed domain
// input and reports conversion failures as apperr.ValidationError.
package forms

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/domain"
	"github.com/geocoder89/foodshelter/internal/domain/budget"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/geocoder89/foodshelter/internal/domain/note"
	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/geocoder89/foodshelter/internal/domain/volunteer"
)

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Email    string `form:"email" binding:"required,email,max=120"`
	Password string `form:"password" binding:"required,min=8,max=72"`
}

type ForgotPasswordForm struct {
	Email string `form:"email" binding:"required,email"`
}

type ResetPasswordForm struct {
	Password        string `form:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"omitempty,eqfield=Password"`
}

type ProfileForm struct {
	Name         string `form:"name" binding:"max=100"`
	Bio          string `form:"bio" binding:"max=2000"`
	Website      string `form:"website" binding:"omitempty,url,max=200"`
	Contact      string `form:"contact" binding:"max=100"`
	DonationLink string `form:"donation_link" binding:"omitempty,url,max=200"`
}

func (f ProfileForm) Input() user.Profile {
	return user.Profile{
		Name:         optional(f.Name),
		Bio:          optional(f.Bio),
		Website:      optional(f.Website),
		Contact:      optional(f.Contact),
		DonationLink: optional(f.DonationLink),
	}
}

type FoodStockForm struct {
	ItemName       string `form:"item_name" binding:"required,max=100"`
	Quantity       string `form:"quantity" binding:"required"`
	Category       string `form:"category" binding:"max=50"`
	Unit           string `form:"unit" binding:"max=20"`
	ExpirationDate string `form:"expiration_date"`
	MinimumStock   string `form:"minimum_stock"`
}

func (f FoodStockForm) Input() (food.CreateInput, error) {
	qty, err := parseInt("quantity", f.Quantity)
	if err != nil {
		return food.CreateInput{}, err
	}

	minimum := 0
	if strings.TrimSpace(f.MinimumStock) != "" {
		minimum, err = parseInt("minimum_stock", f.MinimumStock)
		if err != nil {
			return food.CreateInput{}, err
		}
	}

	var exp *time.Time
	if strings.TrimSpace(f.ExpirationDate) != "" {
		d, err := ParseDate("expiration_date", f.ExpirationDate)
		if err != nil {
			return food.CreateInput{}, err
		}
		exp = &d
	}

	return food.CreateInput{
		ItemName:       strings.TrimSpace(f.ItemName),
		Quantity:       qty,
		Category:       strings.TrimSpace(f.Category),
		Unit:           strings.TrimSpace(f.Unit),
		ExpirationDate: exp,
		MinimumStock:   minimum,
	}, nil
}

type ShelterLocationForm struct {
	Address string `form:"address" binding:"required,max=200"`
	Date    string `form:"date" binding:"required"`
}

func (f ShelterLocationForm) Input() (location.CreateInput, error) {
	d, err := ParseDate("date", f.Date)
	if err != nil {
		return location.CreateInput{}, err
	}

	return location.CreateInput{Address: strings.TrimSpace(f.Address), Date: d}, nil
}

type NoteForm struct {
	Content string `form:"content" binding:"required,max=10000"`
}

func (f NoteForm) Input() (note.CreateInput, error) {
	content := strings.TrimSpace(f.Content)
	if content == "" {
		return note.CreateInput{}, apperr.Invalid("content", "required", "is required")
	}
	return note.CreateInput{Content: content}, nil
}

type BudgetForm struct {
	Amount      string `form:"amount" binding:"required"`
	Description string `form:"description" binding:"max=200"`
	Date        string `form:"date" binding:"required"`
}

func (f BudgetForm) Input() (budget.CreateInput, error) {
	amount, err := parseFloat("amount", f.Amount)
	if err != nil {
		return budget.CreateInput{}, err
	}

	d, err := ParseDate("date", f.Date)
	if err != nil {
		return budget.CreateInput{}, err
	}

	return budget.CreateInput{
		Amount:      amount,
		Description: optional(f.Description),
		Date:        d,
	}, nil
}

type VolunteerForm struct {
	Name         string `form:"name" binding:"required,max=100"`
	Email        string `form:"email" binding:"required,email,max=120"`
	Phone        string `form:"phone" binding:"max=20"`
	Availability string `form:"availability" binding:"max=200"`
	Skills       string `form:"skills" binding:"max=200"`
	Notes        string `form:"notes" binding:"max=2000"`
}

func (f VolunteerForm) Input() (volunteer.CreateInput, error) {
	return volunteer.CreateInput{
		Name:         strings.TrimSpace(f.Name),
		Email:        strings.TrimSpace(f.Email),
		Phone:        optional(f.Phone),
		Availability: optional(f.Availability),
		Skills:       optional(f.Skills),
		Notes:        optional(f.Notes),
	}, nil
}

type DonationForm struct {
	Amount    string `form:"amount" binding:"required"`
	DonorName string `form:"donor_name" binding:"max=100"`
}

func (f DonationForm) Input() (donation.CreateInput, error) {
	amount, err := parseFloat("amount", f.Amount)
	if err != nil {
		return donation.CreateInput{}, err
	}

	// the donor name is kept exactly as typed
	var donor *string
	if f.DonorName != "" {
		donor = &f.DonorName
	}

	return donation.CreateInput{Amount: amount, DonorName: donor}, nil
}

// ParseDate accepts exactly YYYY-MM-DD.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) != len(domain.DateLayout) {
		return time.Time{}, apperr.Invalid(field, "date", "must be a date in YYYY-MM-DD format")
	}

	d, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.Invalid(field, "date", "must be a date in YYYY-MM-DD format")
	}

	return d, nil
}

func parseInt(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.Invalid(field, "int", "must be a whole number")
	}
	return n, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.Invalid(field, "number", "must be a number")
	}
	return v, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
