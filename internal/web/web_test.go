package web

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/dashboard"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/geocoder89/foodshelter/internal/domain/user"
)

func baseData() map[string]any {
	return map[string]any{
		"Title":     "Test",
		"Principal": actorctx.Principal{UserID: 1, Email: "ops@example.org"},
		"LoggedIn":  true,
		"CSRFToken": "tok-123",
		"CSRFField": "csrf_token",
		"RequestID": "req-1",
		"Flashes":   nil,
	}
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}

	exp := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	lat, lon := 40.7128, -74.006
	donor := "Ada"
	name := "Northside Pantry"

	item := food.Item{ID: 7, ItemName: "Rice", Quantity: 2, MinimumStock: 5, ExpirationDate: &exp}

	pages := map[string]map[string]any{
		"home.html": {"Shelters": []dashboard.Shelter{{
			User:      user.User{ID: 1, Email: "ops@example.org", Profile: user.Profile{Name: &name}},
			Locations: []location.Location{{ID: 3, Address: "1 Main St", Date: exp, Latitude: &lat, Longitude: &lon}},
		}}},
		"login.html":           {},
		"register.html":        {},
		"forgot_password.html": {},
		"reset_password.html":  {"Token": "abc"},
		"update_profile.html":  {"User": user.User{Email: "ops@example.org"}},
		"dashboard.html": {"View": dashboard.View{
			FoodStock:      []food.Item{item},
			Donations:      []donation.Donation{{ID: 1, Amount: 12.5, DonorName: &donor, Date: exp}, {ID: 2, Amount: 3}},
			LowStockCount:  1,
			TotalDonations: "15.50",
		}},
		"low_stock.html":     {"Items": []food.Item{item}},
		"expiring_soon.html": {"Items": []food.Item{}},
		"error.html":         {"Message": "nope", "Status": 404},
	}

	for page, extra := range pages {
		t.Run(page, func(t *testing.T) {
			data := baseData()
			for k, v := range extra {
				data[k] = v
			}

			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, page, data); err != nil {
				t.Fatalf("execute %s: %v", page, err)
			}
			if !strings.Contains(buf.String(), "</html>") {
				t.Fatalf("%s did not render the footer", page)
			}
		})
	}
}

func TestHomeNeverShowsEmail(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}

	data := baseData()
	data["Principal"] = nil
	data["LoggedIn"] = false
	data["Shelters"] = []dashboard.Shelter{{User: user.User{ID: 2, Email: "quiet@example.org"}}}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "home.html", data); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if strings.Contains(buf.String(), "quiet@example.org") {
		t.Fatalf("home page leaked the login email")
	}
	if !strings.Contains(buf.String(), user.UnnamedShelter) {
		t.Fatalf("unnamed operator should get the neutral label")
	}
}

func TestDashboardCarriesCSRFAndEditHooks(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}

	data := baseData()
	data["View"] = dashboard.View{FoodStock: []food.Item{{ID: 42, ItemName: "Beans", Quantity: 9}}, TotalDonations: "0.00"}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`data-item-id="42"`,
		`data-field="quantity"`,
		`action="/delete_food_stock/42"`,
		`name="csrf_token" value="tok-123"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard output missing %q", want)
		}
	}
}

func TestFuncs(t *testing.T) {
	d := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	var nilTime *time.Time
	v := 1.5

	if got := formatDate(d); got != "2026-01-02" {
		t.Fatalf("formatDate(time) = %q", got)
	}
	if got := formatDate(&d); got != "2026-01-02" {
		t.Fatalf("formatDate(*time) = %q", got)
	}
	if got := formatDate(nilTime); got != "" {
		t.Fatalf("formatDate(nil) = %q", got)
	}
	if got := coord(&v); got != "1.50000" {
		t.Fatalf("coord = %q", got)
	}
	if got := coord(nil); got != "" {
		t.Fatalf("coord(nil) = %q", got)
	}
}

func TestStaticHasScripts(t *testing.T) {
	for _, name := range []string{"js/inventory.js", "js/modals.js"} {
		f, err := Static().Open(name)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		_ = f.Close()
	}
}
