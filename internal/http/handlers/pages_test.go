package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/dashboard"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/http/handlers"
)

type fakeDashboard struct {
	view   dashboard.View
	low    []food.Item
	gotFor int64
	err    error
}

func (f *fakeDashboard) Build(_ context.Context, ownerID int64) (dashboard.View, error) {
	f.gotFor = ownerID
	return f.view, f.err
}

func (f *fakeDashboard) LowStock(_ context.Context, ownerID int64) ([]food.Item, error) {
	f.gotFor = ownerID
	return f.low, f.err
}

func (f *fakeDashboard) ExpiringSoon(_ context.Context, ownerID int64) ([]food.Item, error) {
	f.gotFor = ownerID
	return nil, f.err
}

func (f *fakeDashboard) Directory(context.Context) ([]dashboard.Shelter, error) {
	return nil, f.err
}

func TestDashboardRendersOwnersView(t *testing.T) {
	dash := &fakeDashboard{view: dashboard.View{
		FoodStock:      []food.Item{{ID: 3, UserID: alice.UserID, ItemName: "Oats", Quantity: 1, MinimumStock: 4}},
		LowStockCount:  1,
		TotalDonations: "42.00",
	}}

	h := handlers.NewPagesHandler(dash, discardLogger())
	r := newEngine(t, alice)
	r.GET("/dashboard", h.Dashboard)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if dash.gotFor != alice.UserID {
		t.Fatalf("built view for user %d", dash.gotFor)
	}
	for _, want := range []string{"Oats", "Low stock: 1", "42.00"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestPagesAnonymousRedirectToLogin(t *testing.T) {
	h := handlers.NewPagesHandler(&fakeDashboard{}, discardLogger())
	r := newEngine(t, actorctx.Principal{})
	r.GET("/dashboard", h.Dashboard)
	r.GET("/low_stock", h.LowStock)
	r.GET("/expiring_soon", h.ExpiringSoon)

	for _, path := range []string{"/dashboard", "/low_stock", "/expiring_soon"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assertRedirect(t, w, "/login")
	}
}

func TestDashboardErrorRendersErrorPage(t *testing.T) {
	h := handlers.NewPagesHandler(&fakeDashboard{err: errors.New("db down")}, discardLogger())
	r := newEngine(t, alice)
	r.GET("/dashboard", h.Dashboard)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Fatalf("internal error text leaked into the page")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]handlers.Check
		wantStatus int
	}{
		{name: "ready", checks: map[string]handlers.Check{"database": func(context.Context) error { return nil }}, wantStatus: http.StatusOK},
		{name: "db_down", checks: map[string]handlers.Check{"database": func(context.Context) error { return errors.New("refused") }}, wantStatus: http.StatusServiceUnavailable},
		{name: "nil_check_ignored", checks: map[string]handlers.Check{"sessions": nil}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.checks)
			r := newEngine(t, alice)
			r.GET("/readyz", h.Readyz)
			r.GET("/healthz", h.Healthz)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("readyz = %d, want %d", w.Code, tt.wantStatus)
			}

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("healthz = %d", w.Code)
			}
		})
	}
}

func TestReadyzFailsWhileDraining(t *testing.T) {
	h := handlers.NewHealthHandler(nil)
	r := newEngine(t, alice)
	r.GET("/readyz", h.Readyz)

	h.Drain()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while draining = %d", w.Code)
	}
}
