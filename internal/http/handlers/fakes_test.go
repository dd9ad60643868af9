package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/geocoder89/foodshelter/internal/domain/note"
	"github.com/geocoder89/foodshelter/internal/geocode"
	"github.com/geocoder89/foodshelter/internal/http/handlers"
	"github.com/geocoder89/foodshelter/internal/web"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake repository implementations of the repo interfaces the handlers use

type fakeFoodStock struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]food.Item
}

func newFakeFoodStock(items ...food.Item) *fakeFoodStock {
	f := &fakeFoodStock{items: map[int64]food.Item{}}
	for _, it := range items {
		f.items[it.ID] = it
		if it.ID > f.nextID {
			f.nextID = it.ID
		}
	}
	return f
}

func (f *fakeFoodStock) Create(_ context.Context, ownerID int64, in food.CreateInput) (food.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	it := in.NewItem(ownerID)
	it.ID = f.nextID
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeFoodStock) GetByID(_ context.Context, id int64) (food.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	it, ok := f.items[id]
	if !ok {
		return food.Item{}, apperr.ErrNotFound
	}
	return it, nil
}

func (f *fakeFoodStock) ListByOwner(_ context.Context, ownerID int64) ([]food.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []food.Item
	for _, it := range f.items {
		if it.UserID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeFoodStock) Update(_ context.Context, item food.Item) (food.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[item.ID]; !ok {
		return food.Item{}, apperr.ErrNotFound
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeFoodStock) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeFoodStock) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeLocations struct {
	mu      sync.Mutex
	created []location.Location
}

func (f *fakeLocations) Create(_ context.Context, ownerID int64, in location.CreateInput) (location.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l := location.Location{
		ID:        int64(len(f.created) + 1),
		UserID:    ownerID,
		Address:   in.Address,
		Date:      in.Date,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	f.created = append(f.created, l)
	return l, nil
}

func (f *fakeLocations) GetByID(_ context.Context, id int64) (location.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.created {
		if l.ID == id {
			return l, nil
		}
	}
	return location.Location{}, apperr.ErrNotFound
}

func (f *fakeLocations) ListByOwner(context.Context, int64) ([]location.Location, error) {
	return nil, nil
}

func (f *fakeLocations) ListAll(context.Context) ([]location.Location, error) {
	return nil, nil
}

func (f *fakeLocations) Delete(context.Context, int64) error {
	return apperr.ErrNotFound
}

type fakeNotes struct {
	notes map[int64]note.Note
}

func (f *fakeNotes) Create(_ context.Context, ownerID int64, in note.CreateInput) (note.Note, error) {
	n := note.Note{ID: int64(len(f.notes) + 1), UserID: ownerID, Content: in.Content}
	f.notes[n.ID] = n
	return n, nil
}

func (f *fakeNotes) GetByID(_ context.Context, id int64) (note.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return note.Note{}, apperr.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotes) ListByOwner(context.Context, int64) ([]note.Note, error) {
	return nil, nil
}

func (f *fakeNotes) Delete(_ context.Context, id int64) error {
	if _, ok := f.notes[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

// fakeGeocoder returns a fixed outcome and counts calls.
type fakeGeocoder struct {
	coords geocode.Coordinates
	err    error
	calls  int
}

func (g *fakeGeocoder) Geocode(context.Context, string) (geocode.Coordinates, error) {
	g.calls++
	return g.coords, g.err
}

// newEngine returns a router that runs every request as the given user.
func newEngine(t *testing.T, as actorctx.Principal) *gin.Engine {
	t.Helper()

	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(func(c *gin.Context) {
		if as.UserID != 0 {
			c.Request = c.Request.WithContext(actorctx.WithPrincipal(c.Request.Context(), as))
		}
		c.Next()
	})
	return r
}

func readFlashes(t *testing.T, w *httptest.ResponseRecorder) []handlers.Flash {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name != "flash" || c.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(c.Value)
		if err != nil {
			t.Fatalf("decode flash cookie: %v", err)
		}
		var out []handlers.Flash
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("unmarshal flash cookie: %v", err)
		}
		return out
	}
	return nil
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303, body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}
