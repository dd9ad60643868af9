package middlewares

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/observability"
	"github.com/geocoder89/foodshelter/internal/session"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimiterFixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatalf("first hit should pass")
	}
	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatalf("second hit should pass")
	}

	ok, retry := rl.Allow("1.2.3.4")
	if ok {
		t.Fatalf("third hit inside the window should be limited")
	}
	if retry != 60 {
		t.Fatalf("retry after = %d, want 60", retry)
	}

	if ok, _ := rl.Allow("5.6.7.8"); !ok {
		t.Fatalf("other keys have their own bucket")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatalf("new window should reset the count")
	}
}

func TestRateLimiterMiddlewareRespondsTooManyRequests(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != want {
			t.Fatalf("request %d: got %d want %d", i, w.Code, want)
		}
		if want == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Fatalf("expected Retry-After header")
		}
	}
}

func newSessionRouter(t *testing.T, store session.Store) (*gin.Engine, *SessionAuth) {
	t.Helper()

	auth := NewSessionAuth(store, CookieConfig{Name: "session", TTL: time.Hour}, discardLogger())

	r := gin.New()
	r.Use(auth.LoadSession())
	r.GET("/private", auth.RequireAuth(), func(c *gin.Context) {
		p, _ := actorctx.PrincipalFrom(c.Request.Context())
		c.String(http.StatusOK, p.Email)
	})
	r.POST("/login", func(c *gin.Context) {
		if err := auth.Start(c, actorctx.Principal{UserID: 7, Email: "sam@example.com", Role: "user"}); err != nil {
			t.Fatalf("Start: %v", err)
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/logout", func(c *gin.Context) {
		if err := auth.End(c); err != nil {
			t.Fatalf("End: %v", err)
		}
		c.Status(http.StatusNoContent)
	})

	return r, auth
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestRequireAuthRedirectsAnonymousBrowser(t *testing.T) {
	r, _ := newSessionRouter(t, session.NewMemoryStore(time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("got %d %q, want 303 /login", w.Code, w.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("JSON client got %d, want 401", w.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	r, _ := newSessionRouter(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, w)

	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("session cookie must be HttpOnly and SameSite=Lax: %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "sam@example.com" {
		t.Fatalf("authenticated request got %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("session should be gone after logout, got %d", w.Code)
	}
}

func TestCSRF(t *testing.T) {
	const token = "0123456789abcdef0123456789abcdef0123456789a"

	r := gin.New()
	r.Use(CSRF(false))
	r.POST("/add_note", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxCSRFToken)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	if len(w.Body.String()) < 32 {
		t.Fatalf("GET should mint a token, got %q", w.Body.String())
	}

	tests := []struct {
		name   string
		form   string
		header string
		want   int
	}{
		{name: "missing", form: "content=hi", want: http.StatusForbidden},
		{name: "wrong_field", form: "content=hi&csrf_token=nope", want: http.StatusForbidden},
		{name: "form_field", form: "content=hi&csrf_token=" + url.QueryEscape(token), want: http.StatusOK},
		{name: "header", form: "content=hi", header: token, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/add_note", strings.NewReader(tt.form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
			if tt.header != "" {
				req.Header.Set("X-CSRFToken", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("got %d want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.POST("/update_food_stock/:id", RequireJSON(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/update_food_stock/1", strings.NewReader("quantity=3"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got %d want 415", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/update_food_stock/1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d want 200", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(true))
	r.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if !strings.Contains(w.Header().Get("Content-Security-Policy"), "script-src 'self'") {
		t.Fatalf("pages need the HTML policy, got %q", w.Header().Get("Content-Security-Policy"))
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS when secure")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Header().Get("Content-Security-Policy") != "default-src 'none'" {
		t.Fatalf("probe endpoints use the locked-down policy")
	}
}

func TestRequestIDReachesRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		id, _ := observability.RequestIDFrom(c.Request.Context())
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("body=%q header=%q", w.Body.String(), w.Header().Get("X-Request-Id"))
	}
}
