package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/session"
	"github.com/gin-gonic/gin"
)

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SessionAuth maps the session cookie onto a request principal.
type SessionAuth struct {
	store  session.Store
	cookie CookieConfig
	log    *slog.Logger
	now    func() time.Time
}

func NewSessionAuth(store session.Store, cookie CookieConfig, log *slog.Logger) *SessionAuth {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	if cookie.TTL <= 0 {
		cookie.TTL = 24 * time.Hour
	}

	return &SessionAuth{store: store, cookie: cookie, log: log, now: time.Now}
}

// LoadSession attaches the principal when the cookie names a live session.
// Anonymous requests pass through untouched.
func (m *SessionAuth) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(m.cookie.Name)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := m.store.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			p := actorctx.Principal{UserID: sess.UserID, Email: sess.Email, Role: sess.Role}
			c.Request = c.Request.WithContext(actorctx.WithPrincipal(c.Request.Context(), p))
			c.Set(CtxSessionID, id)
		case errors.Is(err, session.ErrNotFound):
			m.clearCookie(c)
		default:
			// store outage: treat as anonymous rather than failing every page
			m.log.WarnContext(c.Request.Context(), "session lookup failed", "err", err)
		}

		c.Next()
	}
}

// RequireAuth sends anonymous browsers to /login; JSON clients get 401.
func (m *SessionAuth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := actorctx.PrincipalFrom(c.Request.Context()); ok {
			c.Next()
			return
		}

		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Login required",
				},
			})
			return
		}

		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// Start stores a new session for the principal and sets the cookie.
func (m *SessionAuth) Start(c *gin.Context, p actorctx.Principal) error {
	// drop any previous session so ids are never reused across logins
	if old, err := c.Cookie(m.cookie.Name); err == nil && old != "" {
		_ = m.store.Delete(c.Request.Context(), old)
	}

	id, err := m.store.Create(c.Request.Context(), session.Session{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: m.now().UTC(),
	})
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, id, int(m.cookie.TTL.Seconds()), "/", "", m.cookie.Secure, true)

	c.Request = c.Request.WithContext(actorctx.WithPrincipal(c.Request.Context(), p))
	c.Set(CtxSessionID, id)

	return nil
}

// End deletes the session record and clears the cookie.
func (m *SessionAuth) End(c *gin.Context) error {
	id, err := c.Cookie(m.cookie.Name)
	m.clearCookie(c)

	if err != nil || id == "" {
		return nil
	}

	return m.store.Delete(c.Request.Context(), id)
}

func (m *SessionAuth) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}
