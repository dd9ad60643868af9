package middlewares

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	csrfCookie = "csrf_token"
	// CSRFField is the hidden form input every template posts back.
	CSRFField  = "csrf_token"
	csrfHeader = "X-CSRFToken"
)

// CSRF is a double-submit check: the csrf_token cookie must match the form
// field or the X-CSRFToken header on every unsafe request. The cookie stays
// readable by scripts so the inline editor can echo it.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookie)
		if err != nil || len(token) < 32 {
			token = newCSRFToken()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(csrfCookie, token, 0, "/", "", secure, false)
		}

		c.Set(CtxCSRFToken, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.GetHeader(csrfHeader)
		if sent == "" {
			sent = c.PostForm(CSRFField)
		}

		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "csrf_failed",
						"message": "Missing or invalid CSRF token",
					},
				})
				return
			}

			c.String(http.StatusForbidden, "The form expired. Go back, reload the page and try again.")
			c.Abort()
			return
		}

		c.Next()
	}
}

func newCSRFToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
