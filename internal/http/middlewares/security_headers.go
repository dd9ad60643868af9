package middlewares

import (
	"github.com/gin-gonic/gin"
)

const (
	// pages load their own scripts from /static and post forms back to us
	htmlCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; form-action 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'; script-src 'self'"
	apiCSP  = "default-src 'none'"
)

func SecurityHeaders(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		c.Header("X-XSS-Protection", "0")
		if secure {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		switch c.Request.URL.Path {
		case "/healthz", "/readyz", "/metrics":
			c.Header("Content-Security-Policy", apiCSP)
		default:
			c.Header("Content-Security-Policy", htmlCSP)
		}

		c.Next()
	}
}
