package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"

	flashCookie     = "flash"
	flashPendingKey = "flash.pending"
	maxFlashes      = 5
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

func addFlash(ctx *gin.Context, category, message string) {
	pending := pendingFlashes(ctx)
	if len(pending) >= maxFlashes {
		return
	}
	ctx.Set(flashPendingKey, append(pending, Flash{Category: category, Message: message}))
}

func pendingFlashes(ctx *gin.Context) []Flash {
	v, ok := ctx.Get(flashPendingKey)
	if !ok {
		return nil
	}
	fs, _ := v.([]Flash)
	return fs
}

// writeFlashCookie carries pending flashes across the next redirect.
func writeFlashCookie(ctx *gin.Context) {
	pending := pendingFlashes(ctx)
	if len(pending) == 0 {
		return
	}

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", false, true)
	ctx.Set(flashPendingKey, []Flash(nil))
}

// takeFlashes returns the flashes carried by the cookie plus any queued in
// this request, and clears the cookie.
func takeFlashes(ctx *gin.Context) []Flash {
	var out []Flash

	if v, err := ctx.Cookie(flashCookie); err == nil && v != "" {
		if raw, err := base64.RawURLEncoding.DecodeString(v); err == nil {
			_ = json.Unmarshal(raw, &out)
		}
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}

	out = append(out, pendingFlashes(ctx)...)
	ctx.Set(flashPendingKey, []Flash(nil))

	if len(out) > maxFlashes {
		out = out[:maxFlashes]
	}
	return out
}
