package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// RespondError writes the JSON error envelope. success is always false so the
// inline editor can branch on it.
func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"success": false,
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnauthorized(ctx *gin.Context) {
	RespondError(ctx, http.StatusUnauthorized, "unauthorized", "Login required", nil)
}

func RespondForbidden(ctx *gin.Context) {
	RespondError(ctx, http.StatusForbidden, "forbidden", "You do not have access to this record.", nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// render executes an HTML page with the fields every layout needs.
func render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	p, loggedIn := actorctx.PrincipalFrom(ctx.Request.Context())

	data["Principal"] = p
	data["LoggedIn"] = loggedIn
	data["CSRFToken"] = ctx.GetString(middlewares.CtxCSRFToken)
	data["CSRFField"] = middlewares.CSRFField
	data["RequestID"] = requestIDFrom(ctx)
	data["Flashes"] = takeFlashes(ctx)

	ctx.HTML(status, name, data)
}

func RespondErrorPage(ctx *gin.Context, status int, title, message string) {
	render(ctx, status, "error.html", gin.H{
		"Title":   title,
		"Status":  status,
		"Message": message,
	})
}

func respondNotFoundPage(ctx *gin.Context) {
	RespondErrorPage(ctx, http.StatusNotFound, "Not found", "The record you asked for does not exist.")
}

func respondForbiddenPage(ctx *gin.Context) {
	RespondErrorPage(ctx, http.StatusForbidden, "Forbidden", "You do not have access to this record.")
}

func respondInternalPage(ctx *gin.Context, log *slog.Logger, err error) {
	log.ErrorContext(ctx.Request.Context(), "request failed", "err", err)
	_ = ctx.Error(err)
	RespondErrorPage(ctx, http.StatusInternalServerError, "Something went wrong", "Please try again. If the problem persists, contact support with request id "+requestIDFrom(ctx)+".")
}

// redirect flushes pending flashes and sends a 303.
func redirect(ctx *gin.Context, location string) {
	writeFlashCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, location)
}

func redirectWithFlash(ctx *gin.Context, location, category, message string) {
	addFlash(ctx, category, message)
	redirect(ctx, location)
}

// respondFormError maps an error from a form post onto a flash + redirect,
// or an error page for NotFound/Forbidden/unexpected failures.
func respondFormError(ctx *gin.Context, log *slog.Logger, err error, back string) {
	var ve *apperr.ValidationError

	switch {
	case errors.As(err, &ve):
		redirectWithFlash(ctx, back, FlashError, validationFlash(ve))
	case errors.Is(err, apperr.ErrNotFound):
		respondNotFoundPage(ctx)
	case errors.Is(err, apperr.ErrForbidden):
		respondForbiddenPage(ctx)
	case errors.Is(err, apperr.ErrExternalService):
		redirectWithFlash(ctx, back, FlashWarning, "A required service is temporarily unavailable. Please try again later.")
	case errors.Is(err, context.DeadlineExceeded):
		redirectWithFlash(ctx, back, FlashWarning, "The request took too long. Please try again.")
	default:
		respondInternalPage(ctx, log, err)
	}
}

// validationFlash renders field failures as one sentence.
func validationFlash(ve *apperr.ValidationError) string {
	parts := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		if f.Rule == "date" {
			return "Invalid date format. Please use YYYY-MM-DD."
		}
		parts = append(parts, humanField(f.Field)+" "+f.Message)
	}

	if len(parts) == 0 {
		return "Invalid input. Please check your entries."
	}

	return "Invalid input: " + strings.Join(parts, "; ") + "."
}

func humanField(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func principal(ctx *gin.Context) (actorctx.Principal, bool) {
	return actorctx.PrincipalFrom(ctx.Request.Context())
}

func reqCtx(ctx *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), d)
}
