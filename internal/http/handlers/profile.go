package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/foodshelter/internal/forms"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	accounts AccountService
	log      *slog.Logger
}

func NewProfileHandler(accounts AccountService, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, log: log}
}

func (h *ProfileHandler) Page(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	cctx, cancel := reqCtx(ctx, 2*time.Second)
	defer cancel()

	u, err := h.accounts.Profile(cctx, p.UserID)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	render(ctx, http.StatusOK, "update_profile.html", gin.H{"Title": "Update profile", "User": u})
}

func (h *ProfileHandler) Update(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.ProfileForm

	if err := BindForm(ctx, &form); err != nil {
		respondFormError(ctx, h.log, err, "/update_profile")
		return
	}

	cctx, cancel := reqCtx(ctx, 2*time.Second)
	defer cancel()

	if _, err := h.accounts.UpdateProfile(cctx, p.UserID, form.Input()); err != nil {
		respondFormError(ctx, h.log, err, "/update_profile")
		return
	}

	redirectWithFlash(ctx, "/dashboard", FlashSuccess, "Profile updated successfully!")
}
