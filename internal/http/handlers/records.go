package handlers

import (
	"log/slog"
	"time"

	"github.com/geocoder89/foodshelter/internal/authz"
	"github.com/geocoder89/foodshelter/internal/domain/budget"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/geocoder89/foodshelter/internal/domain/note"
	"github.com/geocoder89/foodshelter/internal/domain/volunteer"
	"github.com/geocoder89/foodshelter/internal/forms"
	"github.com/geocoder89/foodshelter/internal/geocode"
	"github.com/geocoder89/foodshelter/internal/repo"
	"github.com/gin-gonic/gin"
)

const dbTimeout = 3 * time.Second

// RecordsHandler serves the add/update/delete form actions for the six owned record kinds.
type RecordsHandler struct {
	repos        repo.Set
	guard        *authz.Guard
	geocoder     geocode.Geocoder
	requireMatch bool
	log          *slog.Logger
}

type RecordsConfig struct {
	// RequireGeocodeMatch rejects addresses the geocoder cannot place instead of
	// storing them without coordinates.
	RequireGeocodeMatch bool
}

func NewRecordsHandler(repos repo.Set, guard *authz.Guard, geocoder geocode.Geocoder, cfg RecordsConfig, log *slog.Logger) *RecordsHandler {
	return &RecordsHandler{
		repos:        repos,
		guard:        guard,
		geocoder:     geocoder,
		requireMatch: cfg.RequireGeocodeMatch,
		log:          log,
	}
}

func (h *RecordsHandler) AddFoodStock(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.FoodStockForm
	in, err := bindInput[food.CreateInput](ctx, &form)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	cctx, cancel := reqCtx(ctx, dbTimeout)
	defer cancel()

	if _, err := h.repos.FoodStock.Create(cctx, p.UserID, in); err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	redirectWithFlash(ctx, "/dashboard", FlashSuccess, "New food stock item added successfully!")
}

func (h *RecordsHandler) AddNote(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.NoteForm
	in, err := bindInput[note.CreateInput](ctx, &form)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	cctx, cancel := reqCtx(ctx, dbTimeout)
	defer cancel()

	if _, err := h.repos.Notes.Create(cctx, p.UserID, in); err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	redirectWithFlash(ctx, "/dashboard", FlashSuccess, "New note added successfully!")
}

func (h *RecordsHandler) AddBudget(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.BudgetForm
	in, err := bindInput[budget.CreateInput](ctx, &form)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	cctx, cancel := reqCtx(ctx, dbTimeout)
	defer cancel()

	if _, err := h.repos.Budgets.Create(cctx, p.UserID, in); err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	redirectWithFlash(ctx, "/dashboard", FlashSuccess, "New budget entry added successfully!")
}

func (h *RecordsHandler) AddVolunteer(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.VolunteerForm
	in, err := bindInput[volunteer.CreateInput](ctx, &form)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	cctx, cancel := reqCtx(ctx, dbTimeout)
	defer cancel()

	if _, err := h.repos.Volunteers.Create(cctx, p.UserID, in); err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	redirectWithFlash(ctx, "/dashboard", FlashSuccess, "New volunteer added successfully!")
}

func (h *RecordsHandler) AddDonation(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.DonationForm
	in, err := bindInput[donation.CreateInput](ctx, &form)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	cctx, cancel := reqCtx(ctx, dbTimeout)
	defer cancel()

	if _, err := h.repos.Donations.Create(cctx, p.UserID, in); err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	redirectWithFlash(ctx, "/dashboard", FlashSuccess, "New donation added successfully!")
}
