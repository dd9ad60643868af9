package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/foodshelter/internal/dashboard"
	"github.com/geocoder89/foodshelter/internal/domain/food"
	"github.com/gin-gonic/gin"
)

type DashboardService interface {
	Build(ctx context.Context, ownerID int64) (dashboard.View, error)
	LowStock(ctx context.Context, ownerID int64) ([]food.Item, error)
	ExpiringSoon(ctx context.Context, ownerID int64) ([]food.Item, error)
	Directory(ctx context.Context) ([]dashboard.Shelter, error)
}

type PagesHandler struct {
	dash DashboardService
	log  *slog.Logger
}

func NewPagesHandler(dash DashboardService, log *slog.Logger) *PagesHandler {
	return &PagesHandler{dash: dash, log: log}
}

// Home is the public directory of shelters.
func (h *PagesHandler) Home(ctx *gin.Context) {
	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	shelters, err := h.dash.Directory(cctx)
	if err != nil {
		respondInternalPage(ctx, h.log, err)
		return
	}

	render(ctx, http.StatusOK, "home.html", gin.H{"Title": "Food shelters", "Shelters": shelters})
}

func (h *PagesHandler) Dashboard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	view, err := h.dash.Build(cctx, p.UserID)
	if err != nil {
		respondInternalPage(ctx, h.log, err)
		return
	}

	render(ctx, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "View": view})
}

func (h *PagesHandler) LowStock(ctx *gin.Context) {
	h.itemList(ctx, "Low stock", "low_stock.html", h.dash.LowStock)
}

func (h *PagesHandler) ExpiringSoon(ctx *gin.Context) {
	h.itemList(ctx, "Expiring soon", "expiring_soon.html", h.dash.ExpiringSoon)
}

func (h *PagesHandler) itemList(ctx *gin.Context, title, page string, list func(context.Context, int64) ([]food.Item, error)) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	items, err := list(cctx, p.UserID)
	if err != nil {
		respondInternalPage(ctx, h.log, err)
		return
	}

	render(ctx, http.StatusOK, page, gin.H{"Title": title, "Items": items})
}
