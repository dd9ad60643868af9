package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/authz"
	"github.com/geocoder89/foodshelter/internal/forms"
	"github.com/gin-gonic/gin"
)

// UpdateFoodStock applies the inline editor's JSON partial update.
// It answers {"success": true, "item": ...} or {"success": false, "error": ...}.
func (h *RecordsHandler) UpdateFoodStock(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		RespondUnauthorized(ctx)
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondNotFound(ctx, "Food stock item not found")
		return
	}

	cctx, cancel := reqCtx(ctx, dbTimeout)
	defer cancel()

	if err := h.guard.Authorize(cctx, authz.FoodStock, id, p); err != nil {
		h.respondJSONError(ctx, err)
		return
	}

	var req forms.FoodStockPatchRequest

	if err := BindJSON(ctx, &req); err != nil {
		h.respondJSONError(ctx, err)
		return
	}

	patch, err := req.Patch()
	if err != nil {
		h.respondJSONError(ctx, err)
		return
	}

	item, err := h.repos.FoodStock.GetByID(cctx, id)
	if err != nil {
		h.respondJSONError(ctx, err)
		return
	}

	saved, err := h.repos.FoodStock.Update(cctx, patch.Apply(item))
	if err != nil {
		h.respondJSONError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "item": saved})
}

func (h *RecordsHandler) respondJSONError(ctx *gin.Context, err error) {
	var ve *apperr.ValidationError

	switch {
	case errors.As(err, &ve):
		RespondBadRequest(ctx, "Invalid update", gin.H{"fields": ve.Fields})
	case errors.Is(err, apperr.ErrNotFound):
		RespondNotFound(ctx, "Food stock item not found")
	case errors.Is(err, apperr.ErrForbidden):
		RespondForbidden(ctx)
	default:
		h.log.ErrorContext(ctx.Request.Context(), "update food stock failed", "err", err)
		RespondInternal(ctx, "Could not update item")
	}
}
