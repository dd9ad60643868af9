package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/geocoder89/foodshelter/internal/authz"
	"github.com/gin-gonic/gin"
)

func (h *RecordsHandler) deleter(kind authz.Kind) (func(context.Context, int64) error, error) {
	switch kind {
	case authz.FoodStock:
		return func(ctx context.Context, id int64) error { return h.repos.FoodStock.Delete(ctx, id) }, nil
	case authz.ShelterLocation:
		return func(ctx context.Context, id int64) error { return h.repos.Locations.Delete(ctx, id) }, nil
	case authz.Note:
		return func(ctx context.Context, id int64) error { return h.repos.Notes.Delete(ctx, id) }, nil
	case authz.Budget:
		return func(ctx context.Context, id int64) error { return h.repos.Budgets.Delete(ctx, id) }, nil
	case authz.Volunteer:
		return func(ctx context.Context, id int64) error { return h.repos.Volunteers.Delete(ctx, id) }, nil
	case authz.Donation:
		return func(ctx context.Context, id int64) error { return h.repos.Donations.Delete(ctx, id) }, nil
	default:
		return nil, fmt.Errorf("no deleter for %s", kind)
	}
}

// Delete serves POST /delete_<kind>/:id. The guard runs before the delete, so a
// missing id is a 404 and someone else's record a 403, with nothing removed.
func (h *RecordsHandler) Delete(kind authz.Kind) gin.HandlerFunc {
	del, err := h.deleter(kind)
	if err != nil {
		panic(err)
	}

	return func(ctx *gin.Context) {
		p, ok := principal(ctx)
		if !ok {
			redirect(ctx, "/login")
			return
		}

		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			respondNotFoundPage(ctx)
			return
		}

		cctx, cancel := reqCtx(ctx, dbTimeout)
		defer cancel()

		if err := h.guard.Authorize(cctx, kind, id, p); err != nil {
			respondFormError(ctx, h.log, err, "/dashboard")
			return
		}

		if err := del(cctx, id); err != nil {
			respondFormError(ctx, h.log, err, "/dashboard")
			return
		}

		h.log.InfoContext(ctx.Request.Context(), "record deleted", "kind", kind.Slug(), "id", id)

		redirectWithFlash(ctx, "/dashboard", FlashSuccess, kind.Label()+" deleted successfully.")
	}
}
