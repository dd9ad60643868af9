package handlers

import (
	"errors"
	"time"

	"github.com/geocoder89/foodshelter/internal/domain/location"
	"github.com/geocoder89/foodshelter/internal/forms"
	"github.com/geocoder89/foodshelter/internal/geocode"
	"github.com/gin-gonic/gin"
)

const (
	msgLocationAdded   = "New shelter location added successfully!"
	msgGeocodeNoMatch  = "Could not geocode the address. Please try a more specific address."
	msgGeocodeNoCoords = "Shelter location saved, but the address could not be placed on the map. Try a more specific address."
	msgGeocodeDown     = "Geocoding service is currently unavailable. Please try again later."
)

// AddShelterLocation validates the date, geocodes the address and only then
// writes, so a geocoder failure never leaves a partial row.
func (h *RecordsHandler) AddShelterLocation(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		redirect(ctx, "/login")
		return
	}

	var form forms.ShelterLocationForm
	in, err := bindInput[location.CreateInput](ctx, &form)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	// geocoder timeout is enforced by the client; this bounds the whole request
	gctx, cancel := reqCtx(ctx, 15*time.Second)
	defer cancel()

	coords, err := h.geocoder.Geocode(gctx, in.Address)

	flashCategory, flashMsg := FlashSuccess, msgLocationAdded

	switch {
	case err == nil:
		in.Latitude = &coords.Latitude
		in.Longitude = &coords.Longitude
	case errors.Is(err, geocode.ErrNoMatch):
		h.log.WarnContext(ctx.Request.Context(), "could not geocode address", "address", in.Address)
		if h.requireMatch {
			redirectWithFlash(ctx, "/dashboard", FlashError, msgGeocodeNoMatch)
			return
		}
		flashCategory, flashMsg = FlashWarning, msgGeocodeNoCoords
	case errors.Is(err, geocode.ErrSkipped):
		// stored without coordinates
	case errors.Is(err, geocode.ErrUnavailable):
		h.log.WarnContext(ctx.Request.Context(), "geocoder unavailable", "err", err)
		redirectWithFlash(ctx, "/dashboard", FlashError, msgGeocodeDown)
		return
	default:
		h.log.ErrorContext(ctx.Request.Context(), "geocoding failed", "err", err)
		redirectWithFlash(ctx, "/dashboard", FlashError, "An error occurred: "+err.Error())
		return
	}

	cctx, cancelDB := reqCtx(ctx, dbTimeout)
	defer cancelDB()

	l, err := h.repos.Locations.Create(cctx, p.UserID, in)
	if err != nil {
		respondFormError(ctx, h.log, err, "/dashboard")
		return
	}

	h.log.InfoContext(ctx.Request.Context(), "added shelter location", "location_id", l.ID, "geocoded", l.HasCoordinates())

	redirectWithFlash(ctx, "/dashboard", flashCategory, flashMsg)
}
