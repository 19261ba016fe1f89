package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/promolang/promolang/internal/core/auth"
	"github.com/promolang/promolang/internal/core/db"
	"github.com/promolang/promolang/internal/logger"
	"github.com/promolang/promolang/internal/types"
)

// handleCreatePromotion stores a new promotion from DSL source.
func (a *API) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	log := auditLogger(r)

	var req CreatePromotionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_JSON", Message: "Invalid JSON in request body"})
		return
	}

	req.Sanitize()
	if errResp := req.Validate(); errResp != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResp)
		return
	}

	promo, err := a.store.CreatePromotion(req.Name, req.Source, req.IsActive(), req.StartDate, req.EndDate)
	if err != nil {
		log.Error("failed to create promotion", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Failed to create promotion"})
		return
	}

	log.Info("promotion created",
		slog.String("promotion_id", string(promo.ID)),
		slog.String("name", promo.Name))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mapPromotionToResponse(promo))
}

// handleListPromotions returns all stored promotions, oldest first.
func (a *API) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	promos, err := a.store.ListPromotions()
	if err != nil {
		log.Error("failed to list promotions", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Failed to list promotions"})
		return
	}

	out := make([]*PromotionResponse, 0, len(promos))
	for _, p := range promos {
		out = append(out, mapPromotionToResponse(p))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, out)
}

// handleGetPromotion fetches a single promotion by ID.
func (a *API) handleGetPromotion(w http.ResponseWriter, r *http.Request) {
	promo, ok := a.promotionFromRequest(w, r)
	if !ok {
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, mapPromotionToResponse(promo))
}

// handleUpdatePromotion replaces a promotion's mutable fields.
func (a *API) handleUpdatePromotion(w http.ResponseWriter, r *http.Request) {
	log := auditLogger(r)

	promo, ok := a.promotionFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdatePromotionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_JSON", Message: "Invalid JSON in request body"})
		return
	}

	req.Sanitize()
	if errResp := req.Validate(); errResp != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResp)
		return
	}

	promo.Name = req.Name
	promo.Source = req.Source
	promo.Active = req.IsActive()
	promo.StartDate = req.StartDate
	promo.EndDate = req.EndDate

	if err := a.store.UpdatePromotion(promo); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, &ErrorResponse{Code: "ERR_NOT_FOUND", Message: "Promotion not found"})
			return
		}
		log.Error("failed to update promotion",
			slog.String("promotion_id", string(promo.ID)),
			slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Failed to update promotion"})
		return
	}

	// Re-read so the response carries the recomputed checksum and
	// updated_at written by the store.
	updated, err := a.store.GetPromotion(promo.ID)
	if err != nil {
		log.Error("failed to reload promotion after update",
			slog.String("promotion_id", string(promo.ID)),
			slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Failed to update promotion"})
		return
	}

	log.Info("promotion updated", slog.String("promotion_id", string(updated.ID)))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, mapPromotionToResponse(updated))
}

// handleDeletePromotion removes a stored promotion.
func (a *API) handleDeletePromotion(w http.ResponseWriter, r *http.Request) {
	log := auditLogger(r)

	id, err := types.ParsePromotionID(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_INPUT", Message: "Invalid promotion ID"})
		return
	}

	if err := a.store.DeletePromotion(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, &ErrorResponse{Code: "ERR_NOT_FOUND", Message: "Promotion not found"})
			return
		}
		log.Error("failed to delete promotion",
			slog.String("promotion_id", string(id)),
			slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Failed to delete promotion"})
		return
	}

	log.Info("promotion deleted", slog.String("promotion_id", string(id)))

	render.NoContent(w, r)
}

// auditLogger returns the request-scoped logger tagged with the
// authenticated API key name, so write operations are attributable.
func auditLogger(r *http.Request) *slog.Logger {
	log := logger.FromContext(r.Context())
	if keyName := auth.KeyNameFromContext(r.Context()); keyName != "" {
		log = log.With(slog.String("api_key_name", keyName))
	}
	return log
}

// promotionFromRequest parses the {id} URL parameter and loads the
// promotion, writing the error response itself on failure.
func (a *API) promotionFromRequest(w http.ResponseWriter, r *http.Request) (*db.Promotion, bool) {
	log := logger.FromContext(r.Context())

	id, err := types.ParsePromotionID(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_INPUT", Message: "Invalid promotion ID"})
		return nil, false
	}

	promo, err := a.store.GetPromotion(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, &ErrorResponse{Code: "ERR_NOT_FOUND", Message: "Promotion not found"})
			return nil, false
		}
		log.Error("failed to load promotion",
			slog.String("promotion_id", string(id)),
			slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Failed to load promotion"})
		return nil, false
	}

	return promo, true
}
