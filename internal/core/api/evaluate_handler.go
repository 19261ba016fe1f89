package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/promolang/promolang/internal/core/db"
	"github.com/promolang/promolang/internal/engine"
	"github.com/promolang/promolang/internal/logger"
	"github.com/promolang/promolang/internal/parser"
)

// handleApplyPromotion evaluates a stored promotion against the request's
// cart and configuration. Results are cached keyed on the stored source
// checksum plus a digest of the evaluation context, so a republished
// promotion or a different cart never sees a stale result.
func (a *API) handleApplyPromotion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	promo, ok := a.promotionFromRequest(w, r)
	if !ok {
		return
	}

	var req EvalContextRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_JSON", Message: "Invalid JSON in request body"})
		return
	}

	// Results inside a validity window depend on the wall clock, so rows
	// with a window set are never cached. Everything else is keyed on the
	// source checksum, the row's active flag, and the context digest;
	// toggling the active flag changes the key, so a deactivated
	// promotion cannot serve its old result.
	cacheable := promo.StartDate == nil && promo.EndDate == nil
	var cacheKey string
	if cacheable {
		cacheKey = resultCacheKey(promo, &req)
		if resp, hit := a.cachedResult(r, cacheKey); hit {
			resp.Cached = true
			render.Status(r, http.StatusOK)
			render.JSON(w, r, resp)
			return
		}
	}

	def, err := parser.ParseSource(promo.Source)
	if err != nil {
		// Stored source always parsed at write time; reaching this
		// means the row was modified outside the API.
		log.Error("stored promotion no longer parses",
			slog.String("promotion_id", string(promo.ID)),
			slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INTERNAL", Message: "Stored promotion is corrupt"})
		return
	}

	// The stored row owns lifecycle state; the DSL header only names the
	// promotion.
	def.Active = promo.Active
	def.StartDate = promo.StartDate
	def.EndDate = promo.EndDate

	ctx := req.Context()
	resp := &ApplyResponse{
		Result:         engine.Apply(def, ctx),
		PotentialValue: engine.PotentialValue(def, ctx),
	}

	if cacheable {
		a.storeResult(r, cacheKey, resp)
	}

	log.Info("promotion applied",
		slog.String("promotion_id", string(promo.ID)),
		slog.Bool("applicable", resp.Result.Applicable),
		slog.Int("rewards", len(resp.Result.Rewards)))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// handleEvaluate runs inline DSL source against a cart without storing
// anything. Results are never cached.
func (a *API) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_JSON", Message: "Invalid JSON in request body"})
		return
	}

	if errResp := req.Validate(); errResp != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResp)
		return
	}

	def, err := parser.ParseSource(req.Source)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &ErrorResponse{Code: "ERR_INVALID_SOURCE", Message: err.Error()})
		return
	}

	ctx := (&EvalContextRequest{Cart: req.Cart, Config: req.Config}).Context()
	resp := &ApplyResponse{
		Result:         engine.Apply(def, ctx),
		PotentialValue: engine.PotentialValue(def, ctx),
	}

	log.Info("inline evaluation",
		slog.String("promotion", def.Name),
		slog.Bool("applicable", resp.Result.Applicable))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// resultCacheKey combines the stored source checksum, the row's active
// flag, and a digest of the evaluation context. The active flag lives on
// the row rather than in the source, so it must participate in the key.
func resultCacheKey(promo *db.Promotion, req *EvalContextRequest) string {
	payload, err := json.Marshal(req)
	if err != nil {
		// Cart and Config marshal unconditionally; keep a usable key
		// anyway.
		return fmt.Sprintf("%s:%t", promo.Checksum, promo.Active)
	}
	digest := sha256.Sum256(payload)
	return fmt.Sprintf("%s:%t:%s", promo.Checksum, promo.Active, hex.EncodeToString(digest[:]))
}

// cachedResult looks the key up in the result cache. Cache failures are
// logged and treated as misses.
func (a *API) cachedResult(r *http.Request, key string) (*ApplyResponse, bool) {
	if a.cache == nil {
		return nil, false
	}
	log := logger.FromContext(r.Context())

	raw, hit, err := a.cache.Get(r.Context(), key)
	if err != nil {
		log.Warn("result cache read failed", slog.String("error", err.Error()))
		return nil, false
	}
	if !hit {
		return nil, false
	}

	var resp ApplyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		log.Warn("result cache entry is corrupt", slog.String("error", err.Error()))
		return nil, false
	}
	return &resp, true
}

// storeResult writes an apply outcome to the result cache, best effort.
func (a *API) storeResult(r *http.Request, key string, resp *ApplyResponse) {
	if a.cache == nil {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := a.cache.Set(r.Context(), key, raw); err != nil {
		logger.FromContext(r.Context()).Warn("result cache write failed",
			slog.String("error", err.Error()))
	}
}
