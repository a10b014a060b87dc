package repo

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-checkout/internal/campaign"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/coupon"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/store"
)

const defaultPerPage = 20

// Handler exposes campaign and coupon management endpoints.
type Handler struct {
	catalog  *Catalog
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog   *Catalog
	Validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	return &Handler{catalog: cfg.Catalog, validate: v}
}

// ListCampaigns handles GET /api/v1/campaigns.
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	writePage(w, r, h.catalog.Campaigns())
}

// CreateCampaign handles POST /api/v1/campaigns.
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var payload campaign.Campaign
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}
	rec, err := h.catalog.AddCampaign(payload)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	obs.CountPromotionChange("campaign", "create")
	common.JSON(w, http.StatusCreated, map[string]any{"data": rec})
}

// DeleteCampaign handles DELETE /api/v1/campaigns/{id}.
func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	if !h.catalog.RemoveCampaign(chi.URLParam(r, "id")) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found", nil)
		return
	}
	obs.CountPromotionChange("campaign", "delete")
	w.WriteHeader(http.StatusNoContent)
}

// ListCoupons handles GET /api/v1/coupons.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	writePage(w, r, h.catalog.Coupons())
}

// CreateCoupon handles POST /api/v1/coupons.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var payload coupon.Coupon
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	rec, err := h.catalog.AddCoupon(payload)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	obs.CountPromotionChange("coupon", "create")
	common.JSON(w, http.StatusCreated, map[string]any{"data": rec})
}

// DeleteCoupon handles DELETE /api/v1/coupons/{id}.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	if !h.catalog.RemoveCoupon(chi.URLParam(r, "id")) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "coupon not found", nil)
		return
	}
	obs.CountPromotionChange("coupon", "delete")
	w.WriteHeader(http.StatusNoContent)
}

func writePage[T any](w http.ResponseWriter, r *http.Request, records []store.Record[T]) {
	page, perPage := common.ParsePagination(r, defaultPerPage)
	meta := common.Pagination{Page: page, PerPage: perPage, TotalItems: len(records)}
	start, end := meta.Bounds()
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       records[start:end],
		"pagination": meta,
	})
}
