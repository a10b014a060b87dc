package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-checkout/internal/cache"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/delivery"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/repo"
)

// Catalog resolves products and exposes the current promotion data.
type Catalog interface {
	ProductLookup
	Snapshot() repo.Snapshot
}

// ReceiptCache stores rendered receipts.
type ReceiptCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

// Handler serves receipt requests.
type Handler struct {
	catalog  Catalog
	cache    ReceiptCache
	rates    delivery.Rates
	validate *validator.Validate
	logger   zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog   Catalog
	Cache     ReceiptCache
	Rates     delivery.Rates
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	return &Handler{
		catalog:  cfg.Catalog,
		cache:    cfg.Cache,
		rates:    cfg.Rates,
		validate: v,
		logger:   cfg.Logger,
	}
}

// ProductLookup finds catalog products by title.
type ProductLookup interface {
	ProductByTitle(title string) (*catalog.Product, bool)
}

// Item is a cart line as submitted by clients: a product title and a quantity.
type Item struct {
	Product  string `json:"product" yaml:"product" validate:"required"`
	Quantity int    `json:"quantity" yaml:"quantity" validate:"gte=1"`
}

// Request is the body of a receipt request.
type Request struct {
	Items []Item `json:"items" yaml:"items" validate:"required,dive"`
}

// ServiceFor builds a Service over a promotion snapshot.
func ServiceFor(s repo.Snapshot, rates delivery.Rates, logger zerolog.Logger) *Service {
	return &Service{
		Campaigns:  s.Campaigns,
		Coupons:    s.Coupons,
		Categories: s.Categories,
		Rates:      rates,
		Logger:     logger,
	}
}

// Resolve turns submitted items into a cart. Unknown titles fail with UNKNOWN_PRODUCT.
func Resolve(lookup ProductLookup, items []Item) (*Cart, error) {
	lines := make([]catalog.CartItem, 0, len(items))
	for _, it := range items {
		p, ok := lookup.ProductByTitle(it.Product)
		if !ok {
			return nil, &common.AppError{
				Code:       "UNKNOWN_PRODUCT",
				Message:    fmt.Sprintf("unknown product: %q", it.Product),
				HTTPStatus: http.StatusUnprocessableEntity,
				Details:    map[string]any{"product": it.Product},
			}
		}
		lines = append(lines, catalog.CartItem{Product: p, Quantity: it.Quantity})
	}
	return &Cart{Items: lines}, nil
}

// Receipt handles POST /api/v1/receipts.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		obs.CountReceipt("invalid")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		obs.CountReceipt("invalid")
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}

	ctx, span := otel.Tracer("checkout.cart").Start(r.Context(), "cart.receipt")
	defer span.End()
	span.SetAttributes(attribute.Int("cart.lines", len(payload.Items)))

	snapshot := h.catalog.Snapshot()
	key := h.cacheKey(snapshot, payload.Items)

	if key != "" {
		var cached Receipt
		hit, err := h.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			obs.CountReceiptCache("error")
			h.logger.Warn().Err(err).Msg("receipt cache lookup failed")
		case hit:
			obs.CountReceiptCache("hit")
			obs.CountReceipt("cached")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			w.Header().Set("X-Cache", "HIT")
			common.JSON(w, http.StatusOK, map[string]any{"data": cached})
			return
		default:
			obs.CountReceiptCache("miss")
		}
	}

	c, err := Resolve(h.catalog, payload.Items)
	if err != nil {
		obs.CountReceipt("invalid")
		common.WriteError(w, err)
		return
	}
	receipt, err := ServiceFor(snapshot, h.rates, h.logger).Print(c)
	if err != nil {
		obs.CountReceipt("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		common.WriteError(w, err)
		return
	}
	obs.CountReceipt("ok")
	obs.AddDiscount("campaign", receipt.CampaignDiscount.InexactFloat64())
	obs.AddDiscount("coupon", receipt.CouponDiscount.InexactFloat64())

	if key != "" {
		if err := h.cache.SetJSON(ctx, key, receipt); err != nil {
			h.logger.Warn().Err(err).Msg("receipt cache store failed")
		}
	}
	w.Header().Set("X-Cache", "MISS")
	common.JSON(w, http.StatusOK, map[string]any{"data": receipt})
}

// cacheKey derives the receipt key from the catalog fingerprint, the delivery
// rates and the submitted items. An empty key disables caching for the request.
func (h *Handler) cacheKey(snapshot repo.Snapshot, items []Item) string {
	if h.cache == nil || snapshot.Fingerprint == "" {
		return ""
	}
	key, err := cache.KeyReceipt(snapshot.Fingerprint, h.rates, items)
	if err != nil {
		h.logger.Warn().Err(err).Msg("receipt cache key")
		return ""
	}
	return key
}
