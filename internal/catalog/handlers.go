package catalog

import (
	"net/http"

	"github.com/noah-isme/toko-checkout/internal/common"
)

// Source provides the read-only catalog listings served over HTTP.
type Source interface {
	Categories() []Category
	Products() []Product
}

// Handler exposes public catalog endpoints.
type Handler struct {
	source Source
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Source Source
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{source: cfg.Source}
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog source not configured", nil)
		return
	}
	rows := h.source.Categories()
	if rows == nil {
		rows = []Category{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// Products handles GET /api/v1/products. The optional category query parameter filters by exact name.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog source not configured", nil)
		return
	}
	category := r.URL.Query().Get("category")
	rows := make([]Product, 0)
	for _, p := range h.source.Products() {
		if category != "" && p.Category != category {
			continue
		}
		rows = append(rows, p)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}
