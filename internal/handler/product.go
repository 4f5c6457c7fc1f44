package handler

import (
	"net/http"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProductHandler is the read-only inventory view shared by every role.
type ProductHandler struct {
	Service service.InventoryService
}

// RegisterRoutes expects to be mounted under /stores/{storeID}.
func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory", h.inventory)
}

func (h ProductHandler) inventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetInventoryForStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, inventoryPayload(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

func inventoryPayload(it domain.InventoryItem) map[string]any {
	return map[string]any{
		"productId": it.ProductID,
		"sku":       it.SKU,
		"name":      it.Name,
		"quantity":  it.Quantity,
	}
}

func productPayload(p domain.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"storeId":     p.StoreID,
		"sku":         p.SKU,
		"name":        p.Name,
		"price":       p.Price.StringFixed(2),
		"description": p.Description,
		"active":      p.Active,
		"createdAt":   formatTime(p.CreatedAt),
	}
}
