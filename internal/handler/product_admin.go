package handler

import (
	"errors"
	"net/http"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductAdminHandler struct {
	Service service.InventoryService
}

// RegisterRoutes expects to be mounted under /stores/{storeID}.
func (h ProductAdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Get("/products/{productID}", h.get)
	r.Patch("/products/{productID}", h.update)
}

func (h ProductAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetProductsByStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, productPayload(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU             string          `json:"sku" validate:"required"`
		Name            string          `json:"name" validate:"required"`
		Price           decimal.Decimal `json:"price"`
		Description     string          `json:"description"`
		InitialQuantity int             `json:"initialQuantity"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	id, err := h.Service.CreateProduct(r.Context(), service.CreateProductInput{
		StoreID:         chi.URLParam(r, "storeID"),
		SKU:             req.SKU,
		Name:            req.Name,
		Price:           req.Price,
		Description:     req.Description,
		InitialQuantity: req.InitialQuantity,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, service.ErrNegativePrice), errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case id != "":
		// the product exists but its stock bookkeeping is incomplete
		writeRawJSON(w, http.StatusCreated, apiResponse{
			Status:  "ok",
			Message: err.Error(),
			Data:    map[string]any{"id": id, "partial": true},
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h ProductAdminHandler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productInStore(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, productPayload(*p))
}

func (h ProductAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productInStore(w, r)
	if !ok {
		return
	}
	var req struct {
		SKU         *string          `json:"sku"`
		Name        *string          `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		Description *string          `json:"description"`
		Active      *bool            `json:"active"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	upd := domain.ProductUpdate{
		SKU:         req.SKU,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Active:      req.Active,
	}
	if upd.Empty() {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if err := h.Service.UpdateProduct(r.Context(), p.ID, upd); err != nil {
		if errors.Is(err, service.ErrNegativePrice) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	updated, err := h.Service.GetProductByID(r.Context(), p.ID)
	if err != nil || updated == nil {
		writeJSON(w, http.StatusOK, map[string]any{"id": p.ID})
		return
	}
	writeJSON(w, http.StatusOK, productPayload(*updated))
}

// productInStore loads {productID} and answers 404 unless it belongs to {storeID}.
func (h ProductAdminHandler) productInStore(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	p, err := h.Service.GetProductByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if p == nil || p.StoreID != chi.URLParam(r, "storeID") {
		writeError(w, http.StatusNotFound, "product not found")
		return nil, false
	}
	return p, true
}
