package handler

import (
	"net/http"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/server/authctx"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

// StoreHandler serves the signed-in owner's stores.
type StoreHandler struct {
	Service service.StoreService
}

func (h StoreHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stores", h.list)
	r.Post("/stores", h.create)
}

// RegisterStoreRoutes expects to be mounted under /stores/{storeID}.
func (h StoreHandler) RegisterStoreRoutes(r chi.Router) {
	r.Get("/", h.get)
}

func (h StoreHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	items, err := h.Service.GetStoresByOwner(r.Context(), user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, storePayload(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h StoreHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	id, err := h.Service.CreateStore(r.Context(), req.Name, req.Address, user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h StoreHandler) get(w http.ResponseWriter, r *http.Request) {
	store, err := h.Service.GetStoreByID(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if store == nil {
		writeError(w, http.StatusNotFound, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, storePayload(*store))
}

func storePayload(s domain.Store) map[string]any {
	return map[string]any{
		"id":         s.ID,
		"name":       s.Name,
		"address":    s.Address,
		"ownerEmail": s.OwnerEmail,
		"active":     s.Active,
		"createdAt":  formatTime(s.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
