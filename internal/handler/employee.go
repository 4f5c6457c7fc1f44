package handler

import (
	"errors"
	"net/http"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/server/authctx"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler struct {
	Service service.EmployeeService
}

// RegisterRoutes expects to be mounted under /stores/{storeID}.
func (h EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.list)
	r.Post("/employees", h.add)
}

func (h EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetEmployeesByStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, map[string]any{
			"id":      e.ID,
			"email":   e.Email,
			"role":    string(e.Role),
			"storeId": e.StoreID,
			"addedBy": e.AddedBy,
			"active":  e.Active,
			"addedAt": formatTime(e.AddedAt),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h EmployeeHandler) add(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required,oneof=manager employee cashier"`
		Password string `json:"password"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	e, err := h.Service.AddStaff(r.Context(), service.AddEmployeeInput{
		Email:    req.Email,
		Role:     domain.UserRole(req.Role),
		StoreID:  chi.URLParam(r, "storeID"),
		AddedBy:  user.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) || errors.Is(err, service.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, service.ErrOwnerAccount) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "add employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      e.ID,
		"email":   e.Email,
		"role":    string(e.Role),
		"storeId": e.StoreID,
	})
}
