package handler

import (
	"errors"
	"net/http"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/server/authctx"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Service service.DashboardService
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

// dashboard returns the role's view plus what it shows: the owner's first store and its
// head count, or the staff member's own store.
func (h DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	d, err := h.Service.Build(r.Context(), user.Identity())
	if err != nil {
		if errors.Is(err, service.ErrNoStore) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{
		"view":  viewPayload(d.View),
		"user":  identityPayload(user.Identity()),
		"store": nil,
	}
	if d.Store != nil {
		resp["store"] = storePayload(*d.Store)
	}
	if d.EmployeeCount != nil {
		resp["employeeCount"] = *d.EmployeeCount
	}
	writeJSON(w, http.StatusOK, resp)
}
