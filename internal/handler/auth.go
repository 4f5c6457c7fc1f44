package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/server/authctx"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

// SessionCookie carries the signed identity between requests.
const SessionCookie = "session"

type AuthHandler struct {
	Auth     service.AuthService
	Stores   service.StoreService
	Sessions service.SessionService
	// SecureCookie marks the session cookie Secure; off for plain-http development.
	SecureCookie bool
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
	r.Post("/auth/register-store", h.registerStore)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.me)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	id, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login unavailable")
		return
	}
	view, err := domain.ViewFor(id.Role)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	token, exp, err := h.Sessions.Issue(*id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": exp.UTC().Format(time.RFC3339),
		"user":      identityPayload(*id),
		"view":      viewPayload(view),
	})
}

func (h AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h AuthHandler) registerStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerEmail    string `json:"ownerEmail" validate:"required,email"`
		OwnerPassword string `json:"ownerPassword" validate:"required"`
		StoreName     string `json:"storeName" validate:"required"`
		StoreAddress  string `json:"storeAddress"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	res, err := h.Stores.RegisterStore(r.Context(), service.RegisterStoreInput{
		OwnerEmail:    req.OwnerEmail,
		OwnerPassword: req.OwnerPassword,
		StoreName:     req.StoreName,
		StoreAddress:  req.StoreAddress,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "register store", err)
		return
	}
	writeJSONMessage(w, http.StatusCreated, "store registered, sign in to continue", map[string]any{
		"storeId": res.StoreID,
		"owner": identityPayload(domain.Identity{
			ID:      res.Owner.ID,
			Email:   res.Owner.Email,
			Role:    res.Owner.Role,
			StoreID: res.Owner.StoreID,
		}),
	})
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, identityPayload(user.Identity()))
}

func identityPayload(id domain.Identity) map[string]any {
	return map[string]any{
		"id":      id.ID,
		"email":   id.Email,
		"role":    string(id.Role),
		"storeId": id.StoreID,
	}
}

func viewPayload(v domain.View) map[string]any {
	return map[string]any{
		"kind":    string(v.Kind),
		"title":   v.Title,
		"actions": v.Actions,
	}
}
