package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/handler"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/server/authctx"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

// SessionMiddleware restores the identity from the session cookie, or from a Bearer
// header carrying the same token, and sets the current user in context.
func SessionMiddleware(sessions service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ""
			if c, err := r.Cookie(handler.SessionCookie); err == nil {
				tokenStr = c.Value
			} else if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				tokenStr = strings.TrimPrefix(auth, "Bearer ")
			}
			if tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			id, err := sessions.Parse(tokenStr)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{
				ID:      id.ID,
				Email:   id.Email,
				Role:    id.Role,
				StoreID: id.StoreID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole ensures the user has one of the allowed roles.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type storeLookup interface {
	GetStoreByID(ctx context.Context, id string) (*domain.Store, error)
}

type userLookup interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// RequireStoreAccess guards routes under /stores/{storeID}: owners must own the store,
// staff must currently be assigned to it. The staff assignment is read from the user
// document, not the session, so a reassignment applies to tokens already issued.
func RequireStoreAccess(stores storeLookup, users userLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			storeID := chi.URLParam(r, "storeID")
			if u.Role == domain.RoleOwner {
				store, err := stores.GetStoreByID(r.Context(), storeID)
				if err != nil {
					writeAuthError(w, http.StatusInternalServerError, "store lookup failed")
					return
				}
				if store == nil {
					writeAuthError(w, http.StatusNotFound, "store not found")
					return
				}
				if store.OwnerEmail != u.Email {
					writeAuthError(w, http.StatusForbidden, "forbidden")
					return
				}
			} else {
				current, err := users.GetUserByID(r.Context(), u.ID)
				if err != nil {
					writeAuthError(w, http.StatusInternalServerError, "user lookup failed")
					return
				}
				if current == nil || !current.Role.IsStaff() || current.StoreID == nil || *current.StoreID != storeID {
					writeAuthError(w, http.StatusForbidden, "forbidden")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + http.StatusText(status) + `","message":"` + message + `"}`))
}
