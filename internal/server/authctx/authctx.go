package authctx

import (
	"context"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

type CurrentUser struct {
	ID      string
	Email   string
	Role    domain.UserRole
	StoreID *string
}

func (u CurrentUser) Identity() domain.Identity {
	return domain.Identity{ID: u.ID, Email: u.Email, Role: u.Role, StoreID: u.StoreID}
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
