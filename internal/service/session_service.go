package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session")

const sessionTokenType = "session"

// SessionService signs the identity into the session cookie value. Nothing is kept
// server side; logging out only drops the cookie.
type SessionService struct {
	Secret []byte
	TTL    time.Duration
}

func (s SessionService) Issue(id domain.Identity) (string, time.Time, error) {
	exp := time.Now().Add(s.TTL)
	claims := jwt.MapClaims{
		"sub":        id.ID,
		"email":      id.Email,
		"role":       string(id.Role),
		"token_type": sessionTokenType,
		"exp":        exp.Unix(),
	}
	if id.StoreID != nil {
		claims["store_id"] = *id.StoreID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, exp, nil
}

func (s SessionService) Parse(raw string) (*domain.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != sessionTokenType {
		return nil, ErrInvalidSession
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !domain.UserRole(role).Valid() {
		return nil, ErrInvalidSession
	}
	id := &domain.Identity{ID: sub, Email: email, Role: domain.UserRole(role)}
	if storeID, ok := claims["store_id"].(string); ok && storeID != "" {
		id.StoreID = &storeID
	}
	return id, nil
}
