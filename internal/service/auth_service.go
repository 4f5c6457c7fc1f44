package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/ports"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMissingFields      = errors.New("missing required fields")
)

const maxBcryptPassword = 72

type AuthService struct {
	Users  ports.UserStore
	Logger *slog.Logger
	// HashCost overrides bcrypt.DefaultCost when non-zero.
	HashCost int
}

type RegisterInput struct {
	Email    string
	Password string
	Role     domain.UserRole
	StoreID  *string
}

// Login checks the password of the first user with this email. An unknown email and a
// wrong password produce the same ErrInvalidCredentials.
func (s AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, err := s.Users.FirstByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.Logger.Error("login lookup failed", "email", email, "err", err)
		return nil, fmt.Errorf("login: %w", err)
	}
	if !passwordMatches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &domain.Identity{
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
		StoreID: user.StoreID,
	}, nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (s AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.Logger.Error("get user failed", "user_id", id, "err", err)
		return nil, err
	}
	return user, nil
}

// Register inserts a user without checking whether the email is already taken.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.Create(ctx, domain.User{
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		StoreID:  in.StoreID,
	})
	if err != nil {
		s.Logger.Error("register user failed", "email", in.Email, "err", err)
		return nil, err
	}
	return user, nil
}

func (s AuthService) hash(password string) (string, error) {
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// passwordMatches accepts bcrypt hashes and, for documents written before hashing was
// introduced, plaintext values compared by equality.
func passwordMatches(stored, given string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(given)) == nil
	}
	return stored != "" && stored == given
}

// bcryptInput passes passwords within bcrypt's 72 byte limit through unchanged and
// replaces longer ones by their base64 SHA-256 digest.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptPassword {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
