package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/ports"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
)

type StoreService struct {
	Stores ports.StoreStore
	Users  ports.UserStore
	Auth   AuthService
	Logger *slog.Logger
}

type RegisterStoreInput struct {
	OwnerEmail    string
	OwnerPassword string
	StoreName     string
	StoreAddress  string
}

type RegisterStoreResult struct {
	Owner   domain.User
	StoreID string
}

// CreateStore does not check that ownerEmail belongs to an owner.
func (s StoreService) CreateStore(ctx context.Context, name, address, ownerEmail string) (string, error) {
	id, err := s.Stores.Create(ctx, domain.Store{
		Name:       name,
		Address:    address,
		OwnerEmail: ownerEmail,
		Active:     true,
	})
	if err != nil {
		s.Logger.Error("create store failed", "owner", ownerEmail, "err", err)
		return "", err
	}
	return id, nil
}

// GetStoresByOwner always returns a non-nil slice, even alongside an error.
func (s StoreService) GetStoresByOwner(ctx context.Context, ownerEmail string) ([]domain.Store, error) {
	items, err := s.Stores.ListByOwner(ctx, ownerEmail)
	if err != nil {
		s.Logger.Error("list stores failed", "owner", ownerEmail, "err", err)
		return []domain.Store{}, err
	}
	return items, nil
}

// GetStoreByID returns nil, nil when the store does not exist.
func (s StoreService) GetStoreByID(ctx context.Context, id string) (*domain.Store, error) {
	store, err := s.Stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.Logger.Error("get store failed", "store_id", id, "err", err)
		return nil, err
	}
	return store, nil
}

// RegisterStore onboards an owner: user, then store, then the user's store_id. The
// three writes are independent; a failure part way leaves the earlier ones in place.
func (s StoreService) RegisterStore(ctx context.Context, in RegisterStoreInput) (*RegisterStoreResult, error) {
	if in.OwnerEmail == "" || in.OwnerPassword == "" || in.StoreName == "" {
		return nil, ErrMissingFields
	}
	owner, err := s.Auth.Register(ctx, RegisterInput{
		Email:    in.OwnerEmail,
		Password: in.OwnerPassword,
		Role:     domain.RoleOwner,
	})
	if err != nil {
		return nil, err
	}
	storeID, err := s.CreateStore(ctx, in.StoreName, in.StoreAddress, in.OwnerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Update(ctx, owner.ID, domain.UserUpdate{StoreID: &storeID}); err != nil {
		s.Logger.Error("link owner to store failed", "owner", in.OwnerEmail, "store_id", storeID, "err", err)
		return nil, err
	}
	owner.StoreID = &storeID
	return &RegisterStoreResult{Owner: *owner, StoreID: storeID}, nil
}
