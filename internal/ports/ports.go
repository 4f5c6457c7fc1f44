package ports

import (
	"context"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Point reads return repository.ErrNotFound when no document matches.

type UserStore interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	FirstByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, upd domain.UserUpdate) error
}

type StoreStore interface {
	Create(ctx context.Context, s domain.Store) (string, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
}

type EmployeeStore interface {
	Create(ctx context.Context, e domain.Employee) (string, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Employee, error)
}

type ProductStore interface {
	Create(ctx context.Context, p domain.Product) (string, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, upd domain.ProductUpdate) error
}

type InventoryStore interface {
	Find(ctx context.Context, productID, storeID string) (*domain.Inventory, error)
	Create(ctx context.Context, inv domain.Inventory) (string, error)
	SetQuantity(ctx context.Context, id string, quantity int) error
	ListByStore(ctx context.Context, storeID string) ([]domain.Inventory, error)
}

type MovementStore interface {
	Append(ctx context.Context, m domain.Movement) (string, error)
	// ListByStore returns movements newest first; it needs a composite index.
	ListByStore(ctx context.Context, storeID string, limit int) ([]domain.Movement, error)
	// ListNested reads the per-store stores/{id}/movements subcollection.
	ListNested(ctx context.Context, storeID string, limit int) ([]domain.Movement, error)
}

type SettingsStore interface {
	Get(ctx context.Context, storeID string) (*domain.ThemeSettings, error)
	Merge(ctx context.Context, storeID string, s domain.ThemeSettings) error
}
