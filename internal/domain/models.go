package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleOwner    UserRole = "owner"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
	RoleCashier  UserRole = "cashier"

	ReasonInitial      = "initial"
	ReasonManualAdjust = "manual_adjust"

	// SystemActor is recorded as the movement user for automatic entries.
	SystemActor = "system"

	// MaxPaletteColors bounds a theme palette.
	MaxPaletteColors = 6
)

type UserRole string

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee, RoleCashier:
		return true
	}
	return false
}

// IsStaff reports whether r can be assigned to an employee membership.
func (r UserRole) IsStaff() bool {
	return r == RoleManager || r == RoleEmployee || r == RoleCashier
}

type User struct {
	ID        string
	Email     string
	Password  string
	Role      UserRole
	StoreID   *string
	CreatedAt time.Time
}

// Identity is the session view of an authenticated user.
type Identity struct {
	ID      string
	Email   string
	Role    UserRole
	StoreID *string
}

type Store struct {
	ID         string
	Name       string
	Address    string
	OwnerEmail string
	Active     bool
	CreatedAt  time.Time
}

type Employee struct {
	ID      string
	Email   string
	Role    UserRole
	StoreID string
	AddedBy string
	Active  bool
	AddedAt time.Time
}

type Product struct {
	ID          string
	StoreID     string
	SKU         string
	Name        string
	Price       decimal.Decimal
	Description string
	Active      bool
	CreatedAt   time.Time
}

// ProductUpdate is a shallow partial update; nil fields are left untouched.
type ProductUpdate struct {
	SKU         *string
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Active      *bool
}

// Empty reports whether the update names no field.
func (u ProductUpdate) Empty() bool {
	return u.SKU == nil && u.Name == nil && u.Price == nil && u.Description == nil && u.Active == nil
}

type Inventory struct {
	ID        string
	ProductID string
	StoreID   string
	Quantity  int
	UpdatedAt time.Time
}

// InventoryItem is an inventory row joined with its product.
type InventoryItem struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int
}

type Movement struct {
	ID        string
	ProductID string
	StoreID   string
	Change    int
	Reason    string
	User      string
	Timestamp time.Time
}

// MovementEntry is a movement joined with the product display name.
type MovementEntry struct {
	Movement
	ProductName *string
}

type Theme struct {
	Palette  []string
	DarkMode bool
	LogoB64  string
}

// ThemeSettings is the stored form of a theme; nil fields are absent from the document.
type ThemeSettings struct {
	Palette  []string
	DarkMode *bool
	LogoB64  *string
}

// UserUpdate assigns a user to a store; nil fields are left untouched.
type UserUpdate struct {
	Role    *UserRole
	StoreID *string
}
