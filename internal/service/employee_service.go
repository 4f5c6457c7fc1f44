package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/ports"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
)

// PlaceholderPassword is given to users created through AddEmployee without a password.
const PlaceholderPassword = "temp_password"

var ErrOwnerAccount = errors.New("email belongs to a store owner")

type EmployeeService struct {
	Users     ports.UserStore
	Employees ports.EmployeeStore
	Auth      AuthService
	Logger    *slog.Logger
}

type AddEmployeeInput struct {
	Email    string
	Role     domain.UserRole
	StoreID  string
	AddedBy  string
	Password string
}

// AddEmployee assigns the user to the store (creating it when absent) and then appends
// a membership record. Repeated calls append duplicate memberships. If the append fails
// the user keeps its new store_id without a membership.
func (s EmployeeService) AddEmployee(ctx context.Context, in AddEmployeeInput) (*domain.Employee, error) {
	if in.Email == "" || in.StoreID == "" {
		return nil, ErrMissingFields
	}
	if !in.Role.IsStaff() {
		return nil, ErrInvalidRole
	}

	user, err := s.Users.FirstByEmail(ctx, in.Email)
	switch {
	case err == nil:
		role, storeID := in.Role, in.StoreID
		if err := s.Users.Update(ctx, user.ID, domain.UserUpdate{Role: &role, StoreID: &storeID}); err != nil {
			s.Logger.Error("reassign user failed", "email", in.Email, "err", err)
			return nil, err
		}
	case errors.Is(err, repository.ErrNotFound):
		password := in.Password
		if password == "" {
			password = PlaceholderPassword
		}
		storeID := in.StoreID
		if _, err := s.Auth.Register(ctx, RegisterInput{
			Email:    in.Email,
			Password: password,
			Role:     in.Role,
			StoreID:  &storeID,
		}); err != nil {
			return nil, err
		}
	default:
		s.Logger.Error("lookup user failed", "email", in.Email, "err", err)
		return nil, err
	}

	e := domain.Employee{
		Email:   in.Email,
		Role:    in.Role,
		StoreID: in.StoreID,
		AddedBy: in.AddedBy,
		Active:  true,
	}
	id, err := s.Employees.Create(ctx, e)
	if err != nil {
		s.Logger.Error("append membership failed", "email", in.Email, "store_id", in.StoreID, "err", err)
		return nil, err
	}
	e.ID = id
	return &e, nil
}

// AddStaff is AddEmployee for requests made by an owner: it refuses an email whose first
// matching user is an owner, so one tenant cannot demote another tenant's owner.
func (s EmployeeService) AddStaff(ctx context.Context, in AddEmployeeInput) (*domain.Employee, error) {
	user, err := s.Users.FirstByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if user.Role == domain.RoleOwner {
			return nil, ErrOwnerAccount
		}
	case !errors.Is(err, repository.ErrNotFound):
		s.Logger.Error("lookup user failed", "email", in.Email, "err", err)
		return nil, err
	}
	return s.AddEmployee(ctx, in)
}

// GetEmployeesByStore always returns a non-nil slice, even alongside an error.
func (s EmployeeService) GetEmployeesByStore(ctx context.Context, storeID string) ([]domain.Employee, error) {
	items, err := s.Employees.ListByStore(ctx, storeID)
	if err != nil {
		s.Logger.Error("list employees failed", "store_id", storeID, "err", err)
		return []domain.Employee{}, err
	}
	return items, nil
}
