package service

import (
	"context"
	"errors"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

var ErrNoStore = errors.New("no store registered for this user")

type DashboardService struct {
	Stores    StoreService
	Employees EmployeeService
}

type Dashboard struct {
	View          domain.View
	Store         *domain.Store
	EmployeeCount *int
}

// Build resolves the identity's view through domain.ViewFor and loads what it shows:
// owners see their first store and its head count, staff see their assigned store.
func (s DashboardService) Build(ctx context.Context, id domain.Identity) (*Dashboard, error) {
	view, err := domain.ViewFor(id.Role)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{View: view}

	switch view.Kind {
	case domain.ViewOwner:
		stores, err := s.Stores.GetStoresByOwner(ctx, id.Email)
		if err != nil {
			return nil, err
		}
		if len(stores) == 0 {
			return nil, ErrNoStore
		}
		d.Store = &stores[0]
		storeID := d.Store.ID
		if id.StoreID != nil {
			storeID = *id.StoreID
		}
		employees, err := s.Employees.GetEmployeesByStore(ctx, storeID)
		if err != nil {
			return nil, err
		}
		n := len(employees)
		d.EmployeeCount = &n
	case domain.ViewStaff:
		if id.StoreID == nil {
			return nil, ErrNoStore
		}
		store, err := s.Stores.GetStoreByID(ctx, *id.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrNoStore
		}
		d.Store = store
	}
	return d, nil
}
