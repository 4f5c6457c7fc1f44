package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

type EmployeeRepository struct {
	DB *db.Firestore
}

type employeeDoc struct {
	Email   string    `firestore:"email"`
	Role    string    `firestore:"role"`
	StoreID string    `firestore:"store_id"`
	AddedBy string    `firestore:"added_by"`
	Active  bool      `firestore:"active"`
	AddedAt time.Time `firestore:"added_at,serverTimestamp"`
}

// Create appends a membership document; existing memberships for the same email are
// not consulted.
func (r EmployeeRepository) Create(ctx context.Context, e domain.Employee) (string, error) {
	ref, _, err := r.DB.Client.Collection(colEmployees).Add(ctx, employeeDoc{
		Email:   e.Email,
		Role:    string(e.Role),
		StoreID: e.StoreID,
		AddedBy: e.AddedBy,
		Active:  e.Active,
	})
	if err != nil {
		return "", fmt.Errorf("add employee: %w", err)
	}
	return ref.ID, nil
}

func (r EmployeeRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Employee, error) {
	snaps, err := r.DB.Client.Collection(colEmployees).Where("store_id", "==", storeID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	items := make([]domain.Employee, 0, len(snaps))
	for _, snap := range snaps {
		var d employeeDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode employee %s: %w", snap.Ref.ID, err)
		}
		items = append(items, domain.Employee{
			ID:      snap.Ref.ID,
			Email:   d.Email,
			Role:    domain.UserRole(d.Role),
			StoreID: d.StoreID,
			AddedBy: d.AddedBy,
			Active:  d.Active,
			AddedAt: d.AddedAt,
		})
	}
	return items, nil
}
