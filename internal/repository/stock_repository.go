package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

// InventoryRepository holds one quantity row per (product, store). Uniqueness is kept
// by callers doing Find before Create; Firestore does not enforce it.
type InventoryRepository struct {
	DB *db.Firestore
}

type inventoryDoc struct {
	ProductID string    `firestore:"product_id"`
	StoreID   string    `firestore:"store_id"`
	Quantity  int       `firestore:"quantity"`
	UpdatedAt time.Time `firestore:"updated_at,serverTimestamp"`
}

func (r InventoryRepository) Find(ctx context.Context, productID, storeID string) (*domain.Inventory, error) {
	snaps, err := r.DB.Client.Collection(colInventory).
		Where("product_id", "==", productID).
		Where("store_id", "==", storeID).
		Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return scanInventory(snaps[0])
}

func (r InventoryRepository) Create(ctx context.Context, inv domain.Inventory) (string, error) {
	ref, _, err := r.DB.Client.Collection(colInventory).Add(ctx, inventoryDoc{
		ProductID: inv.ProductID,
		StoreID:   inv.StoreID,
		Quantity:  inv.Quantity,
	})
	if err != nil {
		return "", fmt.Errorf("add inventory: %w", err)
	}
	return ref.ID, nil
}

func (r InventoryRepository) SetQuantity(ctx context.Context, id string, quantity int) error {
	_, err := r.DB.Client.Collection(colInventory).Doc(id).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: quantity},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	return nil
}

func (r InventoryRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Inventory, error) {
	snaps, err := r.DB.Client.Collection(colInventory).Where("store_id", "==", storeID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query inventory by store: %w", err)
	}
	items := make([]domain.Inventory, 0, len(snaps))
	for _, snap := range snaps {
		inv, err := scanInventory(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, *inv)
	}
	return items, nil
}

func scanInventory(snap *firestore.DocumentSnapshot) (*domain.Inventory, error) {
	var d inventoryDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode inventory %s: %w", snap.Ref.ID, err)
	}
	return &domain.Inventory{
		ID:        snap.Ref.ID,
		ProductID: d.ProductID,
		StoreID:   d.StoreID,
		Quantity:  d.Quantity,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// MovementRepository is the append-only stock ledger.
type MovementRepository struct {
	DB *db.Firestore
}

type movementDoc struct {
	ProductID string    `firestore:"product_id"`
	StoreID   string    `firestore:"store_id"`
	Change    int       `firestore:"change"`
	Reason    string    `firestore:"reason"`
	User      string    `firestore:"user"`
	Timestamp time.Time `firestore:"timestamp,serverTimestamp"`
}

func (r MovementRepository) Append(ctx context.Context, m domain.Movement) (string, error) {
	ref, _, err := r.DB.Client.Collection(colMovements).Add(ctx, movementDoc{
		ProductID: m.ProductID,
		StoreID:   m.StoreID,
		Change:    m.Change,
		Reason:    m.Reason,
		User:      m.User,
	})
	if err != nil {
		return "", fmt.Errorf("add movement: %w", err)
	}
	return ref.ID, nil
}

// ListByStore needs the (store_id, timestamp desc) composite index; without it Firestore
// answers FailedPrecondition, see IsIndexMissing.
func (r MovementRepository) ListByStore(ctx context.Context, storeID string, limit int) ([]domain.Movement, error) {
	q := r.DB.Client.Collection(colMovements).
		Where("store_id", "==", storeID).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit)
	return r.list(ctx, q)
}

func (r MovementRepository) ListNested(ctx context.Context, storeID string, limit int) ([]domain.Movement, error) {
	q := r.DB.Client.Collection(colStores).Doc(storeID).Collection(colMovements).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit)
	return r.list(ctx, q)
}

func (r MovementRepository) list(ctx context.Context, q firestore.Query) ([]domain.Movement, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	items := make([]domain.Movement, 0, len(snaps))
	for _, snap := range snaps {
		var d movementDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode movement %s: %w", snap.Ref.ID, err)
		}
		items = append(items, domain.Movement{
			ID:        snap.Ref.ID,
			ProductID: d.ProductID,
			StoreID:   d.StoreID,
			Change:    d.Change,
			Reason:    d.Reason,
			User:      d.User,
			Timestamp: d.Timestamp,
		})
	}
	return items, nil
}
