package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	DB *db.Firestore
}

// Price is persisted as a float to stay readable by existing documents.
type productDoc struct {
	StoreID     string    `firestore:"store_id"`
	SKU         string    `firestore:"sku"`
	Name        string    `firestore:"name"`
	Price       float64   `firestore:"price"`
	Description string    `firestore:"description"`
	Active      bool      `firestore:"active"`
	CreatedAt   time.Time `firestore:"created_at,serverTimestamp"`
}

func (r ProductRepository) Create(ctx context.Context, p domain.Product) (string, error) {
	ref, _, err := r.DB.Client.Collection(colProducts).Add(ctx, productDoc{
		StoreID:     p.StoreID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Active:      p.Active,
	})
	if err != nil {
		return "", fmt.Errorf("add product: %w", err)
	}
	return ref.ID, nil
}

func (r ProductRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	snaps, err := r.DB.Client.Collection(colProducts).Where("store_id", "==", storeID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	items := make([]domain.Product, 0, len(snaps))
	for _, snap := range snaps {
		p, err := scanProduct(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, nil
}

func (r ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	snap, err := r.DB.Client.Collection(colProducts).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return scanProduct(snap)
}

func (r ProductRepository) Update(ctx context.Context, id string, upd domain.ProductUpdate) error {
	var ups []firestore.Update
	if upd.SKU != nil {
		ups = append(ups, firestore.Update{Path: "sku", Value: *upd.SKU})
	}
	if upd.Name != nil {
		ups = append(ups, firestore.Update{Path: "name", Value: *upd.Name})
	}
	if upd.Price != nil {
		ups = append(ups, firestore.Update{Path: "price", Value: upd.Price.InexactFloat64()})
	}
	if upd.Description != nil {
		ups = append(ups, firestore.Update{Path: "description", Value: *upd.Description})
	}
	if upd.Active != nil {
		ups = append(ups, firestore.Update{Path: "active", Value: *upd.Active})
	}
	if len(ups) == 0 {
		return nil
	}
	if _, err := r.DB.Client.Collection(colProducts).Doc(id).Update(ctx, ups); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func scanProduct(snap *firestore.DocumentSnapshot) (*domain.Product, error) {
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", snap.Ref.ID, err)
	}
	return &domain.Product{
		ID:          snap.Ref.ID,
		StoreID:     d.StoreID,
		SKU:         d.SKU,
		Name:        d.Name,
		Price:       decimal.NewFromFloat(d.Price),
		Description: d.Description,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
	}, nil
}
