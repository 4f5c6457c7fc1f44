package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

type StoreRepository struct {
	DB *db.Firestore
}

type storeDoc struct {
	Name       string    `firestore:"name"`
	Address    string    `firestore:"address"`
	OwnerEmail string    `firestore:"owner_email"`
	Active     bool      `firestore:"active"`
	CreatedAt  time.Time `firestore:"created_at,serverTimestamp"`
}

func (r StoreRepository) Create(ctx context.Context, s domain.Store) (string, error) {
	ref, _, err := r.DB.Client.Collection(colStores).Add(ctx, storeDoc{
		Name:       s.Name,
		Address:    s.Address,
		OwnerEmail: s.OwnerEmail,
		Active:     s.Active,
	})
	if err != nil {
		return "", fmt.Errorf("add store: %w", err)
	}
	return ref.ID, nil
}

func (r StoreRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Store, error) {
	snaps, err := r.DB.Client.Collection(colStores).Where("owner_email", "==", ownerEmail).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query stores by owner: %w", err)
	}
	items := make([]domain.Store, 0, len(snaps))
	for _, snap := range snaps {
		s, err := scanStore(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, nil
}

func (r StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	snap, err := r.DB.Client.Collection(colStores).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return scanStore(snap)
}

func scanStore(snap *firestore.DocumentSnapshot) (*domain.Store, error) {
	var d storeDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", snap.Ref.ID, err)
	}
	return &domain.Store{
		ID:         snap.Ref.ID,
		Name:       d.Name,
		Address:    d.Address,
		OwnerEmail: d.OwnerEmail,
		Active:     d.Active,
		CreatedAt:  d.CreatedAt,
	}, nil
}
