package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

type UserRepository struct {
	DB *db.Firestore
}

type userDoc struct {
	Email     string    `firestore:"email"`
	Password  string    `firestore:"password"`
	Role      string    `firestore:"role"`
	StoreID   *string   `firestore:"store_id"`
	CreatedAt time.Time `firestore:"created_at,serverTimestamp"`
}

func (r UserRepository) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	ref, _, err := r.DB.Client.Collection(colUsers).Add(ctx, userDoc{
		Email:    u.Email,
		Password: u.Password,
		Role:     string(u.Role),
		StoreID:  u.StoreID,
	})
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	u.ID = ref.ID
	u.CreatedAt = time.Now()
	return &u, nil
}

// FirstByEmail returns the first user with the email. Emails are not unique, so with
// duplicates the match is whichever document Firestore yields first.
func (r UserRepository) FirstByEmail(ctx context.Context, email string) (*domain.User, error) {
	snaps, err := r.DB.Client.Collection(colUsers).Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return scanUser(snaps[0])
}

func (r UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	snap, err := r.DB.Client.Collection(colUsers).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return scanUser(snap)
}

func (r UserRepository) Update(ctx context.Context, id string, upd domain.UserUpdate) error {
	var ups []firestore.Update
	if upd.Role != nil {
		ups = append(ups, firestore.Update{Path: "role", Value: string(*upd.Role)})
	}
	if upd.StoreID != nil {
		ups = append(ups, firestore.Update{Path: "store_id", Value: *upd.StoreID})
	}
	if len(ups) == 0 {
		return nil
	}
	if _, err := r.DB.Client.Collection(colUsers).Doc(id).Update(ctx, ups); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func scanUser(snap *firestore.DocumentSnapshot) (*domain.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	return &domain.User{
		ID:        snap.Ref.ID,
		Email:     d.Email,
		Password:  d.Password,
		Role:      domain.UserRole(d.Role),
		StoreID:   d.StoreID,
		CreatedAt: d.CreatedAt,
	}, nil
}
