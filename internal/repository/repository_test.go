package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsIndexMissing(t *testing.T) {
	assert.True(t, IsIndexMissing(status.Error(codes.FailedPrecondition, "The query requires an index")))
	assert.True(t, IsIndexMissing(fmt.Errorf("query movements: %w", status.Error(codes.FailedPrecondition, "x"))))
	assert.False(t, IsIndexMissing(status.Error(codes.Unavailable, "down")))
	assert.False(t, IsIndexMissing(nil))
}

// emulator connects to FIRESTORE_EMULATOR_HOST; the tests are skipped without it.
func emulator(t *testing.T) *db.Firestore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return db.NewWithClient(client)
}

func TestUserRepository_Emulator(t *testing.T) {
	fs := emulator(t)
	ctx := context.Background()
	repo := UserRepository{DB: fs}

	u, err := repo.Create(ctx, domain.User{Email: "a@x.com", Password: "pw", Role: domain.RoleOwner})
	require.NoError(t, err)
	store := "s1"
	require.NoError(t, repo.Update(ctx, u.ID, domain.UserUpdate{StoreID: &store}))

	got, err := repo.FirstByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.StoreID)
	assert.Equal(t, "s1", *got.StoreID)

	_, err = repo.FirstByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductAndStock_Emulator(t *testing.T) {
	fs := emulator(t)
	ctx := context.Background()
	products := ProductRepository{DB: fs}
	inventory := InventoryRepository{DB: fs}
	movements := MovementRepository{DB: fs}

	id, err := products.Create(ctx, domain.Product{StoreID: "s1", SKU: "W1", Name: "Widget", Price: decimal.RequireFromString("2.5"), Active: true})
	require.NoError(t, err)
	name := "Widget Pro"
	require.NoError(t, products.Update(ctx, id, domain.ProductUpdate{Name: &name}))
	p, err := products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", p.Name)
	assert.Equal(t, "W1", p.SKU)
	assert.True(t, decimal.RequireFromString("2.5").Equal(p.Price))

	invID, err := inventory.Create(ctx, domain.Inventory{ProductID: id, StoreID: "s1", Quantity: 5})
	require.NoError(t, err)
	require.NoError(t, inventory.SetQuantity(ctx, invID, -1))
	inv, err := inventory.Find(ctx, id, "s1")
	require.NoError(t, err)
	assert.Equal(t, -1, inv.Quantity)
	assert.ErrorIs(t, inventory.SetQuantity(ctx, "missing", 1), ErrNotFound)

	for _, c := range []int{5, -6} {
		_, err := movements.Append(ctx, domain.Movement{ProductID: id, StoreID: "s1", Change: c, Reason: "r", User: "u"})
		require.NoError(t, err)
	}
	items, err := movements.ListByStore(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	nested, err := movements.ListNested(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, nested)
}

func TestSettingsRepository_Emulator(t *testing.T) {
	fs := emulator(t)
	ctx := context.Background()
	repo := SettingsRepository{DB: fs}

	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	dark, logo := true, "bG9nbw=="
	require.NoError(t, repo.Merge(ctx, "s1", domain.ThemeSettings{Palette: []string{"#1"}, DarkMode: &dark, LogoB64: &logo}))
	require.NoError(t, repo.Merge(ctx, "s1", domain.ThemeSettings{Palette: []string{"#2"}}))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"#2"}, got.Palette)
	require.NotNil(t, got.LogoB64)
	assert.Equal(t, logo, *got.LogoB64)
}
