package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovements_NewestFirstWithTies(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db := New().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	for _, c := range []int{1, 2, 3} {
		_, err := db.Movements().Append(ctx, domain.Movement{StoreID: "s1", Change: c})
		require.NoError(t, err)
	}
	_, err := db.Movements().Append(ctx, domain.Movement{StoreID: "s2", Change: 99})
	require.NoError(t, err)

	items, err := db.Movements().ListByStore(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Change)
	assert.Equal(t, 2, items[1].Change)
}

func TestMovements_NestedIsSeparate(t *testing.T) {
	db := New()
	ctx := context.Background()

	_, err := db.Movements().AppendNested(ctx, "s1", domain.Movement{Change: 4})
	require.NoError(t, err)

	top, err := db.Movements().ListByStore(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	nested, err := db.Movements().ListNested(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, "s1", nested[0].StoreID)
}

func TestUsers_NoUniqueness(t *testing.T) {
	db := New()
	ctx := context.Background()

	first, err := db.Users().Create(ctx, domain.User{Email: "a@x.com", Role: domain.RoleOwner})
	require.NoError(t, err)
	_, err = db.Users().Create(ctx, domain.User{Email: "a@x.com", Role: domain.RoleCashier})
	require.NoError(t, err)

	got, err := db.Users().FirstByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = db.Users().FirstByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	byID, err := db.Users().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byID.ID)
	_, err = db.Users().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSettings_MergeKeepsUnsetFields(t *testing.T) {
	db := New()
	ctx := context.Background()
	dark, logo := true, "bG9nbw=="

	_, err := db.Settings().Get(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, db.Settings().Merge(ctx, "s1", domain.ThemeSettings{Palette: []string{"#1"}, DarkMode: &dark, LogoB64: &logo}))
	require.NoError(t, db.Settings().Merge(ctx, "s1", domain.ThemeSettings{Palette: []string{"#2"}}))

	got, err := db.Settings().Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"#2"}, got.Palette)
	require.NotNil(t, got.DarkMode)
	assert.True(t, *got.DarkMode)
	require.NotNil(t, got.LogoB64)
	assert.Equal(t, logo, *got.LogoB64)

	*got.LogoB64 = "changed"
	again, err := db.Settings().Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, logo, *again.LogoB64)
}

func TestInventory_SetQuantityUnknownRow(t *testing.T) {
	db := New()
	err := db.Inventory().SetQuantity(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
