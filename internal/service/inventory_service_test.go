package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// indexlessMovements rejects the ordered query the way Firestore does without the
// composite index.
type indexlessMovements struct{ memory.Movements }

func (indexlessMovements) ListByStore(context.Context, string, int) ([]domain.Movement, error) {
	return nil, fmt.Errorf("query movements: %w", status.Error(codes.FailedPrecondition, "The query requires an index"))
}

type brokenMovements struct{ memory.Movements }

func (brokenMovements) Append(context.Context, domain.Movement) (string, error) {
	return "", errors.New("write failed")
}

func (brokenMovements) ListByStore(context.Context, string, int) ([]domain.Movement, error) {
	return nil, status.Error(codes.Unavailable, "backend down")
}

func mustCreateProduct(t *testing.T, f *fixture, storeID, sku, name string, qty int) string {
	t.Helper()
	id, err := f.inventory.CreateProduct(context.Background(), CreateProductInput{
		StoreID:         storeID,
		SKU:             sku,
		Name:            name,
		Price:           decimal.RequireFromString("9.99"),
		InitialQuantity: qty,
	})
	require.NoError(t, err)
	return id
}

func quantityOf(t *testing.T, f *fixture, productID, storeID string) int {
	t.Helper()
	inv, err := f.db.Inventory().Find(context.Background(), productID, storeID)
	require.NoError(t, err)
	return inv.Quantity
}

func TestInventoryService_WidgetScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := mustCreateProduct(t, f, "s1", "W1", "Widget", 5)
	assert.Equal(t, 5, quantityOf(t, f, id, "s1"))

	history, err := f.inventory.GetMovementsByStore(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 5, history[0].Change)
	assert.Equal(t, domain.ReasonInitial, history[0].Reason)
	assert.Equal(t, domain.SystemActor, history[0].User)

	qty, err := f.inventory.AdjustStock(ctx, AdjustStockInput{
		ProductID: id, StoreID: "s1", Change: -2, Reason: domain.ReasonManualAdjust, UserEmail: "owner@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
	assert.Equal(t, 3, quantityOf(t, f, id, "s1"))

	history, err = f.inventory.GetMovementsByStore(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, -2, history[0].Change)
	assert.Equal(t, domain.ReasonManualAdjust, history[0].Reason)
	assert.Equal(t, "owner@x.com", history[0].User)
	assert.Equal(t, 5, history[1].Change)
	require.NotNil(t, history[0].ProductName)
	assert.Equal(t, "Widget", *history[0].ProductName)

	n, err := testutil.GatherAndCount(f.metrics.Registry, "stock_adjustments_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInventoryService_QuantityEqualsLedgerSum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreateProduct(t, f, "s1", "B1", "Bolt", 10)

	for _, change := range []int{3, -7, -9, 4, 0, 12, -1} {
		_, err := f.inventory.AdjustStock(ctx, AdjustStockInput{ProductID: id, StoreID: "s1", Change: change, Reason: "recount", UserEmail: "m@x.com"})
		require.NoError(t, err)
	}

	history, err := f.inventory.GetMovementsByStore(ctx, "s1", 100)
	require.NoError(t, err)
	sum := 0
	for _, m := range history {
		sum += m.Change
	}
	assert.Equal(t, sum, quantityOf(t, f, id, "s1"))
	assert.Equal(t, 12, sum)
}

func TestInventoryService_NegativeQuantityIsKept(t *testing.T) {
	f := newFixture(t)
	id := mustCreateProduct(t, f, "s1", "N1", "Nut", 1)

	qty, err := f.inventory.AdjustStock(context.Background(), AdjustStockInput{ProductID: id, StoreID: "s1", Change: -4, Reason: "sale"})
	require.NoError(t, err)
	assert.Equal(t, -3, qty)
}

func TestInventoryService_AdjustWithoutRowStartsFromZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreateProduct(t, f, "s1", "Z1", "Zip", 0)

	_, err := f.db.Inventory().Find(ctx, id, "s1")
	require.Error(t, err, "zero initial quantity writes no inventory row")

	qty, err := f.inventory.AdjustStock(ctx, AdjustStockInput{ProductID: id, StoreID: "s1", Change: 7, Reason: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, 7, qty)

	rows, err := f.db.Inventory().ListByStore(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInventoryService_SetInventoryOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.inventory.SetInventory(ctx, "p1", "s1", 4))
	assert.Equal(t, 4, quantityOf(t, f, "p1", "s1"))
	require.NoError(t, f.inventory.SetInventory(ctx, "p1", "s1", 11))
	assert.Equal(t, 11, quantityOf(t, f, "p1", "s1"))
	require.NoError(t, f.inventory.SetInventory(ctx, "p1", "s1", 11))
	assert.Equal(t, 11, quantityOf(t, f, "p1", "s1"))

	rows, err := f.db.Inventory().ListByStore(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "one row per (product, store)")
}

func TestInventoryService_MovementFailureAfterQuantityWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreateProduct(t, f, "s1", "W1", "Widget", 5)
	f.inventory.Movements = brokenMovements{f.db.Movements()}

	qty, err := f.inventory.AdjustStock(ctx, AdjustStockInput{ProductID: id, StoreID: "s1", Change: 2, Reason: "delivery"})
	assert.Error(t, err)
	assert.Equal(t, 7, qty)
	assert.Equal(t, 7, quantityOf(t, f, id, "s1"), "quantity is not rolled back")
}

func TestInventoryService_CreateProductPartialFailure(t *testing.T) {
	f := newFixture(t)
	f.inventory.Movements = brokenMovements{f.db.Movements()}

	id, err := f.inventory.CreateProduct(context.Background(), CreateProductInput{
		StoreID: "s1", SKU: "W1", Name: "Widget", Price: decimal.NewFromInt(1), InitialQuantity: 3,
	})
	assert.Error(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 3, quantityOf(t, f, id, "s1"))
}

func TestInventoryService_CreateProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.inventory.CreateProduct(ctx, CreateProductInput{StoreID: "s1", SKU: "X", Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativePrice)
	_, err = f.inventory.CreateProduct(ctx, CreateProductInput{StoreID: "s1", Name: "X"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestInventoryService_HistoryFallsBackToNested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreateProduct(t, f, "s1", "W1", "Widget", 0)
	_, err := f.db.Movements().AppendNested(ctx, "s1", domain.Movement{ProductID: id, Change: 9, Reason: "import", User: "legacy"})
	require.NoError(t, err)
	f.inventory.Movements = indexlessMovements{f.db.Movements()}

	history, err := f.inventory.GetMovementsByStore(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 9, history[0].Change)
	require.NotNil(t, history[0].ProductName)
	assert.Equal(t, "Widget", *history[0].ProductName)
}

func TestInventoryService_HistoryDegradedWhenFallbackEmpty(t *testing.T) {
	f := newFixture(t)
	mustCreateProduct(t, f, "s1", "W1", "Widget", 5)
	f.inventory.Movements = indexlessMovements{f.db.Movements()}

	history, err := f.inventory.GetMovementsByStore(context.Background(), "s1", 10)
	assert.ErrorIs(t, err, ErrHistoryDegraded)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestInventoryService_HistoryOtherErrorsAreReturned(t *testing.T) {
	f := newFixture(t)
	f.inventory.Movements = brokenMovements{f.db.Movements()}

	history, err := f.inventory.GetMovementsByStore(context.Background(), "s1", 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrHistoryDegraded)
	assert.Empty(t, history)
}

func TestInventoryService_HistoryLimitAndUnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.inventory.AdjustStock(ctx, AdjustStockInput{ProductID: "ghost", StoreID: "s1", Change: 1, Reason: "r"})
		require.NoError(t, err)
	}
	history, err := f.inventory.GetMovementsByStore(ctx, "s1", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Nil(t, history[0].ProductName)
}

func TestInventoryService_GetInventoryForStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := mustCreateProduct(t, f, "s1", "W1", "Widget", 5)
	mustCreateProduct(t, f, "s2", "G1", "Gadget", 2)

	items, err := f.inventory.GetInventoryForStore(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.InventoryItem{ProductID: w, SKU: "W1", Name: "Widget", Quantity: 5}, items[0])
}

func TestInventoryService_UpdateProductIsShallow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreateProduct(t, f, "s1", "W1", "Widget", 0)

	name := "Widget Pro"
	price := decimal.RequireFromString("12.50")
	require.NoError(t, f.inventory.UpdateProduct(ctx, id, domain.ProductUpdate{Name: &name, Price: &price}))

	p, err := f.inventory.GetProductByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Widget Pro", p.Name)
	assert.Equal(t, "W1", p.SKU)
	assert.True(t, price.Equal(p.Price))
	assert.True(t, p.Active)

	neg := decimal.NewFromInt(-3)
	assert.ErrorIs(t, f.inventory.UpdateProduct(ctx, id, domain.ProductUpdate{Price: &neg}), ErrNegativePrice)

	missing, err := f.inventory.GetProductByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	products, err := f.inventory.GetProductsByStore(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
