package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/metrics"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/ports"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
	"github.com/shopspring/decimal"
)

const DefaultHistoryLimit = 50

var (
	ErrNegativePrice = errors.New("price must not be negative")
	// ErrHistoryDegraded accompanies an empty movement history when the ordered query
	// was rejected for a missing index and the fallback location had nothing.
	ErrHistoryDegraded = errors.New("movement history unavailable: missing index")
)

// InventoryService manages products, per-store quantities and the movement ledger.
// Quantity writes and movement appends are separate document writes: there is no
// transaction and no locking, so concurrent adjustments of one product can lose updates.
type InventoryService struct {
	Products  ports.ProductStore
	Inventory ports.InventoryStore
	Movements ports.MovementStore
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

type CreateProductInput struct {
	StoreID         string
	SKU             string
	Name            string
	Price           decimal.Decimal
	Description     string
	InitialQuantity int
}

type AdjustStockInput struct {
	ProductID string
	StoreID   string
	Change    int
	Reason    string
	UserEmail string
}

// CreateProduct inserts the product and, for a non-zero initial quantity, sets the
// inventory row and records an "initial" movement. When a later step fails the product
// id is still returned together with the error.
func (s InventoryService) CreateProduct(ctx context.Context, in CreateProductInput) (string, error) {
	if in.StoreID == "" || in.SKU == "" || in.Name == "" {
		return "", ErrMissingFields
	}
	if in.Price.IsNegative() {
		return "", ErrNegativePrice
	}
	id, err := s.Products.Create(ctx, domain.Product{
		StoreID:     in.StoreID,
		SKU:         in.SKU,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Active:      true,
	})
	if err != nil {
		s.Logger.Error("create product failed", "store_id", in.StoreID, "sku", in.SKU, "err", err)
		return "", err
	}
	if in.InitialQuantity == 0 {
		return id, nil
	}
	if err := s.SetInventory(ctx, id, in.StoreID, in.InitialQuantity); err != nil {
		return id, fmt.Errorf("product %s created without inventory: %w", id, err)
	}
	if err := s.recordMovement(ctx, id, in.StoreID, in.InitialQuantity, domain.ReasonInitial, domain.SystemActor); err != nil {
		return id, fmt.Errorf("product %s created without initial movement: %w", id, err)
	}
	return id, nil
}

// SetInventory overwrites the quantity of the (product, store) row, creating it if needed.
func (s InventoryService) SetInventory(ctx context.Context, productID, storeID string, quantity int) error {
	inv, err := s.Inventory.Find(ctx, productID, storeID)
	switch {
	case err == nil:
		err = s.Inventory.SetQuantity(ctx, inv.ID, quantity)
	case errors.Is(err, repository.ErrNotFound):
		_, err = s.Inventory.Create(ctx, domain.Inventory{ProductID: productID, StoreID: storeID, Quantity: quantity})
	}
	if err != nil {
		s.Logger.Error("set inventory failed", "product_id", productID, "store_id", storeID, "err", err)
		return err
	}
	return nil
}

// AdjustStock applies a signed change to the current quantity (0 when no row exists)
// and appends a movement. The result may go negative. It returns the new quantity; if
// the movement append fails the quantity has already been written.
func (s InventoryService) AdjustStock(ctx context.Context, in AdjustStockInput) (int, error) {
	qty, err := s.adjust(ctx, in)
	s.Metrics.StockAdjusted(in.Reason, err)
	return qty, err
}

func (s InventoryService) adjust(ctx context.Context, in AdjustStockInput) (int, error) {
	if in.ProductID == "" || in.StoreID == "" {
		return 0, ErrMissingFields
	}
	var newQty int
	inv, err := s.Inventory.Find(ctx, in.ProductID, in.StoreID)
	switch {
	case err == nil:
		newQty = inv.Quantity + in.Change
		err = s.Inventory.SetQuantity(ctx, inv.ID, newQty)
	case errors.Is(err, repository.ErrNotFound):
		newQty = in.Change
		_, err = s.Inventory.Create(ctx, domain.Inventory{ProductID: in.ProductID, StoreID: in.StoreID, Quantity: newQty})
	}
	if err != nil {
		s.Logger.Error("adjust stock failed", "product_id", in.ProductID, "store_id", in.StoreID, "err", err)
		return 0, err
	}
	if err := s.recordMovement(ctx, in.ProductID, in.StoreID, in.Change, in.Reason, in.UserEmail); err != nil {
		return newQty, fmt.Errorf("quantity written but movement not recorded: %w", err)
	}
	return newQty, nil
}

func (s InventoryService) recordMovement(ctx context.Context, productID, storeID string, change int, reason, user string) error {
	_, err := s.Movements.Append(ctx, domain.Movement{
		ProductID: productID,
		StoreID:   storeID,
		Change:    change,
		Reason:    reason,
		User:      user,
	})
	if err != nil {
		s.Logger.Error("record movement failed", "product_id", productID, "store_id", storeID, "change", change, "err", err)
	}
	return err
}

// GetMovementsByStore lists movements newest first with product names attached. When
// the ordered query lacks its index, the per-store nested collection is read instead;
// if that is empty too the result is empty with ErrHistoryDegraded.
func (s InventoryService) GetMovementsByStore(ctx context.Context, storeID string, limit int) ([]domain.MovementEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	items, err := s.Movements.ListByStore(ctx, storeID, limit)
	if err == nil {
		return s.withProductNames(ctx, items), nil
	}
	if !repository.IsIndexMissing(err) {
		s.Logger.Error("list movements failed", "store_id", storeID, "err", err)
		return []domain.MovementEntry{}, err
	}

	s.Logger.Error("movement query needs a composite index", "store_id", storeID, "err", err)
	nested, nerr := s.Movements.ListNested(ctx, storeID, limit)
	if nerr != nil {
		s.Logger.Error("fallback movement read failed", "store_id", storeID, "err", nerr)
	}
	if nerr == nil && len(nested) > 0 {
		s.Logger.Info("movements read from nested collection", "store_id", storeID)
		s.Metrics.HistoryFallback("nested")
		return s.withProductNames(ctx, nested), nil
	}
	s.Metrics.HistoryFallback("empty")
	return []domain.MovementEntry{}, ErrHistoryDegraded
}

// withProductNames does one product read per movement; unknown products leave the name nil.
func (s InventoryService) withProductNames(ctx context.Context, items []domain.Movement) []domain.MovementEntry {
	out := make([]domain.MovementEntry, 0, len(items))
	for _, m := range items {
		entry := domain.MovementEntry{Movement: m}
		if m.ProductID != "" {
			if p, err := s.Products.GetByID(ctx, m.ProductID); err == nil {
				name := p.Name
				entry.ProductName = &name
			} else if !errors.Is(err, repository.ErrNotFound) {
				s.Logger.Warn("movement product lookup failed", "product_id", m.ProductID, "err", err)
			}
		}
		out = append(out, entry)
	}
	return out
}

// GetInventoryForStore lists the store's inventory rows joined with product sku and name.
func (s InventoryService) GetInventoryForStore(ctx context.Context, storeID string) ([]domain.InventoryItem, error) {
	rows, err := s.Inventory.ListByStore(ctx, storeID)
	if err != nil {
		s.Logger.Error("list inventory failed", "store_id", storeID, "err", err)
		return []domain.InventoryItem{}, err
	}
	out := make([]domain.InventoryItem, 0, len(rows))
	for _, inv := range rows {
		item := domain.InventoryItem{ProductID: inv.ProductID, Quantity: inv.Quantity}
		p, err := s.Products.GetByID(ctx, inv.ProductID)
		switch {
		case err == nil:
			item.SKU, item.Name = p.SKU, p.Name
		case errors.Is(err, repository.ErrNotFound):
		default:
			s.Logger.Error("inventory product lookup failed", "product_id", inv.ProductID, "err", err)
			return []domain.InventoryItem{}, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s InventoryService) GetProductsByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	items, err := s.Products.ListByStore(ctx, storeID)
	if err != nil {
		s.Logger.Error("list products failed", "store_id", storeID, "err", err)
		return []domain.Product{}, err
	}
	return items, nil
}

// GetProductByID returns nil, nil when the product does not exist.
func (s InventoryService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.Logger.Error("get product failed", "product_id", id, "err", err)
		return nil, err
	}
	return p, nil
}

// UpdateProduct merges the set fields into the product document.
func (s InventoryService) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) error {
	if upd.Price != nil && upd.Price.IsNegative() {
		return ErrNegativePrice
	}
	if err := s.Products.Update(ctx, id, upd); err != nil {
		s.Logger.Error("update product failed", "product_id", id, "err", err)
		return err
	}
	return nil
}
