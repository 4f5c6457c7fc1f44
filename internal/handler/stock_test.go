package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository/memory"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type indexlessMovements struct{ memory.Movements }

func (indexlessMovements) ListByStore(context.Context, string, int) ([]domain.Movement, error) {
	return nil, status.Error(codes.FailedPrecondition, "The query requires an index")
}

func newInventory(mem *memory.DB) service.InventoryService {
	return service.InventoryService{
		Products:  mem.Products(),
		Inventory: mem.Inventory(),
		Movements: mem.Movements(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func serveStock(h StockHandler, method, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/stores/{storeID}", h.RegisterRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestStockHandler_DegradedHistory(t *testing.T) {
	svc := newInventory(memory.New())
	svc.Movements = indexlessMovements{memory.New().Movements()}

	rec := serveStock(StockHandler{Service: svc}, http.MethodGet, "/stores/s1/movements")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string
		Message string
		Data    struct {
			Items    []map[string]any
			Degraded bool
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Data.Degraded)
	assert.Empty(t, body.Data.Items)
	assert.NotEmpty(t, body.Message)
}

func TestStockHandler_Exports(t *testing.T) {
	mem := memory.New()
	svc := newInventory(mem)
	id, err := svc.CreateProduct(context.Background(), service.CreateProductInput{StoreID: "s1", SKU: "W1", Name: "Widget", InitialQuantity: 4})
	require.NoError(t, err)
	h := StockHandler{Service: svc}

	rec := serveStock(h, http.MethodGet, "/stores/s1/movements/export")
	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "timestamp", "product_id", "product_name", "change", "reason", "user"}, rows[0])
	assert.Equal(t, id, rows[1][2])
	assert.Equal(t, "Widget", rows[1][3])
	assert.Equal(t, "4", rows[1][4])
	assert.Equal(t, domain.ReasonInitial, rows[1][5])

	rec = serveStock(h, http.MethodGet, "/stores/s1/inventory/export")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	sheet, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, sheet, 2)
	assert.Equal(t, []string{id, "W1", "Widget", "4"}, sheet[1])
}

func TestDecodeJSON_ValidationMessage(t *testing.T) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=manager cashier"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"nope","role":"owner"}`))
	msg, ok := decodeJSON(r, &req)
	assert.False(t, ok)
	assert.Equal(t, "email must be an email; role must be one of [manager cashier]", msg)

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
	msg, ok = decodeJSON(r, &req)
	assert.False(t, ok)
	assert.Equal(t, "invalid payload", msg)
}
