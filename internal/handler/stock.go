package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/server/authctx"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

// OwnerHistoryLimit is how many movements the owner's stock page asks for.
const OwnerHistoryLimit = 100

type StockHandler struct {
	Service service.InventoryService
}

// RegisterRoutes expects to be mounted under /stores/{storeID}.
func (h StockHandler) RegisterRoutes(r chi.Router) {
	r.Post("/stock/adjust", h.adjust)
	r.Get("/movements", h.movements)
	r.Get("/movements/export", h.exportMovements)
	r.Get("/inventory/export", h.exportInventory)
}

func (h StockHandler) adjust(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		ProductID string `json:"productId" validate:"required"`
		Change    int    `json:"change"`
		Reason    string `json:"reason"`
	}
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Reason == "" {
		req.Reason = domain.ReasonManualAdjust
	}
	storeID := chi.URLParam(r, "storeID")
	p, err := h.Service.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if p == nil || p.StoreID != storeID {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	qty, err := h.Service.AdjustStock(r.Context(), service.AdjustStockInput{
		ProductID: req.ProductID,
		StoreID:   storeID,
		Change:    req.Change,
		Reason:    req.Reason,
		UserEmail: user.Email,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"productId": req.ProductID,
		"quantity":  qty,
	})
}

func (h StockHandler) movements(w http.ResponseWriter, r *http.Request) {
	limit := OwnerHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	items, err := h.Service.GetMovementsByStore(r.Context(), chi.URLParam(r, "storeID"), limit)
	degraded := errors.Is(err, service.ErrHistoryDegraded)
	if err != nil && !degraded {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, m := range items {
		resp = append(resp, map[string]any{
			"id":          m.ID,
			"productId":   m.ProductID,
			"productName": m.ProductName,
			"change":      m.Change,
			"reason":      m.Reason,
			"user":        m.User,
			"timestamp":   formatTime(m.Timestamp),
		})
	}
	payload := map[string]any{"items": resp, "degraded": degraded}
	if degraded {
		writeJSONMessage(w, http.StatusOK, "movement history is unavailable until the index is created", payload)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h StockHandler) exportMovements(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	items, err := h.Service.GetMovementsByStore(r.Context(), storeID, 2000)
	if err != nil && !errors.Is(err, service.ErrHistoryDegraded) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	data, err := exportMovementsCSV(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"movements_%s.csv\"", time.Now().Format("20060102_150405")))
	_, _ = w.Write(data)
}

func (h StockHandler) exportInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetInventoryForStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	data, err := exportInventoryXLSX(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"inventory_%s.xlsx\"", time.Now().Format("20060102_150405")))
	_, _ = w.Write(data)
}

func exportMovementsCSV(items []domain.MovementEntry) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "timestamp", "product_id", "product_name", "change", "reason", "user"})
	for _, m := range items {
		_ = w.Write([]string{
			m.ID,
			formatTime(m.Timestamp),
			m.ProductID,
			derefString(m.ProductName),
			strconv.Itoa(m.Change),
			m.Reason,
			m.User,
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportInventoryXLSX(items []domain.InventoryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Inventory"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Product ID", "SKU", "Name", "Quantity"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, it := range items {
		values := []any{it.ProductID, it.SKU, it.Name, it.Quantity}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 28)
	_ = f.SetColWidth(sheet, "D", "D", 10)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F28C4F"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "D1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
