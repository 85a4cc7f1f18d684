package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// KitchenServicer defines the service methods needed by the kitchen display.
// Satisfied by *service.KitchenService.
type KitchenServicer interface {
	Queue(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenQueueRow, error)
	MarkItemDone(ctx context.Context, itemRowID, restaurantID uuid.UUID) error
}

// KitchenHandler handles the kitchen display endpoints.
type KitchenHandler struct {
	svc KitchenServicer
}

func NewKitchenHandler(svc KitchenServicer) *KitchenHandler {
	return &KitchenHandler{svc: svc}
}

// RegisterRoutes registers KDS endpoints on the given Chi router.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.Items)
	r.Post("/item/{itemRowId}/done", h.MarkDone)
}

type kdsItemResponse struct {
	ItemRowID      uuid.UUID `json:"item_row_id"`
	LiveOrderID    uuid.UUID `json:"live_order_id"`
	OrderNo        int32     `json:"order_no"`
	OrderType      string    `json:"order_type"`
	ItemName       string    `json:"item_name"`
	SizeName       string    `json:"size_name,omitempty"`
	Qty            int32     `json:"qty"`
	MinutesElapsed float64   `json:"minutes_elapsed"`
}

// Items handles GET /kds/items.
func (h *KitchenHandler) Items(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	rows, err := h.svc.Queue(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: kitchen queue: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]kdsItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = kdsItemResponse{
			ItemRowID:      row.ID,
			LiveOrderID:    row.LiveOrderID,
			OrderNo:        row.OrderNo,
			OrderType:      row.OrderType,
			ItemName:       row.ItemName,
			SizeName:       row.SizeName.String,
			Qty:            row.Qty,
			MinutesElapsed: row.MinutesElapsed,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkDone handles POST /kds/item/{itemRowId}/done.
func (h *KitchenHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	itemRowID, err := uuid.Parse(chi.URLParam(r, "itemRowId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	if err := h.svc.MarkItemDone(r.Context(), itemRowID, claims.RestaurantID); err != nil {
		if errors.Is(err, service.ErrItemNotFoundOrDone) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: mark item done: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "done"})
}
