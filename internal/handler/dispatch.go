package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// DispatchServicer defines the service methods needed by the dispatch screen.
// Satisfied by *service.OrderService.
type DispatchServicer interface {
	ReadyOrders(ctx context.Context, restaurantID uuid.UUID) ([]service.ReadyOrder, error)
	Dispatch(ctx context.Context, liveOrderID, restaurantID uuid.UUID) error
}

// DispatchHandler handles the hand-off of ready orders.
type DispatchHandler struct {
	svc DispatchServicer
}

func NewDispatchHandler(svc DispatchServicer) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

// RegisterRoutes registers dispatch endpoints on the given Chi router.
func (h *DispatchHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Post("/order/{orderId}", h.Dispatch)
}

type readyOrderResponse struct {
	LiveOrderID uuid.UUID           `json:"live_order_id"`
	OrderNo     int32               `json:"order_no"`
	OrderType   string              `json:"order_type"`
	OpenedAt    time.Time           `json:"opened_at"`
	Items       []readyItemResponse `json:"items"`
}

type readyItemResponse struct {
	ItemName string `json:"item_name"`
	SizeName string `json:"size_name,omitempty"`
	Qty      int32  `json:"qty"`
}

// List handles GET /dispatch/orders.
func (h *DispatchHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orders, err := h.svc.ReadyOrders(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list ready orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]readyOrderResponse, len(orders))
	for i, o := range orders {
		items := make([]readyItemResponse, len(o.Items))
		for j, it := range o.Items {
			items[j] = readyItemResponse{ItemName: it.ItemName, SizeName: it.SizeName, Qty: it.Qty}
		}
		resp[i] = readyOrderResponse{
			LiveOrderID: o.LiveOrderID,
			OrderNo:     o.OrderNo,
			OrderType:   o.OrderType,
			OpenedAt:    o.OpenedAt,
			Items:       items,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Dispatch handles POST /dispatch/order/{orderId}.
func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if err := h.svc.Dispatch(r.Context(), orderID, claims.RestaurantID); err != nil {
		if errors.Is(err, service.ErrOrderNotReady) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: dispatch order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}
