package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// CashierServicer defines the service methods needed by cashier handlers.
// Satisfied by *service.CashierService.
type CashierServicer interface {
	PendingOrders(ctx context.Context, restaurantID uuid.UUID) ([]database.LiveOrder, error)
	CloseOrder(ctx context.Context, req service.CloseOrderRequest) (*service.CloseResult, error)
	CancelOrder(ctx context.Context, req service.CancelOrderRequest) error
}

// CashierHandler handles settlement and cancellation.
type CashierHandler struct {
	svc CashierServicer
}

func NewCashierHandler(svc CashierServicer) *CashierHandler {
	return &CashierHandler{svc: svc}
}

type pendingOrderResponse struct {
	LiveOrderID    uuid.UUID `json:"live_order_id"`
	OrderNo        int32     `json:"order_no"`
	OrderType      string    `json:"order_type"`
	CustomerName   string    `json:"customer_name,omitempty"`
	PaymentStatus  string    `json:"payment_status"`
	DiscountAmount string    `json:"discount_amount"`
	OpenedAt       time.Time `json:"opened_at"`
	DispatchedAt   time.Time `json:"dispatched_at"`
}

// Pending handles GET /orders/pending.
func (h *CashierHandler) Pending(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orders, err := h.svc.PendingOrders(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: pending orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]pendingOrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = pendingOrderResponse{
			LiveOrderID:    o.ID,
			OrderNo:        o.OrderNo,
			OrderType:      o.OrderType,
			CustomerName:   o.CustomerName.String,
			PaymentStatus:  o.PaymentStatus,
			DiscountAmount: numericToString(o.DiscountAmount),
			OpenedAt:       o.OpenedAt,
			DispatchedAt:   o.DispatchedAt.Time,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type closeOrderRequest struct {
	Payments []closePaymentRequest `json:"payments"`
}

type closePaymentRequest struct {
	TenderID string `json:"tender_id"`
	Amount   string `json:"amount"`
}

type closeOrderResponse struct {
	OrderID        uuid.UUID `json:"order_id"`
	OrderNo        int32     `json:"order_no"`
	Subtotal       string    `json:"subtotal"`
	DiscountAmount string    `json:"discount_amount"`
	NetAmount      string    `json:"net_amount"`
}

// Close handles POST /orders/{orderId}/close.
func (h *CashierHandler) Close(w http.ResponseWriter, r *http.Request) {
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

	var req closeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	payments := make([]service.PaymentEntry, len(req.Payments))
	for i, p := range req.Payments {
		tenderID, err := uuid.Parse(p.TenderID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tender_id"})
			return
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment amount"})
			return
		}
		payments[i] = service.PaymentEntry{TenderID: tenderID, Amount: amount}
	}

	result, err := h.svc.CloseOrder(r.Context(), service.CloseOrderRequest{
		LiveOrderID:  orderID,
		RestaurantID: claims.RestaurantID,
		CashierID:    claims.UserID,
		Payments:     payments,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentRequired),
			errors.Is(err, service.ErrInvalidPayment),
			errors.Is(err, service.ErrPaymentMismatch),
			errors.Is(err, service.ErrEmptyOrder):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotReadyToClose):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: close order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, closeOrderResponse{
		OrderID:        result.OrderID,
		OrderNo:        result.OrderNo,
		Subtotal:       moneyString(result.Subtotal),
		DiscountAmount: moneyString(result.DiscountAmount),
		NetAmount:      moneyString(result.NetAmount),
	})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /orders/{orderId}/cancel. Manager only; the role is
// enforced by middleware on this route.
func (h *CashierHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	var req cancelOrderRequest
	if r.Body != nil {
		// Reason is optional; ignore body decode errors for an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.svc.CancelOrder(r.Context(), service.CancelOrderRequest{
		LiveOrderID:  orderID,
		RestaurantID: claims.RestaurantID,
		ManagerID:    claims.UserID,
		Reason:       req.Reason,
	}); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: cancel order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
