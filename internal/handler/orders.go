package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateLiveOrder(ctx context.Context, req service.CreateLiveOrderRequest) (*service.CreateLiveOrderResult, error)
	AddItem(ctx context.Context, req service.AddItemRequest) (uuid.UUID, error)
	AddCombo(ctx context.Context, req service.AddComboRequest) error
	RemoveItem(ctx context.Context, itemRowID, restaurantID uuid.UUID) error
	SendToKitchen(ctx context.Context, liveOrderID, restaurantID uuid.UUID) error
	UpdatePaymentStatus(ctx context.Context, liveOrderID, restaurantID uuid.UUID, status string) error
	GetBill(ctx context.Context, liveOrderID, restaurantID uuid.UUID) (*service.BillResult, error)
}

// OrderHandler handles live order endpoints up to the kitchen hand-off.
type OrderHandler struct {
	svc OrderServicer
}

func NewOrderHandler(svc OrderServicer) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes registers live order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/live", h.Create)
	r.Get("/live/{orderId}", h.GetBill)
	r.Post("/live/{orderId}/item", h.AddItem)
	r.Post("/live/{orderId}/combo", h.AddCombo)
	r.Delete("/live/item/{id}", h.RemoveItem)
	r.Patch("/live/{orderId}/payment", h.UpdatePaymentStatus)
	r.Post("/{orderId}/send-to-kitchen", h.SendToKitchen)
}

type createLiveOrderRequest struct {
	OrderType      string `json:"order_type"`
	CustomerName   string `json:"customer_name"`
	CustomerMobile string `json:"customer_mobile"`
	PaymentStatus  string `json:"payment_status"`
}

type createLiveOrderResponse struct {
	LiveOrderID uuid.UUID `json:"live_order_id"`
	OrderNo     int32     `json:"order_no"`
}

// Create handles POST /orders/live.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createLiveOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.CreateLiveOrder(r.Context(), service.CreateLiveOrderRequest{
		RestaurantID:   claims.RestaurantID,
		CreatedBy:      claims.UserID,
		OrderType:      req.OrderType,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		PaymentStatus:  req.PaymentStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderType):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrDayLocked):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrSequenceNotConfigured):
			log.Printf("ERROR: create live order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: create live order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, createLiveOrderResponse{
		LiveOrderID: result.LiveOrderID,
		OrderNo:     result.OrderNo,
	})
}

type billLineResponse struct {
	ItemRowID uuid.UUID `json:"item_row_id"`
	ItemName  string    `json:"item_name"`
	SizeName  string    `json:"size_name,omitempty"`
	Price     string    `json:"price"`
	Qty       int32     `json:"qty"`
}

type billResponse struct {
	Items          []billLineResponse `json:"items"`
	Subtotal       string             `json:"subtotal"`
	DiscountType   string             `json:"discount_type,omitempty"`
	DiscountValue  string             `json:"discount_value,omitempty"`
	DiscountAmount string             `json:"discount_amount"`
	FinalAmount    string             `json:"final_amount"`
}

// GetBill handles GET /orders/live/{orderId}.
func (h *OrderHandler) GetBill(w http.ResponseWriter, r *http.Request) {
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

	bill, err := h.svc.GetBill(r.Context(), orderID, claims.RestaurantID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get bill: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

func toBillResponse(bill *service.BillResult) billResponse {
	resp := billResponse{
		Subtotal:       moneyString(bill.Subtotal),
		DiscountType:   bill.DiscountType,
		DiscountAmount: moneyString(bill.DiscountAmount),
		FinalAmount:    moneyString(bill.FinalAmount),
	}
	if !bill.DiscountValue.Equal(decimal.Zero) {
		resp.DiscountValue = moneyString(bill.DiscountValue)
	}
	for _, line := range bill.Items {
		resp.Items = append(resp.Items, billLineResponse{
			ItemRowID: line.ItemRowID,
			ItemName:  line.ItemName,
			SizeName:  line.SizeName,
			Price:     moneyString(line.Price),
			Qty:       line.Qty,
		})
	}
	return resp
}

type addItemRequest struct {
	ItemID string `json:"item_id"`
	SizeID string `json:"size_id"`
	Qty    int32  `json:"qty"`
}

// AddItem handles POST /orders/live/{orderId}/item.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
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

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		return
	}

	var sizeID uuid.UUID
	if req.SizeID != "" {
		sizeID, err = uuid.Parse(req.SizeID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size_id"})
			return
		}
	}

	rowID, err := h.svc.AddItem(r.Context(), service.AddItemRequest{
		LiveOrderID:  orderID,
		RestaurantID: claims.RestaurantID,
		ItemID:       itemID,
		SizeID:       sizeID,
		Qty:          req.Qty,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		default:
			log.Printf("ERROR: add item: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"item_row_id": rowID.String()})
}

type addComboRequest struct {
	ComboID string `json:"combo_id"`
	Qty     int32  `json:"qty"`
}

// AddCombo handles POST /orders/live/{orderId}/combo.
func (h *OrderHandler) AddCombo(w http.ResponseWriter, r *http.Request) {
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

	var req addComboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	comboID, err := uuid.Parse(req.ComboID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo_id"})
		return
	}

	if err := h.svc.AddCombo(r.Context(), service.AddComboRequest{
		LiveOrderID:  orderID,
		RestaurantID: claims.RestaurantID,
		ComboID:      comboID,
		Qty:          req.Qty,
	}); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrInvalidCombo):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		default:
			log.Printf("ERROR: add combo: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveItem handles DELETE /orders/live/item/{id}.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	itemRowID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	if err := h.svc.RemoveItem(r.Context(), itemRowID, claims.RestaurantID); err != nil {
		if errors.Is(err, service.ErrItemNotRemovable) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: remove item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// SendToKitchen handles POST /orders/{orderId}/send-to-kitchen.
func (h *OrderHandler) SendToKitchen(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.SendToKitchen(r.Context(), orderID, claims.RestaurantID); err != nil {
		if errors.Is(err, service.ErrOrderNotEligible) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: send to kitchen: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "punched"})
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// UpdatePaymentStatus handles PATCH /orders/live/{orderId}/payment.
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
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

	var req updatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PaymentStatus == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_status is required"})
		return
	}

	if err := h.svc.UpdatePaymentStatus(r.Context(), orderID, claims.RestaurantID, req.PaymentStatus); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update payment status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
