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

// DiscountServicer defines the service method needed by the discount handler.
// Satisfied by *service.DiscountService.
type DiscountServicer interface {
	Apply(ctx context.Context, req service.ApplyDiscountRequest) (*service.DiscountResult, error)
}

// DiscountHandler handles order-level discounts. Manager only; the role is
// enforced by middleware on this route.
type DiscountHandler struct {
	svc DiscountServicer
}

func NewDiscountHandler(svc DiscountServicer) *DiscountHandler {
	return &DiscountHandler{svc: svc}
}

type applyDiscountRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type discountResponse struct {
	Subtotal       string `json:"subtotal"`
	DiscountType   string `json:"discount_type"`
	DiscountValue  string `json:"discount_value"`
	DiscountAmount string `json:"discount_amount"`
	FinalAmount    string `json:"final_amount"`
}

// Apply handles POST /orders/{orderId}/discount.
func (h *DiscountHandler) Apply(w http.ResponseWriter, r *http.Request) {
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

	var req applyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid discount value"})
		return
	}

	result, err := h.svc.Apply(r.Context(), service.ApplyDiscountRequest{
		LiveOrderID:  orderID,
		RestaurantID: claims.RestaurantID,
		ManagerID:    claims.UserID,
		Type:         req.Type,
		Value:        value,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrInvalidDiscountType),
			errors.Is(err, service.ErrInvalidDiscountValue),
			errors.Is(err, service.ErrDiscountExceedsOrder),
			errors.Is(err, service.ErrInvalidPercent),
			errors.Is(err, service.ErrEmptyOrder):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: apply discount: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, discountResponse{
		Subtotal:       moneyString(result.Subtotal),
		DiscountType:   result.DiscountType,
		DiscountValue:  moneyString(result.DiscountValue),
		DiscountAmount: moneyString(result.DiscountAmount),
		FinalAmount:    moneyString(result.FinalAmount),
	})
}
