package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// DayEndServicer defines the service methods needed by day-end handlers.
// Satisfied by *service.DayEndService.
type DayEndServicer interface {
	Status(ctx context.Context, restaurantID uuid.UUID) (bool, error)
	Lock(ctx context.Context, restaurantID, managerID uuid.UUID) error
}

// DayEndHandler handles the business-day lock.
type DayEndHandler struct {
	svc DayEndServicer
}

func NewDayEndHandler(svc DayEndServicer) *DayEndHandler {
	return &DayEndHandler{svc: svc}
}

// Status handles GET /day-end/status.
func (h *DayEndHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	locked, err := h.svc.Status(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: day-end status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"locked": locked})
}

// Lock handles POST /day-end/lock. Manager only; the role is enforced by
// middleware on this route.
func (h *DayEndHandler) Lock(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	if err := h.svc.Lock(r.Context(), claims.RestaurantID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrDayAlreadyLocked),
			errors.Is(err, service.ErrOpenOrdersExist):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: day-end lock: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "locked"})
}
