package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/api/internal/enum"
	"github.com/dhaba-pos/api/internal/handler"
	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

type mockDiscountServicer struct {
	applyFn func(ctx context.Context, req service.ApplyDiscountRequest) (*service.DiscountResult, error)
}

func (m *mockDiscountServicer) Apply(ctx context.Context, req service.ApplyDiscountRequest) (*service.DiscountResult, error) {
	return m.applyFn(ctx, req)
}

func setupDiscountRouter(svc *mockDiscountServicer) *chi.Mux {
	h := handler.NewDiscountHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.RoleManager))
		r.Post("/api/orders/{orderId}/discount", h.Apply)
	})
	return r
}

func TestApplyDiscount_HappyPath(t *testing.T) {
	svc := &mockDiscountServicer{
		applyFn: func(ctx context.Context, req service.ApplyDiscountRequest) (*service.DiscountResult, error) {
			if req.Type != "PERCENT" {
				t.Errorf("type: got %q, want PERCENT", req.Type)
			}
			return &service.DiscountResult{
				Subtotal:       decimal.RequireFromString("400"),
				DiscountType:   "PERCENT",
				DiscountValue:  decimal.RequireFromString("10"),
				DiscountAmount: decimal.RequireFromString("40"),
				FinalAmount:    decimal.RequireFromString("360"),
			}, nil
		},
	}
	router := setupDiscountRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/api/orders/"+uuid.NewString()+"/discount",
		map[string]string{"type": "PERCENT", "value": "10"},
		testClaims(uuid.New(), enum.RoleManager))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["discount_amount"] != "40.00" {
		t.Errorf("discount_amount: got %v, want 40.00", resp["discount_amount"])
	}
	if resp["final_amount"] != "360.00" {
		t.Errorf("final_amount: got %v, want 360.00", resp["final_amount"])
	}
}

func TestApplyDiscount_RequiresManagerRole(t *testing.T) {
	router := setupDiscountRouter(&mockDiscountServicer{})

	rr := doAuthRequest(t, router, "POST", "/api/orders/"+uuid.NewString()+"/discount",
		map[string]string{"type": "VALUE", "value": "50"},
		testClaims(uuid.New(), enum.RoleCashier))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestApplyDiscount_ExceedsOrder(t *testing.T) {
	svc := &mockDiscountServicer{
		applyFn: func(ctx context.Context, req service.ApplyDiscountRequest) (*service.DiscountResult, error) {
			return nil, service.ErrDiscountExceedsOrder
		},
	}
	router := setupDiscountRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/api/orders/"+uuid.NewString()+"/discount",
		map[string]string{"type": "VALUE", "value": "9999"},
		testClaims(uuid.New(), enum.RoleManager))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestApplyDiscount_BadValue(t *testing.T) {
	router := setupDiscountRouter(&mockDiscountServicer{})

	rr := doAuthRequest(t, router, "POST", "/api/orders/"+uuid.NewString()+"/discount",
		map[string]string{"type": "VALUE", "value": "ten"},
		testClaims(uuid.New(), enum.RoleManager))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
