package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/enum"
)

// DiscountStore defines the DB methods needed to apply a discount.
type DiscountStore interface {
	GetLiveOrder(ctx context.Context, arg database.GetLiveOrderParams) (database.LiveOrder, error)
	ListBillItems(ctx context.Context, arg database.BillItemsParams) ([]database.BillItemRow, error)
	UpdateLiveOrderDiscount(ctx context.Context, arg database.UpdateLiveOrderDiscountParams) (int64, error)
}

// DiscountService computes and persists order-level discounts. The handler
// enforces the manager-only restriction before calling in.
type DiscountService struct {
	store DiscountStore
}

func NewDiscountService(store DiscountStore) *DiscountService {
	return &DiscountService{store: store}
}

type ApplyDiscountRequest struct {
	LiveOrderID  uuid.UUID
	RestaurantID uuid.UUID
	ManagerID    uuid.UUID
	Type         string
	Value        decimal.Decimal
}

type DiscountResult struct {
	Subtotal       decimal.Decimal
	DiscountType   string
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// Apply validates the discount against the live subtotal and stores the
// computed amount on the order. The subtotal is recomputed from current
// items on every call, so reapplying with the same inputs after an item
// change yields the amount the new subtotal implies, and the stored amount
// is what the close operation later trusts.
func (s *DiscountService) Apply(ctx context.Context, req ApplyDiscountRequest) (*DiscountResult, error) {
	if req.Type != enum.DiscountTypeValue && req.Type != enum.DiscountTypePercent {
		return nil, ErrInvalidDiscountType
	}
	if !req.Value.IsPositive() {
		return nil, ErrInvalidDiscountValue
	}

	order, err := s.store.GetLiveOrder(ctx, database.GetLiveOrderParams{
		ID:           req.LiveOrderID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get live order: %w", err)
	}
	if order.CancelledAt.Valid {
		return nil, ErrOrderNotFound
	}

	items, err := s.store.ListBillItems(ctx, database.BillItemsParams{
		LiveOrderID:  req.LiveOrderID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(numericToDecimal(it.Price).Mul(decimal.NewFromInt32(it.Qty)))
	}
	if !subtotal.IsPositive() {
		return nil, ErrEmptyOrder
	}

	var discountAmount decimal.Decimal
	switch req.Type {
	case enum.DiscountTypeValue:
		if req.Value.GreaterThan(subtotal) {
			return nil, ErrDiscountExceedsOrder
		}
		discountAmount = req.Value
	case enum.DiscountTypePercent:
		if req.Value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, ErrInvalidPercent
		}
		discountAmount = subtotal.Mul(req.Value).Div(decimal.NewFromInt(100))
	}

	affected, err := s.store.UpdateLiveOrderDiscount(ctx, database.UpdateLiveOrderDiscountParams{
		ID:             req.LiveOrderID,
		RestaurantID:   req.RestaurantID,
		DiscountType:   req.Type,
		DiscountValue:  decimalToNumeric(req.Value),
		DiscountAmount: decimalToNumeric(discountAmount),
		DiscountedBy:   req.ManagerID,
	})
	if err != nil {
		return nil, fmt.Errorf("update discount: %w", err)
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}

	return &DiscountResult{
		Subtotal:       subtotal,
		DiscountType:   req.Type,
		DiscountValue:  req.Value,
		DiscountAmount: discountAmount,
		FinalAmount:    subtotal.Sub(discountAmount),
	}, nil
}
