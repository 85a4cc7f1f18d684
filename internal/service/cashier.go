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

// CashierStore defines the DB methods used to settle or cancel an order.
type CashierStore interface {
	GetDispatchedOrderForUpdate(ctx context.Context, arg database.GetLiveOrderParams) (database.LiveOrder, error)
	ListItemsForClose(ctx context.Context, liveOrderID uuid.UUID) ([]database.CloseItemRow, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) error
	CreateOrderPayment(ctx context.Context, arg database.CreateOrderPaymentParams) error
	CreateTimelineEvent(ctx context.Context, arg database.CreateTimelineEventParams) error
	MarkOrderCancelled(ctx context.Context, arg database.MarkOrderCancelledParams) (int64, error)
	DeleteLiveOrderItems(ctx context.Context, liveOrderID uuid.UUID) error
	DeleteLiveOrder(ctx context.Context, liveOrderID uuid.UUID) error
	ListDispatchedOrders(ctx context.Context, restaurantID uuid.UUID) ([]database.LiveOrder, error)
}

// NewCashierStore creates a CashierStore from a DBTX (pool or tx).
type NewCashierStore func(db database.DBTX) CashierStore

// CashierService settles dispatched orders into sales history and handles
// cancellation of live orders.
type CashierService struct {
	store    CashierStore
	pool     TxBeginner
	newStore NewCashierStore
}

func NewCashierService(store CashierStore, pool TxBeginner, newStore NewCashierStore) *CashierService {
	return &CashierService{store: store, pool: pool, newStore: newStore}
}

// PendingOrders returns dispatched orders waiting at the cashier.
func (s *CashierService) PendingOrders(ctx context.Context, restaurantID uuid.UUID) ([]database.LiveOrder, error) {
	orders, err := s.store.ListDispatchedOrders(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list dispatched orders: %w", err)
	}
	return orders, nil
}

type PaymentEntry struct {
	TenderID uuid.UUID
	Amount   decimal.Decimal
}

type CloseOrderRequest struct {
	LiveOrderID  uuid.UUID
	RestaurantID uuid.UUID
	CashierID    uuid.UUID
	Payments     []PaymentEntry
}

type CloseResult struct {
	OrderID        uuid.UUID
	OrderNo        int32
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	NetAmount      decimal.Decimal
}

// CloseOrder settles a DISPATCHED order: it freezes the bill into the orders
// history tables, records the payment split, and removes the live rows. The
// whole move runs in one transaction behind a row lock on the live order, so
// a concurrent close of the same order finds no DISPATCHED row and fails
// without writing anything.
func (s *CashierService) CloseOrder(ctx context.Context, req CloseOrderRequest) (*CloseResult, error) {
	if len(req.Payments) == 0 {
		return nil, ErrPaymentRequired
	}
	paid := decimal.Zero
	for _, p := range req.Payments {
		if p.TenderID == uuid.Nil || !p.Amount.IsPositive() {
			return nil, ErrInvalidPayment
		}
		paid = paid.Add(p.Amount)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	live, err := store.GetDispatchedOrderForUpdate(ctx, database.GetLiveOrderParams{
		ID:           req.LiveOrderID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotReadyToClose
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}

	items, err := store.ListItemsForClose(ctx, live.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	subtotal := decimal.Zero
	// A size-less line joins no price row; it counts as zero, same as the bill.
	rates := make([]decimal.Decimal, len(items))
	lineTotals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		rates[i] = numericToDecimal(it.Price)
		lineTotals[i] = rates[i].Mul(decimal.NewFromInt32(it.Qty))
		subtotal = subtotal.Add(lineTotals[i])
	}

	// The discount amount stored at apply time is authoritative; it is not
	// recomputed from type and value here.
	discount := numericToDecimal(live.DiscountAmount)
	net := subtotal.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	if !paid.Round(minorUnitPlaces).Equal(net.Round(minorUnitPlaces)) {
		return nil, ErrPaymentMismatch
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		RestaurantID:   live.RestaurantID,
		OrderNo:        live.OrderNo,
		OrderType:      live.OrderType,
		CustomerName:   live.CustomerName,
		CustomerMobile: live.CustomerMobile,
		PaymentStatus:  enum.PaymentStatusPaid,
		OpenedAt:       live.OpenedAt,
		ClosedBy:       req.CashierID,
		TotalAmount:    decimalToNumeric(subtotal),
		DiscountType:   live.DiscountType,
		DiscountValue:  live.DiscountValue,
		DiscountAmount: decimalToNumeric(discount),
		DiscountedBy:   live.DiscountedBy,
		NetAmount:      decimalToNumeric(net),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	cumTotal := decimal.Zero
	allocated := decimal.Zero
	for i, it := range items {
		lineTotal := lineTotals[i]
		// Order-level discount spread per item, weighted by its share of
		// the subtotal. Each line gets the rounded cumulative share minus
		// what earlier lines took, so the line finals sum to the order net
		// with no rounding drift.
		lineDiscount := decimal.Zero
		if discount.IsPositive() && subtotal.IsPositive() {
			cumTotal = cumTotal.Add(lineTotal)
			target := cumTotal.Div(subtotal).Mul(discount).Round(minorUnitPlaces)
			lineDiscount = target.Sub(allocated)
			allocated = target
		}
		lineFinal := lineTotal.Sub(lineDiscount)
		if lineFinal.IsNegative() {
			lineFinal = decimal.Zero
		}
		rate := decimalToNumeric(rates[i])
		if err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:        order.ID,
			ItemID:         it.ItemID,
			ComboID:        it.ComboID,
			SizeID:         it.SizeID,
			Qty:            it.Qty,
			Rate:           rate,
			OriginalRate:   rate,
			Amount:         decimalToNumeric(lineTotal),
			DiscountAmount: decimalToNumeric(lineDiscount),
			FinalAmount:    decimalToNumeric(lineFinal),
			AddedAt:        it.AddedAt,
			KitchenDoneAt:  it.KitchenDoneAt,
		}); err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}

	for _, p := range req.Payments {
		if err := store.CreateOrderPayment(ctx, database.CreateOrderPaymentParams{
			OrderID:  order.ID,
			TenderID: p.TenderID,
			Amount:   decimalToNumeric(p.Amount),
		}); err != nil {
			return nil, fmt.Errorf("create payment: %w", err)
		}
	}

	if err := store.CreateTimelineEvent(ctx, database.CreateTimelineEventParams{
		OrderID: order.ID,
		Event:   enum.TimelineEventClosed,
	}); err != nil {
		return nil, fmt.Errorf("create timeline event: %w", err)
	}

	if err := store.DeleteLiveOrderItems(ctx, live.ID); err != nil {
		return nil, fmt.Errorf("delete live items: %w", err)
	}
	if err := store.DeleteLiveOrder(ctx, live.ID); err != nil {
		return nil, fmt.Errorf("delete live order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CloseResult{
		OrderID:        order.ID,
		OrderNo:        order.OrderNo,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		NetAmount:      net,
	}, nil
}

type CancelOrderRequest struct {
	LiveOrderID  uuid.UUID
	RestaurantID uuid.UUID
	ManagerID    uuid.UUID
	Reason       string
}

// CancelOrder voids a live order at any stage before close. Nothing is
// written to sales history; the live rows are simply removed after the
// cancellation stamp confirms the order exists in this restaurant.
func (s *CashierService) CancelOrder(ctx context.Context, req CancelOrderRequest) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	affected, err := store.MarkOrderCancelled(ctx, database.MarkOrderCancelledParams{
		ID:           req.LiveOrderID,
		RestaurantID: req.RestaurantID,
		CancelReason: textOrNull(req.Reason),
		CancelledBy:  req.ManagerID,
	})
	if err != nil {
		return fmt.Errorf("mark cancelled: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	if err := store.DeleteLiveOrderItems(ctx, req.LiveOrderID); err != nil {
		return fmt.Errorf("delete live items: %w", err)
	}
	if err := store.DeleteLiveOrder(ctx, req.LiveOrderID); err != nil {
		return fmt.Errorf("delete live order: %w", err)
	}

	return tx.Commit(ctx)
}
