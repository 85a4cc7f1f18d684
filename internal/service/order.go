package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/enum"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order lifecycle.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	FindEmptyOpenOrder(ctx context.Context, restaurantID uuid.UUID) (database.FindEmptyOpenOrderRow, error)
	IsDayLocked(ctx context.Context, restaurantID uuid.UUID) (bool, error)
	GetSequenceForUpdate(ctx context.Context, restaurantID uuid.UUID) (int32, error)
	UpdateSequence(ctx context.Context, arg database.UpdateSequenceParams) error
	CreateLiveOrder(ctx context.Context, arg database.CreateLiveOrderParams) (database.LiveOrder, error)
	GetLiveOrder(ctx context.Context, arg database.GetLiveOrderParams) (database.LiveOrder, error)
	CreateLiveOrderItem(ctx context.Context, arg database.CreateLiveOrderItemParams) (database.LiveOrderItem, error)
	DeactivateLiveOrderItem(ctx context.Context, arg database.ItemScopeParams) (int64, error)
	ListComboComponents(ctx context.Context, arg database.ItemScopeParams) ([]database.ComboItem, error)
	SendOrderToKitchen(ctx context.Context, arg database.GetLiveOrderParams) (int64, error)
	DispatchOrder(ctx context.Context, arg database.GetLiveOrderParams) (int64, error)
	UpdatePaymentStatus(ctx context.Context, arg database.UpdatePaymentStatusParams) (int64, error)
	ListBillItems(ctx context.Context, arg database.BillItemsParams) ([]database.BillItemRow, error)
	ListReadyOrderItems(ctx context.Context, restaurantID uuid.UUID) ([]database.ReadyOrderItemRow, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService owns the live order lifecycle up to dispatch: number
// allocation, item edits and the OPEN -> PUNCHED -> READY -> DISPATCHED
// transitions.
type OrderService struct {
	store    OrderStore
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(store OrderStore, pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{store: store, pool: pool, newStore: newStore}
}

type CreateLiveOrderRequest struct {
	RestaurantID   uuid.UUID
	CreatedBy      uuid.UUID
	OrderType      string
	CustomerName   string
	CustomerMobile string
	PaymentStatus  string
}

type CreateLiveOrderResult struct {
	LiveOrderID uuid.UUID
	OrderNo     int32
}

// CreateLiveOrder opens a new draft order. An existing empty, uncancelled
// OPEN order is returned unchanged so double taps on "new order" do not
// burn sequence numbers. Otherwise the day lock is checked and the next
// number allocated under the sequence row lock, all in one transaction with
// the insert.
func (s *OrderService) CreateLiveOrder(ctx context.Context, req CreateLiveOrderRequest) (*CreateLiveOrderResult, error) {
	switch req.OrderType {
	case enum.OrderTypeDineIn, enum.OrderTypeTakeaway, enum.OrderTypeDelivery:
	default:
		return nil, ErrInvalidOrderType
	}

	existing, err := s.store.FindEmptyOpenOrder(ctx, req.RestaurantID)
	if err == nil {
		return &CreateLiveOrderResult{LiveOrderID: existing.ID, OrderNo: existing.OrderNo}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find empty open order: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txStore := s.newStore(tx)

	locked, err := txStore.IsDayLocked(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("check day lock: %w", err)
	}
	if locked {
		return nil, ErrDayLocked
	}

	last, err := txStore.GetSequenceForUpdate(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSequenceNotConfigured
		}
		return nil, fmt.Errorf("lock order sequence: %w", err)
	}

	orderNo := last + 1
	if err := txStore.UpdateSequence(ctx, database.UpdateSequenceParams{
		RestaurantID: req.RestaurantID,
		LastOrderNo:  orderNo,
	}); err != nil {
		return nil, fmt.Errorf("update order sequence: %w", err)
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = enum.PaymentStatusUnpaid
	}

	order, err := txStore.CreateLiveOrder(ctx, database.CreateLiveOrderParams{
		RestaurantID:   req.RestaurantID,
		OrderNo:        orderNo,
		OrderType:      req.OrderType,
		CustomerName:   textOrNull(req.CustomerName),
		CustomerMobile: textOrNull(req.CustomerMobile),
		PaymentStatus:  paymentStatus,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create live order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateLiveOrderResult{LiveOrderID: order.ID, OrderNo: order.OrderNo}, nil
}

type AddItemRequest struct {
	LiveOrderID  uuid.UUID
	RestaurantID uuid.UUID
	ItemID       uuid.UUID
	SizeID       uuid.UUID // zero value means no size
	Qty          int32
}

// AddItem appends one line to a live order.
func (s *OrderService) AddItem(ctx context.Context, req AddItemRequest) (uuid.UUID, error) {
	if req.Qty <= 0 {
		return uuid.Nil, ErrInvalidQuantity
	}

	if _, err := s.store.GetLiveOrder(ctx, database.GetLiveOrderParams{
		ID:           req.LiveOrderID,
		RestaurantID: req.RestaurantID,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrOrderNotFound
		}
		return uuid.Nil, fmt.Errorf("get live order: %w", err)
	}

	item, err := s.store.CreateLiveOrderItem(ctx, database.CreateLiveOrderItemParams{
		LiveOrderID: req.LiveOrderID,
		ItemID:      req.ItemID,
		SizeID:      uuidOrNull(req.SizeID),
		Qty:         req.Qty,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create live order item: %w", err)
	}
	return item.ID, nil
}

type AddComboRequest struct {
	LiveOrderID  uuid.UUID
	RestaurantID uuid.UUID
	ComboID      uuid.UUID
	Qty          int32
}

// AddCombo expands a combo into its component item rows, multiplying the
// component quantity by the requested combo quantity. All rows are inserted
// in one transaction.
func (s *OrderService) AddCombo(ctx context.Context, req AddComboRequest) error {
	if req.Qty <= 0 {
		return ErrInvalidQuantity
	}

	if _, err := s.store.GetLiveOrder(ctx, database.GetLiveOrderParams{
		ID:           req.LiveOrderID,
		RestaurantID: req.RestaurantID,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("get live order: %w", err)
	}

	components, err := s.store.ListComboComponents(ctx, database.ItemScopeParams{
		ID:           req.ComboID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		return fmt.Errorf("list combo components: %w", err)
	}
	if len(components) == 0 {
		return ErrInvalidCombo
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txStore := s.newStore(tx)
	for _, ci := range components {
		if _, err := txStore.CreateLiveOrderItem(ctx, database.CreateLiveOrderItemParams{
			LiveOrderID: req.LiveOrderID,
			ItemID:      ci.ItemID,
			SizeID:      ci.SizeID,
			ComboID:     pgtype.UUID{Bytes: req.ComboID, Valid: true},
			Qty:         ci.Qty * req.Qty,
		}); err != nil {
			return fmt.Errorf("create combo item row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RemoveItem soft-deletes a line. The conditional update only succeeds while
// the owning order is OPEN and the item is still PENDING; zero rows affected
// means the item is no longer removable.
func (s *OrderService) RemoveItem(ctx context.Context, itemRowID, restaurantID uuid.UUID) error {
	affected, err := s.store.DeactivateLiveOrderItem(ctx, database.ItemScopeParams{
		ID:           itemRowID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}
	if affected == 0 {
		return ErrItemNotRemovable
	}
	return nil
}

// SendToKitchen moves OPEN -> PUNCHED, making items visible to the kitchen
// queue and freezing them against removal.
func (s *OrderService) SendToKitchen(ctx context.Context, liveOrderID, restaurantID uuid.UUID) error {
	affected, err := s.store.SendOrderToKitchen(ctx, database.GetLiveOrderParams{
		ID:           liveOrderID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return fmt.Errorf("send to kitchen: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotEligible
	}
	return nil
}

// Dispatch moves READY -> DISPATCHED and stamps the dispatch time.
func (s *OrderService) Dispatch(ctx context.Context, liveOrderID, restaurantID uuid.UUID) error {
	affected, err := s.store.DispatchOrder(ctx, database.GetLiveOrderParams{
		ID:           liveOrderID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return fmt.Errorf("dispatch order: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotReady
	}
	return nil
}

// UpdatePaymentStatus annotates the live order from the punch screen.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, liveOrderID, restaurantID uuid.UUID, status string) error {
	affected, err := s.store.UpdatePaymentStatus(ctx, database.UpdatePaymentStatusParams{
		ID:            liveOrderID,
		RestaurantID:  restaurantID,
		PaymentStatus: status,
	})
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

type BillLine struct {
	ItemRowID uuid.UUID
	ItemName  string
	SizeName  string
	Price     decimal.Decimal
	Qty       int32
}

type BillResult struct {
	Items          []BillLine
	Subtotal       decimal.Decimal
	DiscountType   string
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// GetBill returns the punch-screen view: active items with resolved prices,
// the live subtotal, and the stored discount applied to it.
func (s *OrderService) GetBill(ctx context.Context, liveOrderID, restaurantID uuid.UUID) (*BillResult, error) {
	order, err := s.store.GetLiveOrder(ctx, database.GetLiveOrderParams{
		ID:           liveOrderID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get live order: %w", err)
	}

	rows, err := s.store.ListBillItems(ctx, database.BillItemsParams{
		LiveOrderID:  liveOrderID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}

	result := &BillResult{Subtotal: decimal.Zero}
	for _, r := range rows {
		price := numericToDecimal(r.Price)
		result.Items = append(result.Items, BillLine{
			ItemRowID: r.ID,
			ItemName:  r.ItemName,
			SizeName:  r.SizeName.String,
			Price:     price,
			Qty:       r.Qty,
		})
		result.Subtotal = result.Subtotal.Add(price.Mul(decimal.NewFromInt32(r.Qty)))
	}

	result.DiscountType = order.DiscountType.String
	result.DiscountValue = numericToDecimal(order.DiscountValue)
	result.DiscountAmount = numericToDecimal(order.DiscountAmount)
	result.FinalAmount = result.Subtotal.Sub(result.DiscountAmount)
	if result.FinalAmount.IsNegative() {
		result.FinalAmount = decimal.Zero
	}
	return result, nil
}

type ReadyOrder struct {
	LiveOrderID uuid.UUID
	OrderNo     int32
	OrderType   string
	OpenedAt    time.Time
	Items       []ReadyOrderLine
}

type ReadyOrderLine struct {
	ItemName string
	SizeName string
	Qty      int32
}

// ReadyOrders returns the dispatch screen: READY orders with their items,
// grouped per order in order-number sequence.
func (s *OrderService) ReadyOrders(ctx context.Context, restaurantID uuid.UUID) ([]ReadyOrder, error) {
	rows, err := s.store.ListReadyOrderItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list ready orders: %w", err)
	}

	var out []ReadyOrder
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].LiveOrderID != r.LiveOrderID {
			out = append(out, ReadyOrder{
				LiveOrderID: r.LiveOrderID,
				OrderNo:     r.OrderNo,
				OrderType:   r.OrderType,
				OpenedAt:    r.OpenedAt,
			})
		}
		last := &out[len(out)-1]
		last.Items = append(last.Items, ReadyOrderLine{
			ItemName: r.ItemName,
			SizeName: r.SizeName.String,
			Qty:      r.Qty,
		})
	}
	return out, nil
}

// --- Helpers ---

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func uuidOrNull(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}
