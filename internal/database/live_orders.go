package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const liveOrderColumns = `id, restaurant_id, order_no, order_type, customer_name,
	customer_mobile, payment_status, order_status, discount_type, discount_value,
	discount_amount, discounted_by, opened_at, dispatched_at, cancelled_at,
	cancel_reason, cancelled_by, created_by`

func scanLiveOrder(row interface{ Scan(dest ...any) error }) (LiveOrder, error) {
	var o LiveOrder
	err := row.Scan(
		&o.ID, &o.RestaurantID, &o.OrderNo, &o.OrderType, &o.CustomerName,
		&o.CustomerMobile, &o.PaymentStatus, &o.OrderStatus, &o.DiscountType,
		&o.DiscountValue, &o.DiscountAmount, &o.DiscountedBy, &o.OpenedAt,
		&o.DispatchedAt, &o.CancelledAt, &o.CancelReason, &o.CancelledBy,
		&o.CreatedBy,
	)
	return o, err
}

type FindEmptyOpenOrderRow struct {
	ID      uuid.UUID
	OrderNo int32
}

// FindEmptyOpenOrder returns the newest uncancelled OPEN order that has no
// item rows yet. Used to collapse duplicate "new order" taps into one draft.
func (q *Queries) FindEmptyOpenOrder(ctx context.Context, restaurantID uuid.UUID) (FindEmptyOpenOrderRow, error) {
	const sql = `
		SELECT lo.id, lo.order_no
		FROM live_orders lo
		LEFT JOIN live_order_items li ON li.live_order_id = lo.id
		WHERE lo.restaurant_id = $1
		  AND lo.order_status = 'OPEN'
		  AND lo.cancelled_at IS NULL
		GROUP BY lo.id
		HAVING COUNT(li.id) = 0
		ORDER BY lo.opened_at DESC
		LIMIT 1`
	var r FindEmptyOpenOrderRow
	err := q.db.QueryRow(ctx, sql, restaurantID).Scan(&r.ID, &r.OrderNo)
	return r, err
}

// GetSequenceForUpdate locks the restaurant's sequence row and returns the
// last issued order number. pgx.ErrNoRows means the sequence was never
// configured for this restaurant.
func (q *Queries) GetSequenceForUpdate(ctx context.Context, restaurantID uuid.UUID) (int32, error) {
	const sql = `SELECT last_order_no FROM order_sequence WHERE restaurant_id = $1 FOR UPDATE`
	var last int32
	err := q.db.QueryRow(ctx, sql, restaurantID).Scan(&last)
	return last, err
}

type UpdateSequenceParams struct {
	RestaurantID uuid.UUID
	LastOrderNo  int32
}

func (q *Queries) UpdateSequence(ctx context.Context, arg UpdateSequenceParams) error {
	const sql = `UPDATE order_sequence SET last_order_no = $2 WHERE restaurant_id = $1`
	_, err := q.db.Exec(ctx, sql, arg.RestaurantID, arg.LastOrderNo)
	return err
}

type CreateLiveOrderParams struct {
	RestaurantID   uuid.UUID
	OrderNo        int32
	OrderType      string
	CustomerName   pgtype.Text
	CustomerMobile pgtype.Text
	PaymentStatus  string
	CreatedBy      uuid.UUID
}

func (q *Queries) CreateLiveOrder(ctx context.Context, arg CreateLiveOrderParams) (LiveOrder, error) {
	const sql = `
		INSERT INTO live_orders
			(restaurant_id, order_no, order_type, customer_name, customer_mobile,
			 payment_status, order_status, opened_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, 'OPEN', now(), $7)
		RETURNING ` + liveOrderColumns
	row := q.db.QueryRow(ctx, sql,
		arg.RestaurantID, arg.OrderNo, arg.OrderType, arg.CustomerName,
		arg.CustomerMobile, arg.PaymentStatus, arg.CreatedBy,
	)
	return scanLiveOrder(row)
}

type GetLiveOrderParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

func (q *Queries) GetLiveOrder(ctx context.Context, arg GetLiveOrderParams) (LiveOrder, error) {
	const sql = `SELECT ` + liveOrderColumns + `
		FROM live_orders WHERE id = $1 AND restaurant_id = $2`
	return scanLiveOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

// GetDispatchedOrderForUpdate locks the live order row for closing. Only
// returns a row when the order is exactly DISPATCHED, so a concurrent close
// observes pgx.ErrNoRows instead of double-materializing.
func (q *Queries) GetDispatchedOrderForUpdate(ctx context.Context, arg GetLiveOrderParams) (LiveOrder, error) {
	const sql = `SELECT ` + liveOrderColumns + `
		FROM live_orders
		WHERE id = $1 AND restaurant_id = $2 AND order_status = 'DISPATCHED'
		FOR UPDATE`
	return scanLiveOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

// SendOrderToKitchen moves OPEN -> PUNCHED. Returns the number of rows
// affected; zero signals the precondition failed.
func (q *Queries) SendOrderToKitchen(ctx context.Context, arg GetLiveOrderParams) (int64, error) {
	const sql = `
		UPDATE live_orders
		SET order_status = 'PUNCHED'
		WHERE id = $1 AND restaurant_id = $2
		  AND order_status = 'OPEN'
		  AND cancelled_at IS NULL`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.RestaurantID)
	return tag.RowsAffected(), err
}

// DispatchOrder moves READY -> DISPATCHED and stamps dispatched_at.
func (q *Queries) DispatchOrder(ctx context.Context, arg GetLiveOrderParams) (int64, error) {
	const sql = `
		UPDATE live_orders
		SET order_status = 'DISPATCHED', dispatched_at = now()
		WHERE id = $1 AND restaurant_id = $2
		  AND order_status = 'READY'`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.RestaurantID)
	return tag.RowsAffected(), err
}

// SetOrderReady promotes the order once the kitchen cascade has verified no
// pending items remain. Unconditional: callers hold the cascade transaction.
func (q *Queries) SetOrderReady(ctx context.Context, liveOrderID uuid.UUID) error {
	const sql = `UPDATE live_orders SET order_status = 'READY' WHERE id = $1`
	_, err := q.db.Exec(ctx, sql, liveOrderID)
	return err
}

type UpdatePaymentStatusParams struct {
	ID            uuid.UUID
	RestaurantID  uuid.UUID
	PaymentStatus string
}

func (q *Queries) UpdatePaymentStatus(ctx context.Context, arg UpdatePaymentStatusParams) (int64, error) {
	const sql = `
		UPDATE live_orders SET payment_status = $3
		WHERE id = $1 AND restaurant_id = $2`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.RestaurantID, arg.PaymentStatus)
	return tag.RowsAffected(), err
}

type UpdateLiveOrderDiscountParams struct {
	ID             uuid.UUID
	RestaurantID   uuid.UUID
	DiscountType   string
	DiscountValue  pgtype.Numeric
	DiscountAmount pgtype.Numeric
	DiscountedBy   uuid.UUID
}

func (q *Queries) UpdateLiveOrderDiscount(ctx context.Context, arg UpdateLiveOrderDiscountParams) (int64, error) {
	const sql = `
		UPDATE live_orders
		SET discount_type = $3, discount_value = $4, discount_amount = $5, discounted_by = $6
		WHERE id = $1 AND restaurant_id = $2`
	tag, err := q.db.Exec(ctx, sql,
		arg.ID, arg.RestaurantID, arg.DiscountType, arg.DiscountValue,
		arg.DiscountAmount, arg.DiscountedBy,
	)
	return tag.RowsAffected(), err
}

type MarkOrderCancelledParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	CancelReason pgtype.Text
	CancelledBy  uuid.UUID
}

func (q *Queries) MarkOrderCancelled(ctx context.Context, arg MarkOrderCancelledParams) (int64, error) {
	const sql = `
		UPDATE live_orders
		SET cancelled_at = now(), cancel_reason = $3, cancelled_by = $4
		WHERE id = $1 AND restaurant_id = $2`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.RestaurantID, arg.CancelReason, arg.CancelledBy)
	return tag.RowsAffected(), err
}

// ListDispatchedOrders returns orders waiting at the cashier, oldest first.
func (q *Queries) ListDispatchedOrders(ctx context.Context, restaurantID uuid.UUID) ([]LiveOrder, error) {
	const sql = `SELECT ` + liveOrderColumns + `
		FROM live_orders
		WHERE restaurant_id = $1 AND order_status = 'DISPATCHED'
		ORDER BY dispatched_at ASC`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []LiveOrder
	for rows.Next() {
		o, err := scanLiveOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListReadyOrders returns orders awaiting dispatch, oldest first.
func (q *Queries) ListReadyOrders(ctx context.Context, restaurantID uuid.UUID) ([]LiveOrder, error) {
	const sql = `SELECT ` + liveOrderColumns + `
		FROM live_orders
		WHERE restaurant_id = $1 AND order_status = 'READY'
		ORDER BY opened_at ASC`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []LiveOrder
	for rows.Next() {
		o, err := scanLiveOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (q *Queries) CountLiveOrders(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	const sql = `SELECT COUNT(*) FROM live_orders WHERE restaurant_id = $1`
	var n int64
	err := q.db.QueryRow(ctx, sql, restaurantID).Scan(&n)
	return n, err
}

func (q *Queries) DeleteLiveOrder(ctx context.Context, liveOrderID uuid.UUID) error {
	const sql = `DELETE FROM live_orders WHERE id = $1`
	_, err := q.db.Exec(ctx, sql, liveOrderID)
	return err
}
