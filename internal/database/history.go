package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateOrderParams struct {
	RestaurantID   uuid.UUID
	OrderNo        int32
	OrderType      string
	CustomerName   pgtype.Text
	CustomerMobile pgtype.Text
	PaymentStatus  string
	OpenedAt       time.Time
	ClosedBy       uuid.UUID
	TotalAmount    pgtype.Numeric
	DiscountType   pgtype.Text
	DiscountValue  pgtype.Numeric
	DiscountAmount pgtype.Numeric
	DiscountedBy   pgtype.UUID
	NetAmount      pgtype.Numeric
}

// CreateOrder inserts the immutable historical order row and returns it.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	const sql = `
		INSERT INTO orders
			(restaurant_id, order_no, order_type, customer_name, customer_mobile,
			 payment_status, opened_at, closed_at, closed_by, total_amount,
			 discount_type, discount_value, discount_amount, discounted_by, net_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, restaurant_id, order_no, order_type, customer_name,
			customer_mobile, payment_status, opened_at, closed_at, closed_by,
			total_amount, discount_type, discount_value, discount_amount,
			discounted_by, net_amount`
	var o Order
	err := q.db.QueryRow(ctx, sql,
		arg.RestaurantID, arg.OrderNo, arg.OrderType, arg.CustomerName,
		arg.CustomerMobile, arg.PaymentStatus, arg.OpenedAt, arg.ClosedBy,
		arg.TotalAmount, arg.DiscountType, arg.DiscountValue, arg.DiscountAmount,
		arg.DiscountedBy, arg.NetAmount,
	).Scan(
		&o.ID, &o.RestaurantID, &o.OrderNo, &o.OrderType, &o.CustomerName,
		&o.CustomerMobile, &o.PaymentStatus, &o.OpenedAt, &o.ClosedAt, &o.ClosedBy,
		&o.TotalAmount, &o.DiscountType, &o.DiscountValue, &o.DiscountAmount,
		&o.DiscountedBy, &o.NetAmount,
	)
	return o, err
}

type CreateOrderItemParams struct {
	OrderID        uuid.UUID
	ItemID         uuid.UUID
	ComboID        pgtype.UUID
	SizeID         pgtype.UUID
	Qty            int32
	Rate           pgtype.Numeric
	OriginalRate   pgtype.Numeric
	Amount         pgtype.Numeric
	DiscountAmount pgtype.Numeric
	FinalAmount    pgtype.Numeric
	AddedAt        time.Time
	KitchenDoneAt  pgtype.Timestamptz
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) error {
	const sql = `
		INSERT INTO order_items
			(order_id, item_id, combo_id, size_id, qty, rate, original_rate,
			 amount, discount_amount, final_amount, added_at, kitchen_done_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := q.db.Exec(ctx, sql,
		arg.OrderID, arg.ItemID, arg.ComboID, arg.SizeID, arg.Qty, arg.Rate,
		arg.OriginalRate, arg.Amount, arg.DiscountAmount, arg.FinalAmount,
		arg.AddedAt, arg.KitchenDoneAt,
	)
	return err
}

type CreateOrderPaymentParams struct {
	OrderID  uuid.UUID
	TenderID uuid.UUID
	Amount   pgtype.Numeric
}

func (q *Queries) CreateOrderPayment(ctx context.Context, arg CreateOrderPaymentParams) error {
	const sql = `INSERT INTO order_payments (order_id, tender_id, amount) VALUES ($1, $2, $3)`
	_, err := q.db.Exec(ctx, sql, arg.OrderID, arg.TenderID, arg.Amount)
	return err
}

type CreateTimelineEventParams struct {
	OrderID uuid.UUID
	Event   string
}

func (q *Queries) CreateTimelineEvent(ctx context.Context, arg CreateTimelineEventParams) error {
	const sql = `INSERT INTO order_timeline (order_id, event, event_time) VALUES ($1, $2, now())`
	_, err := q.db.Exec(ctx, sql, arg.OrderID, arg.Event)
	return err
}

// --- Reporting over closed orders ---

type DailySummaryParams struct {
	RestaurantID uuid.UUID
	Date         pgtype.Date
}

type DailySummaryRow struct {
	TotalOrders   int64
	GrossSales    pgtype.Numeric
	TotalDiscount pgtype.Numeric
	NetSales      pgtype.Numeric
	AvgBill       pgtype.Numeric
}

func (q *Queries) GetDailySummary(ctx context.Context, arg DailySummaryParams) (DailySummaryRow, error) {
	const sql = `
		SELECT COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(discount_amount), 0),
			COALESCE(SUM(net_amount), 0),
			COALESCE(AVG(net_amount), 0)
		FROM orders
		WHERE restaurant_id = $1 AND closed_at::date = $2`
	var r DailySummaryRow
	err := q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.Date).Scan(
		&r.TotalOrders, &r.GrossSales, &r.TotalDiscount, &r.NetSales, &r.AvgBill,
	)
	return r, err
}

type TenderTotalRow struct {
	TenderName string
	Amount     pgtype.Numeric
}

func (q *Queries) ListDailyTenderTotals(ctx context.Context, arg DailySummaryParams) ([]TenderTotalRow, error) {
	const sql = `
		SELECT t.tender_name, SUM(op.amount)
		FROM order_payments op
		JOIN payment_tenders t ON t.id = op.tender_id
		JOIN orders o ON o.id = op.order_id
		WHERE o.restaurant_id = $1 AND o.closed_at::date = $2
		GROUP BY t.tender_name`
	rows, err := q.db.Query(ctx, sql, arg.RestaurantID, arg.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TenderTotalRow
	for rows.Next() {
		var r TenderTotalRow
		if err := rows.Scan(&r.TenderName, &r.Amount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type ItemSalesRow struct {
	ItemName   string
	TotalQty   int64
	TotalSales pgtype.Numeric
}

func (q *Queries) ListDailyItemSales(ctx context.Context, arg DailySummaryParams) ([]ItemSalesRow, error) {
	const sql = `
		SELECT i.item_name, SUM(oi.qty), SUM(oi.final_amount)
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.restaurant_id = $1 AND o.closed_at::date = $2
		GROUP BY i.item_name
		ORDER BY SUM(oi.qty) DESC`
	rows, err := q.db.Query(ctx, sql, arg.RestaurantID, arg.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ItemSalesRow
	for rows.Next() {
		var r ItemSalesRow
		if err := rows.Scan(&r.ItemName, &r.TotalQty, &r.TotalSales); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
