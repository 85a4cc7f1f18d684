package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateLiveOrderItemParams struct {
	LiveOrderID uuid.UUID
	ItemID      uuid.UUID
	SizeID      pgtype.UUID
	ComboID     pgtype.UUID
	Qty         int32
}

func (q *Queries) CreateLiveOrderItem(ctx context.Context, arg CreateLiveOrderItemParams) (LiveOrderItem, error) {
	const sql = `
		INSERT INTO live_order_items
			(live_order_id, item_id, size_id, combo_id, qty, added_at, kitchen_status, is_active)
		VALUES ($1, $2, $3, $4, $5, now(), 'PENDING', TRUE)
		RETURNING id, live_order_id, item_id, size_id, combo_id, qty, added_at,
			kitchen_status, kitchen_done_at, is_active`
	var i LiveOrderItem
	err := q.db.QueryRow(ctx, sql,
		arg.LiveOrderID, arg.ItemID, arg.SizeID, arg.ComboID, arg.Qty,
	).Scan(
		&i.ID, &i.LiveOrderID, &i.ItemID, &i.SizeID, &i.ComboID, &i.Qty,
		&i.AddedAt, &i.KitchenStatus, &i.KitchenDoneAt, &i.IsActive,
	)
	return i, err
}

type ItemScopeParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

// DeactivateLiveOrderItem soft-deletes an item. Only succeeds while the
// owning order is still OPEN and the item has not reached the kitchen.
func (q *Queries) DeactivateLiveOrderItem(ctx context.Context, arg ItemScopeParams) (int64, error) {
	const sql = `
		UPDATE live_order_items loi
		SET is_active = FALSE
		FROM live_orders lo
		WHERE lo.id = loi.live_order_id
		  AND loi.id = $1
		  AND lo.restaurant_id = $2
		  AND lo.order_status = 'OPEN'
		  AND loi.kitchen_status = 'PENDING'
		  AND loi.is_active`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.RestaurantID)
	return tag.RowsAffected(), err
}

// MarkItemDone flips PENDING -> DONE and returns the owning live order id.
// pgx.ErrNoRows means the item does not exist in this restaurant, was soft
// deleted, or was already processed.
func (q *Queries) MarkItemDone(ctx context.Context, arg ItemScopeParams) (uuid.UUID, error) {
	const sql = `
		UPDATE live_order_items loi
		SET kitchen_status = 'DONE', kitchen_done_at = now()
		FROM live_orders lo
		WHERE lo.id = loi.live_order_id
		  AND loi.id = $1
		  AND lo.restaurant_id = $2
		  AND loi.kitchen_status = 'PENDING'
		  AND loi.is_active
		RETURNING loi.live_order_id`
	var liveOrderID uuid.UUID
	err := q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID).Scan(&liveOrderID)
	return liveOrderID, err
}

func (q *Queries) CountPendingItems(ctx context.Context, liveOrderID uuid.UUID) (int64, error) {
	const sql = `
		SELECT COUNT(*) FROM live_order_items
		WHERE live_order_id = $1 AND kitchen_status = 'PENDING' AND is_active`
	var n int64
	err := q.db.QueryRow(ctx, sql, liveOrderID).Scan(&n)
	return n, err
}

type KitchenQueueRow struct {
	ID             uuid.UUID
	LiveOrderID    uuid.UUID
	OrderNo        int32
	OrderType      string
	ItemName       string
	SizeName       pgtype.Text
	Qty            int32
	MinutesElapsed float64
}

// ListKitchenQueue returns the item-level view for the kitchen display:
// every active pending item of a punched order, oldest first.
func (q *Queries) ListKitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]KitchenQueueRow, error) {
	const sql = `
		SELECT loi.id, lo.id, lo.order_no, lo.order_type, i.item_name, s.size_name,
			loi.qty, EXTRACT(EPOCH FROM (now() - loi.added_at)) / 60
		FROM live_order_items loi
		JOIN live_orders lo ON lo.id = loi.live_order_id
		JOIN items i ON i.id = loi.item_id
		LEFT JOIN item_sizes s ON s.id = loi.size_id
		WHERE lo.restaurant_id = $1
		  AND loi.kitchen_status = 'PENDING'
		  AND loi.is_active
		  AND lo.order_status = 'PUNCHED'
		  AND lo.cancelled_at IS NULL
		ORDER BY loi.added_at ASC`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []KitchenQueueRow
	for rows.Next() {
		var r KitchenQueueRow
		if err := rows.Scan(
			&r.ID, &r.LiveOrderID, &r.OrderNo, &r.OrderType, &r.ItemName,
			&r.SizeName, &r.Qty, &r.MinutesElapsed,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type BillItemRow struct {
	ID       uuid.UUID
	ItemName string
	SizeName pgtype.Text
	Price    pgtype.Numeric
	Qty      int32
}

type BillItemsParams struct {
	LiveOrderID  uuid.UUID
	RestaurantID uuid.UUID
}

// ListBillItems returns active items with resolved names and size prices for
// the order punch screen and the discount subtotal.
func (q *Queries) ListBillItems(ctx context.Context, arg BillItemsParams) ([]BillItemRow, error) {
	const sql = `
		SELECT loi.id, i.item_name, s.size_name, s.price, loi.qty
		FROM live_order_items loi
		JOIN live_orders lo ON lo.id = loi.live_order_id
		JOIN items i ON i.id = loi.item_id
		LEFT JOIN item_sizes s ON s.id = loi.size_id
		WHERE loi.live_order_id = $1
		  AND lo.restaurant_id = $2
		  AND loi.is_active
		ORDER BY loi.added_at ASC`
	rows, err := q.db.Query(ctx, sql, arg.LiveOrderID, arg.RestaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BillItemRow
	for rows.Next() {
		var r BillItemRow
		if err := rows.Scan(&r.ID, &r.ItemName, &r.SizeName, &r.Price, &r.Qty); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CloseItemRow is a live item with its resolved size price, loaded inside the
// closing transaction.
type CloseItemRow struct {
	LiveOrderItem
	Price pgtype.Numeric
}

func (q *Queries) ListItemsForClose(ctx context.Context, liveOrderID uuid.UUID) ([]CloseItemRow, error) {
	const sql = `
		SELECT loi.id, loi.live_order_id, loi.item_id, loi.size_id, loi.combo_id,
			loi.qty, loi.added_at, loi.kitchen_status, loi.kitchen_done_at,
			loi.is_active, s.price
		FROM live_order_items loi
		LEFT JOIN item_sizes s ON s.id = loi.size_id
		WHERE loi.live_order_id = $1 AND loi.is_active
		ORDER BY loi.added_at ASC`
	rows, err := q.db.Query(ctx, sql, liveOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CloseItemRow
	for rows.Next() {
		var r CloseItemRow
		if err := rows.Scan(
			&r.ID, &r.LiveOrderID, &r.ItemID, &r.SizeID, &r.ComboID, &r.Qty,
			&r.AddedAt, &r.KitchenStatus, &r.KitchenDoneAt, &r.IsActive, &r.Price,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type ReadyOrderItemRow struct {
	LiveOrderID uuid.UUID
	OrderNo     int32
	OrderType   string
	OpenedAt    time.Time
	ItemName    string
	SizeName    pgtype.Text
	Qty         int32
}

// ListReadyOrderItems feeds the dispatch screen: READY orders joined with
// their item details, grouped by the caller.
func (q *Queries) ListReadyOrderItems(ctx context.Context, restaurantID uuid.UUID) ([]ReadyOrderItemRow, error) {
	const sql = `
		SELECT lo.id, lo.order_no, lo.order_type, lo.opened_at,
			i.item_name, s.size_name, loi.qty
		FROM live_orders lo
		JOIN live_order_items loi ON loi.live_order_id = lo.id
		JOIN items i ON i.id = loi.item_id
		LEFT JOIN item_sizes s ON s.id = loi.size_id
		WHERE lo.restaurant_id = $1
		  AND lo.order_status = 'READY'
		  AND loi.is_active
		ORDER BY lo.order_no, loi.added_at`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ReadyOrderItemRow
	for rows.Next() {
		var r ReadyOrderItemRow
		if err := rows.Scan(
			&r.LiveOrderID, &r.OrderNo, &r.OrderType, &r.OpenedAt,
			&r.ItemName, &r.SizeName, &r.Qty,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteLiveOrderItems(ctx context.Context, liveOrderID uuid.UUID) error {
	const sql = `DELETE FROM live_order_items WHERE live_order_id = $1`
	_, err := q.db.Exec(ctx, sql, liveOrderID)
	return err
}
