package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func (q *Queries) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]ItemCategory, error) {
	const sql = `
		SELECT id, restaurant_id, category_name, display_order, is_active
		FROM item_categories
		WHERE restaurant_id = $1 AND is_active
		ORDER BY display_order`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ItemCategory
	for rows.Next() {
		var c ItemCategory
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.CategoryName, &c.DisplayOrder, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *Queries) ListItems(ctx context.Context, restaurantID uuid.UUID) ([]Item, error) {
	const sql = `
		SELECT id, restaurant_id, category_id, item_name, is_active
		FROM items WHERE restaurant_id = $1 AND is_active`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.RestaurantID, &i.CategoryID, &i.ItemName, &i.IsActive); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (q *Queries) ListSizes(ctx context.Context, restaurantID uuid.UUID) ([]ItemSize, error) {
	const sql = `
		SELECT s.id, s.item_id, s.size_name, s.price
		FROM item_sizes s
		JOIN items i ON i.id = s.item_id
		WHERE i.restaurant_id = $1`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ItemSize
	for rows.Next() {
		var s ItemSize
		if err := rows.Scan(&s.ID, &s.ItemID, &s.SizeName, &s.Price); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *Queries) ListCombos(ctx context.Context, restaurantID uuid.UUID) ([]Combo, error) {
	const sql = `
		SELECT id, restaurant_id, combo_name, is_active
		FROM combos WHERE restaurant_id = $1 AND is_active`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Combo
	for rows.Next() {
		var c Combo
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.ComboName, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *Queries) ListComboItems(ctx context.Context, restaurantID uuid.UUID) ([]ComboItem, error) {
	const sql = `
		SELECT ci.id, ci.combo_id, ci.item_id, ci.size_id, ci.qty
		FROM combo_items ci
		JOIN combos c ON c.id = ci.combo_id
		WHERE c.restaurant_id = $1`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ComboItem
	for rows.Next() {
		var ci ComboItem
		if err := rows.Scan(&ci.ID, &ci.ComboID, &ci.ItemID, &ci.SizeID, &ci.Qty); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

// ListComboComponents returns the component rows of one combo, scoped to the
// restaurant. Empty result means the combo does not exist here.
func (q *Queries) ListComboComponents(ctx context.Context, arg ItemScopeParams) ([]ComboItem, error) {
	const sql = `
		SELECT ci.id, ci.combo_id, ci.item_id, ci.size_id, ci.qty
		FROM combo_items ci
		JOIN combos c ON c.id = ci.combo_id
		WHERE ci.combo_id = $1 AND c.restaurant_id = $2 AND c.is_active`
	rows, err := q.db.Query(ctx, sql, arg.ID, arg.RestaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ComboItem
	for rows.Next() {
		var ci ComboItem
		if err := rows.Scan(&ci.ID, &ci.ComboID, &ci.ItemID, &ci.SizeID, &ci.Qty); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

func (q *Queries) ListTenders(ctx context.Context, restaurantID uuid.UUID) ([]PaymentTender, error) {
	const sql = `
		SELECT id, restaurant_id, tender_name, is_active
		FROM payment_tenders WHERE restaurant_id = $1 AND is_active`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PaymentTender
	for rows.Next() {
		var t PaymentTender
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.TenderName, &t.IsActive); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- Seed helpers ---

type CreateCategoryParams struct {
	RestaurantID uuid.UUID
	CategoryName string
	DisplayOrder int32
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (ItemCategory, error) {
	const sql = `
		INSERT INTO item_categories (restaurant_id, category_name, display_order, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, restaurant_id, category_name, display_order, is_active`
	var c ItemCategory
	err := q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.CategoryName, arg.DisplayOrder).
		Scan(&c.ID, &c.RestaurantID, &c.CategoryName, &c.DisplayOrder, &c.IsActive)
	return c, err
}

type CreateItemParams struct {
	RestaurantID uuid.UUID
	CategoryID   uuid.UUID
	ItemName     string
}

func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (Item, error) {
	const sql = `
		INSERT INTO items (restaurant_id, category_id, item_name, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, restaurant_id, category_id, item_name, is_active`
	var i Item
	err := q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.CategoryID, arg.ItemName).
		Scan(&i.ID, &i.RestaurantID, &i.CategoryID, &i.ItemName, &i.IsActive)
	return i, err
}

type CreateItemSizeParams struct {
	ItemID   uuid.UUID
	SizeName string
	Price    pgtype.Numeric
}

func (q *Queries) CreateItemSize(ctx context.Context, arg CreateItemSizeParams) (ItemSize, error) {
	const sql = `
		INSERT INTO item_sizes (item_id, size_name, price)
		VALUES ($1, $2, $3)
		RETURNING id, item_id, size_name, price`
	var s ItemSize
	err := q.db.QueryRow(ctx, sql, arg.ItemID, arg.SizeName, arg.Price).
		Scan(&s.ID, &s.ItemID, &s.SizeName, &s.Price)
	return s, err
}

type CreateComboParams struct {
	RestaurantID uuid.UUID
	ComboName    string
}

func (q *Queries) CreateCombo(ctx context.Context, arg CreateComboParams) (Combo, error) {
	const sql = `
		INSERT INTO combos (restaurant_id, combo_name, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, restaurant_id, combo_name, is_active`
	var c Combo
	err := q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.ComboName).
		Scan(&c.ID, &c.RestaurantID, &c.ComboName, &c.IsActive)
	return c, err
}

type CreateComboItemParams struct {
	ComboID uuid.UUID
	ItemID  uuid.UUID
	SizeID  pgtype.UUID
	Qty     int32
}

func (q *Queries) CreateComboItem(ctx context.Context, arg CreateComboItemParams) error {
	const sql = `INSERT INTO combo_items (combo_id, item_id, size_id, qty) VALUES ($1, $2, $3, $4)`
	_, err := q.db.Exec(ctx, sql, arg.ComboID, arg.ItemID, arg.SizeID, arg.Qty)
	return err
}

type CreateTenderParams struct {
	RestaurantID uuid.UUID
	TenderName   string
}

func (q *Queries) CreateTender(ctx context.Context, arg CreateTenderParams) (PaymentTender, error) {
	const sql = `
		INSERT INTO payment_tenders (restaurant_id, tender_name, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, restaurant_id, tender_name, is_active`
	var t PaymentTender
	err := q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.TenderName).
		Scan(&t.ID, &t.RestaurantID, &t.TenderName, &t.IsActive)
	return t, err
}

func (q *Queries) CreateOrderSequence(ctx context.Context, restaurantID uuid.UUID) error {
	const sql = `INSERT INTO order_sequence (restaurant_id, last_order_no) VALUES ($1, 0)`
	_, err := q.db.Exec(ctx, sql, restaurantID)
	return err
}
