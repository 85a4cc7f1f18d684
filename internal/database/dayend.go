package database

import (
	"context"

	"github.com/google/uuid"
)

// IsDayLocked reports whether today's business date is locked for the
// restaurant. Checked before any order number is allocated.
func (q *Queries) IsDayLocked(ctx context.Context, restaurantID uuid.UUID) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM day_end_lock
			WHERE restaurant_id = $1 AND business_date = CURRENT_DATE
		)`
	var locked bool
	err := q.db.QueryRow(ctx, sql, restaurantID).Scan(&locked)
	return locked, err
}

type CreateDayLockParams struct {
	RestaurantID uuid.UUID
	LockedBy     uuid.UUID
}

func (q *Queries) CreateDayLock(ctx context.Context, arg CreateDayLockParams) error {
	const sql = `
		INSERT INTO day_end_lock (restaurant_id, business_date, locked_at, locked_by)
		VALUES ($1, CURRENT_DATE, now(), $2)`
	_, err := q.db.Exec(ctx, sql, arg.RestaurantID, arg.LockedBy)
	return err
}
