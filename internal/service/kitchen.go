package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dhaba-pos/api/internal/database"
)

// KitchenStore defines the DB methods needed by the kitchen cascade.
type KitchenStore interface {
	MarkItemDone(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error)
	CountPendingItems(ctx context.Context, liveOrderID uuid.UUID) (int64, error)
	SetOrderReady(ctx context.Context, liveOrderID uuid.UUID) error
	ListKitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenQueueRow, error)
}

// NewKitchenStore creates a KitchenStore from a DBTX (pool or tx).
type NewKitchenStore func(db database.DBTX) KitchenStore

// KitchenService advances per-item preparation status and derives order
// readiness from it.
type KitchenService struct {
	store    KitchenStore
	pool     TxBeginner
	newStore NewKitchenStore
}

func NewKitchenService(store KitchenStore, pool TxBeginner, newStore NewKitchenStore) *KitchenService {
	return &KitchenService{store: store, pool: pool, newStore: newStore}
}

// Queue returns the active pending items of punched orders, oldest first.
func (s *KitchenService) Queue(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenQueueRow, error) {
	rows, err := s.store.ListKitchenQueue(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list kitchen queue: %w", err)
	}
	return rows, nil
}

// MarkItemDone flips one item PENDING -> DONE and, when it was the last
// pending item of its order, promotes the order to READY. The mark, the
// pending count and the promotion run in a single transaction: two items
// finishing concurrently serialize on the item row updates, so exactly one
// of them observes the zero count and promotes the order.
func (s *KitchenService) MarkItemDone(ctx context.Context, itemRowID, restaurantID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	liveOrderID, err := store.MarkItemDone(ctx, database.ItemScopeParams{
		ID:           itemRowID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNotFoundOrDone
		}
		return fmt.Errorf("mark item done: %w", err)
	}

	pending, err := store.CountPendingItems(ctx, liveOrderID)
	if err != nil {
		return fmt.Errorf("count pending items: %w", err)
	}

	if pending == 0 {
		if err := store.SetOrderReady(ctx, liveOrderID); err != nil {
			return fmt.Errorf("set order ready: %w", err)
		}
	}

	return tx.Commit(ctx)
}
