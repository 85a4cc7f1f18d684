package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dhaba-pos/api/internal/database"
)

type mockKitchenStore struct {
	markItemDoneFn     func(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error)
	countPendingFn     func(ctx context.Context, liveOrderID uuid.UUID) (int64, error)
	setOrderReadyFn    func(ctx context.Context, liveOrderID uuid.UUID) error
	listKitchenQueueFn func(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenQueueRow, error)
}

func (m *mockKitchenStore) MarkItemDone(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error) {
	return m.markItemDoneFn(ctx, arg)
}
func (m *mockKitchenStore) CountPendingItems(ctx context.Context, liveOrderID uuid.UUID) (int64, error) {
	return m.countPendingFn(ctx, liveOrderID)
}
func (m *mockKitchenStore) SetOrderReady(ctx context.Context, liveOrderID uuid.UUID) error {
	return m.setOrderReadyFn(ctx, liveOrderID)
}
func (m *mockKitchenStore) ListKitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenQueueRow, error) {
	return m.listKitchenQueueFn(ctx, restaurantID)
}

func newTestKitchenService(store *mockKitchenStore) (*KitchenService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	return NewKitchenService(store, pool, func(db database.DBTX) KitchenStore { return store }), tx
}

func TestMarkItemDone_NotFound(t *testing.T) {
	store := &mockKitchenStore{
		markItemDoneFn: func(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error) {
			return uuid.Nil, pgx.ErrNoRows
		},
	}
	svc, tx := newTestKitchenService(store)

	err := svc.MarkItemDone(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrItemNotFoundOrDone) {
		t.Fatalf("expected ErrItemNotFoundOrDone, got: %v", err)
	}
	if tx.committed {
		t.Fatal("transaction must not commit on a missed item")
	}
}

func TestMarkItemDone_RemainingItemsKeepOrderPunched(t *testing.T) {
	liveOrderID := uuid.New()
	promoted := false
	store := &mockKitchenStore{
		markItemDoneFn: func(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error) {
			return liveOrderID, nil
		},
		countPendingFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 2, nil
		},
		setOrderReadyFn: func(ctx context.Context, id uuid.UUID) error {
			promoted = true
			return nil
		},
	}
	svc, tx := newTestKitchenService(store)

	if err := svc.MarkItemDone(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted {
		t.Fatal("order must not be promoted while items remain pending")
	}
	if !tx.committed {
		t.Fatal("expected transaction commit")
	}
}

func TestMarkItemDone_LastItemPromotesOrder(t *testing.T) {
	liveOrderID := uuid.New()
	var promotedID uuid.UUID
	store := &mockKitchenStore{
		markItemDoneFn: func(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error) {
			return liveOrderID, nil
		},
		countPendingFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 0, nil
		},
		setOrderReadyFn: func(ctx context.Context, id uuid.UUID) error {
			promotedID = id
			return nil
		},
	}
	svc, tx := newTestKitchenService(store)

	if err := svc.MarkItemDone(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promotedID != liveOrderID {
		t.Fatalf("expected promotion of %s, got %s", liveOrderID, promotedID)
	}
	if !tx.committed {
		t.Fatal("expected transaction commit")
	}
}

func TestMarkItemDone_PromotionFailureRollsBack(t *testing.T) {
	store := &mockKitchenStore{
		markItemDoneFn: func(ctx context.Context, arg database.ItemScopeParams) (uuid.UUID, error) {
			return uuid.New(), nil
		},
		countPendingFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 0, nil
		},
		setOrderReadyFn: func(ctx context.Context, id uuid.UUID) error {
			return errors.New("db down")
		},
	}
	svc, tx := newTestKitchenService(store)

	if err := svc.MarkItemDone(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
	if tx.committed {
		t.Fatal("transaction must not commit when promotion fails")
	}
	if !tx.rolledBack {
		t.Fatal("expected rollback")
	}
}
