package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/database"
)

// DayEndStore defines the DB methods used by the day-end gate.
type DayEndStore interface {
	IsDayLocked(ctx context.Context, restaurantID uuid.UUID) (bool, error)
	CountLiveOrders(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	CreateDayLock(ctx context.Context, arg database.CreateDayLockParams) error
}

// DayEndService closes the business day. Once locked, order creation is
// refused until the calendar date rolls over.
type DayEndService struct {
	store DayEndStore
}

func NewDayEndService(store DayEndStore) *DayEndService {
	return &DayEndService{store: store}
}

func (s *DayEndService) Status(ctx context.Context, restaurantID uuid.UUID) (bool, error) {
	locked, err := s.store.IsDayLocked(ctx, restaurantID)
	if err != nil {
		return false, fmt.Errorf("check day lock: %w", err)
	}
	return locked, nil
}

// Lock locks today's business date. Refused while any live order remains:
// every order must be closed or cancelled before the day ends.
func (s *DayEndService) Lock(ctx context.Context, restaurantID, managerID uuid.UUID) error {
	locked, err := s.store.IsDayLocked(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("check day lock: %w", err)
	}
	if locked {
		return ErrDayAlreadyLocked
	}

	open, err := s.store.CountLiveOrders(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("count live orders: %w", err)
	}
	if open > 0 {
		return ErrOpenOrdersExist
	}

	if err := s.store.CreateDayLock(ctx, database.CreateDayLockParams{
		RestaurantID: restaurantID,
		LockedBy:     managerID,
	}); err != nil {
		return fmt.Errorf("create day lock: %w", err)
	}
	return nil
}
