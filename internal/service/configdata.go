package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/database"
)

// ConfigStore defines the master-data reads for the terminal config bundle.
type ConfigStore interface {
	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]database.ItemCategory, error)
	ListItems(ctx context.Context, restaurantID uuid.UUID) ([]database.Item, error)
	ListSizes(ctx context.Context, restaurantID uuid.UUID) ([]database.ItemSize, error)
	ListCombos(ctx context.Context, restaurantID uuid.UUID) ([]database.Combo, error)
	ListComboItems(ctx context.Context, restaurantID uuid.UUID) ([]database.ComboItem, error)
	ListTenders(ctx context.Context, restaurantID uuid.UUID) ([]database.PaymentTender, error)
}

// ConfigService assembles the menu and tender catalogue a terminal loads once
// at startup.
type ConfigService struct {
	store ConfigStore
}

func NewConfigService(store ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

type ConfigBundle struct {
	Categories []database.ItemCategory
	Items      []database.Item
	Sizes      []database.ItemSize
	Combos     []database.Combo
	ComboItems []database.ComboItem
	Tenders    []database.PaymentTender
}

func (s *ConfigService) Bundle(ctx context.Context, restaurantID uuid.UUID) (*ConfigBundle, error) {
	var (
		b   ConfigBundle
		err error
	)
	if b.Categories, err = s.store.ListCategories(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if b.Items, err = s.store.ListItems(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if b.Sizes, err = s.store.ListSizes(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	if b.Combos, err = s.store.ListCombos(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}
	if b.ComboItems, err = s.store.ListComboItems(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("list combo items: %w", err)
	}
	if b.Tenders, err = s.store.ListTenders(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	return &b, nil
}
