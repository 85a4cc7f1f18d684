package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// LiveOrder is an order still being built or worked, not yet in sales history.
type LiveOrder struct {
	ID             uuid.UUID
	RestaurantID   uuid.UUID
	OrderNo        int32
	OrderType      string
	CustomerName   pgtype.Text
	CustomerMobile pgtype.Text
	PaymentStatus  string
	OrderStatus    string
	DiscountType   pgtype.Text
	DiscountValue  pgtype.Numeric
	DiscountAmount pgtype.Numeric
	DiscountedBy   pgtype.UUID
	OpenedAt       time.Time
	DispatchedAt   pgtype.Timestamptz
	CancelledAt    pgtype.Timestamptz
	CancelReason   pgtype.Text
	CancelledBy    pgtype.UUID
	CreatedBy      uuid.UUID
}

// LiveOrderItem is one line on a live order. ComboID is set when the row was
// expanded from a combo. IsActive is the soft-delete flag used while the
// order is still editable.
type LiveOrderItem struct {
	ID            uuid.UUID
	LiveOrderID   uuid.UUID
	ItemID        uuid.UUID
	SizeID        pgtype.UUID
	ComboID       pgtype.UUID
	Qty           int32
	AddedAt       time.Time
	KitchenStatus string
	KitchenDoneAt pgtype.Timestamptz
	IsActive      bool
}

// Order is the immutable historical record of a closed sale.
type Order struct {
	ID             uuid.UUID
	RestaurantID   uuid.UUID
	OrderNo        int32
	OrderType      string
	CustomerName   pgtype.Text
	CustomerMobile pgtype.Text
	PaymentStatus  string
	OpenedAt       time.Time
	ClosedAt       time.Time
	ClosedBy       uuid.UUID
	TotalAmount    pgtype.Numeric
	DiscountType   pgtype.Text
	DiscountValue  pgtype.Numeric
	DiscountAmount pgtype.Numeric
	DiscountedBy   pgtype.UUID
	NetAmount      pgtype.Numeric
}

// OrderItem carries the rate, proportional discount and final amount frozen
// at close time.
type OrderItem struct {
	ID             uuid.UUID
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

type OrderPayment struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	TenderID uuid.UUID
	Amount   pgtype.Numeric
}

type OrderTimeline struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Event     string
	EventTime time.Time
}

// OrderSequence holds the last issued order number per restaurant. It is
// only ever read and written under a row lock.
type OrderSequence struct {
	RestaurantID uuid.UUID
	LastOrderNo  int32
}

// DayEndLock marks a business date closed to new orders. Append-only.
type DayEndLock struct {
	RestaurantID uuid.UUID
	BusinessDate pgtype.Date
	LockedAt     time.Time
	LockedBy     uuid.UUID
}

type Restaurant struct {
	ID   uuid.UUID
	Name string
}

type User struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
}

type ItemCategory struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	CategoryName string
	DisplayOrder int32
	IsActive     bool
}

type Item struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	CategoryID   uuid.UUID
	ItemName     string
	IsActive     bool
}

type ItemSize struct {
	ID       uuid.UUID
	ItemID   uuid.UUID
	SizeName string
	Price    pgtype.Numeric
}

type Combo struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	ComboName    string
	IsActive     bool
}

type ComboItem struct {
	ID      uuid.UUID
	ComboID uuid.UUID
	ItemID  uuid.UUID
	SizeID  pgtype.UUID
	Qty     int32
}

type PaymentTender struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	TenderName   string
	IsActive     bool
}
