package enum

// ── Live order state machine (CHECK constrained in DB) ──

const (
	OrderStatusOpen       = "OPEN"
	OrderStatusPunched    = "PUNCHED"
	OrderStatusReady      = "READY"
	OrderStatusDispatched = "DISPATCHED"
)

const (
	KitchenStatusPending = "PENDING"
	KitchenStatusDone    = "DONE"
)

// ── Roles (CHECK constrained in DB) ──

const (
	RoleManager  = "MANAGER"
	RoleCashier  = "CASHIER"
	RoleKitchen  = "KITCHEN"
	RoleDispatch = "DISPATCH"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
	OrderTypeDelivery = "DELIVERY"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentStatusUnpaid = "UNPAID"
	PaymentStatusPaid   = "PAID"
)

const (
	DiscountTypeValue   = "VALUE"
	DiscountTypePercent = "PERCENT"
)

const TimelineEventClosed = "CLOSED"
