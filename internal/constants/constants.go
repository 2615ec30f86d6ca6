package constants

// Order status constants
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment method constants
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Stock movement type constants
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeAdjustment = "adjustment"
)

// Stock movement reason constants
const (
	MovementReasonOrderPlaced    = "order_placed"
	MovementReasonOrderCancelled = "order_cancelled"
	MovementReasonStockIn        = "stock_in"
	MovementReasonAdjustment     = "stock_adjustment"
)

// Queue constants
const (
	QueueDefault            = "default"
	TaskOrderStatusNotify   = "order:status_notify"
	TaskOrderPaymentTimeout = "order:payment_timeout"
	TaskStockAlertNotify    = "inventory:stock_alert_notify"
)

// Admin role constants
const (
	AdminRoleStaff = "staff"
	AdminRoleSuper = "super"
)

// Cache defaults
const (
	RedisPrefixDefault = "th"
)

// Currency constants
const (
	SiteCurrencyDefault = "VND"
)
