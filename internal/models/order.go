package models

import (
	"time"

	"github.com/tiemhang/tiemhang-api/internal/constants"

	"gorm.io/gorm"
)

// Order is the order header. TotalAmount always equals Subtotal plus
// ShippingFee; all three are persisted for auditability.
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // primary key
	OrderNo         string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`       // external order number
	UserID          uint           `gorm:"not null;index" json:"user_id"`                               // owning user
	Status          string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // lifecycle status
	PaymentMethod   string         `gorm:"type:varchar(20);not null" json:"payment_method"`             // cod / online
	PaymentStatus   string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"` // pending / paid / failed / refunded
	ReceiverName    string         `gorm:"type:varchar(100);not null" json:"receiver_name"`             // recipient name
	ReceiverPhone   string         `gorm:"type:varchar(20);not null" json:"receiver_phone"`             // recipient phone
	ShippingAddress string         `gorm:"type:text;not null" json:"shipping_address"`                  // delivery address
	DistrictID      int            `gorm:"not null;default:0" json:"district_id"`                       // GHN district code
	WardCode        string         `gorm:"type:varchar(20)" json:"ward_code"`                           // GHN ward code
	Subtotal        Money          `gorm:"type:decimal(20,0);not null;default:0" json:"subtotal"`       // sum of line totals
	ShippingFee     Money          `gorm:"type:decimal(20,0);not null;default:0" json:"shipping_fee"`   // quoted shipping fee
	TotalAmount     Money          `gorm:"type:decimal(20,0);not null;default:0" json:"total_amount"`   // subtotal + shipping fee
	Notes           string         `gorm:"type:text" json:"notes"`                                      // buyer notes
	CancelReason    string         `gorm:"type:varchar(255)" json:"cancel_reason"`                      // set when cancelled
	CancelledAt     *time.Time     `json:"cancelled_at"`                                                // cancellation time
	TrackingNo      string         `gorm:"type:varchar(64)" json:"tracking_no"`                         // carrier tracking number
	PaidAt          *time.Time     `json:"paid_at"`                                                     // payment capture time
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                     // online payment deadline
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // creation time
	UpdatedAt       time.Time      `json:"updated_at"`                                                  // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // soft delete time

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // order lines
	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`   // owning user
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// IsPaid reports whether payment has been captured.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == constants.PaymentStatusPaid
}
