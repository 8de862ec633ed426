package model

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"

	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

var (
	OrderStatuses   = []string{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	PaymentStatuses = []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded}
)

type Customer struct {
	BaseModel
	FullName   string  `db:"full_name" json:"full_name"`
	Email      string  `db:"email" json:"email"`
	Phone      *string `db:"phone" json:"phone"`
	Address    *string `db:"address" json:"address"`
	City       *string `db:"city" json:"city"`
	Version    int     `db:"version" json:"version"`
	OrderCount int     `db:"order_count" json:"order_count"`
	TotalSpent float64 `db:"total_spent" json:"total_spent"`
}

type Order struct {
	BaseModel
	OrderNumber     string      `db:"order_number" json:"order_number"`
	CustomerID      *string     `db:"customer_id" json:"customer_id"`
	CustomerName    *string     `db:"customer_name" json:"customer_name,omitempty"`
	Status          string      `db:"status" json:"status"`
	PaymentStatus   string      `db:"payment_status" json:"payment_status"`
	Subtotal        float64     `db:"subtotal" json:"subtotal"`
	Discount        float64     `db:"discount" json:"discount"`
	ShippingFee     float64     `db:"shipping_fee" json:"shipping_fee"`
	Total           float64     `db:"total" json:"total"`
	CouponID        *string     `db:"coupon_id" json:"coupon_id"`
	ShippingAddress *string     `db:"shipping_address" json:"shipping_address"`
	Notes           *string     `db:"notes" json:"notes"`
	Version         int         `db:"version" json:"version"`
	Items           []OrderItem `db:"-" json:"items,omitempty"`
	Customer        *Customer   `db:"-" json:"customer,omitempty"`
}

type OrderItem struct {
	ID          string    `db:"id" json:"id"`
	OrderID     string    `db:"order_id" json:"order_id"`
	ProductID   *string   `db:"product_id" json:"product_id"`
	VariantID   *string   `db:"variant_id" json:"variant_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	ColorName   *string   `db:"color_name" json:"color_name"`
	Size        *string   `db:"size" json:"size"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Coupon struct {
	BaseModel
	Code           string     `db:"code" json:"code"`
	Type           string     `db:"type" json:"type"`
	Value          float64    `db:"value" json:"value"`
	MinOrderAmount float64    `db:"min_order_amount" json:"min_order_amount"`
	MaxUses        *int       `db:"max_uses" json:"max_uses"`
	UsedCount      int        `db:"used_count" json:"used_count"`
	StartsAt       *time.Time `db:"starts_at" json:"starts_at"`
	ExpiresAt      *time.Time `db:"expires_at" json:"expires_at"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	Version        int        `db:"version" json:"version"`
}

// IsRedeemable reports whether the coupon can be applied at time now.
func (c *Coupon) IsRedeemable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return true
}
