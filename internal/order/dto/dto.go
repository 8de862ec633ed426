package dto

import "time"

type OrderFilters struct {
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	CustomerID    string     `json:"customer_id"`
	SearchQuery   string     `json:"q"`
	From          *time.Time `json:"from"`
	To            *time.Time `json:"to"`
	Page          int        `json:"page"`
	PageSize      int        `json:"page_size"`
}

// StatusChangedEvent is published whenever an order's status or payment
// status changes. Items let stock consumers restock cancelled orders.
type StatusChangedEvent struct {
	OrderID         string      `json:"id"`
	OrderNumber     string      `json:"order_number"`
	PreviousStatus  string      `json:"previous_status"`
	Status          string      `json:"status"`
	PreviousPayment string      `json:"previous_payment_status"`
	PaymentStatus   string      `json:"payment_status"`
	Items           []EventItem `json:"items"`
}

type EventItem struct {
	ProductID *string `json:"product_id"`
	VariantID *string `json:"variant_id"`
	Quantity  int     `json:"quantity"`
}
