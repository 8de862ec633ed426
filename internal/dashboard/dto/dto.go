package dto

import "github.com/fekuna/omnipos-admin-service/internal/model"

type Totals struct {
	Revenue       float64 `db:"revenue" json:"revenue"` // paid orders only
	OrderCount    int     `db:"order_count" json:"order_count"`
	CustomerCount int     `db:"customer_count" json:"customer_count"`
	ProductCount  int     `db:"product_count" json:"product_count"`
	LowStockCount int     `db:"low_stock_count" json:"low_stock_count"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type Summary struct {
	Totals
	LowStockThreshold int            `json:"low_stock_threshold"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
	RecentOrders      []model.Order  `json:"recent_orders"`
}
