package repository

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Totals(ctx context.Context, lowStockThreshold int) (*dto.Totals, error) {
	var t dto.Totals
	query := `
        SELECT
            (SELECT COALESCE(sum(total), 0) FROM orders WHERE payment_status = 'paid') AS revenue,
            (SELECT count(*) FROM orders) AS order_count,
            (SELECT count(*) FROM customers) AS customer_count,
            (SELECT count(*) FROM products) AS product_count,
            (SELECT count(*) FROM product_variants WHERE stock <= $1) AS low_stock_count
    `
	if err := r.DB.GetContext(ctx, &t, query, lowStockThreshold); err != nil {
		return nil, apperr.FromPostgres(err)
	}
	return &t, nil
}

func (r *PGRepository) OrdersByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	counts := []dto.StatusCount{}
	query := `SELECT status, count(*) AS count FROM orders GROUP BY status`
	if err := r.DB.SelectContext(ctx, &counts, query); err != nil {
		return nil, apperr.FromPostgres(err)
	}
	return counts, nil
}

func (r *PGRepository) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	orders := []model.Order{}
	query := `
        SELECT o.id, o.order_number, o.customer_id, c.full_name AS customer_name,
               o.status, o.payment_status, o.subtotal, o.discount, o.shipping_fee, o.total,
               o.coupon_id, o.shipping_address, o.notes, o.version, o.created_at, o.updated_at
        FROM orders o
        LEFT JOIN customers c ON c.id = o.customer_id
        ORDER BY o.created_at DESC
        LIMIT $1
    `
	if err := r.DB.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, apperr.FromPostgres(err)
	}
	return orders, nil
}
