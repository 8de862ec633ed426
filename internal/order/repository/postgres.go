package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/order"
	"github.com/fekuna/omnipos-admin-service/internal/order/dto"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const orderColumns = `o.id, o.order_number, o.customer_id, c.full_name AS customer_name,
	o.status, o.payment_status, o.subtotal, o.discount, o.shipping_fee, o.total,
	o.coupon_id, o.shipping_address, o.notes, o.version, o.created_at, o.updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	query := `SELECT ` + orderColumns + ` FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE o.id = $1 LIMIT 1`
	if err := r.DB.GetContext(ctx, &o, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}

	itemQuery := `
        SELECT id, order_id, product_id, variant_id, product_name, color_name, size,
               quantity, unit_price, created_at
        FROM order_items
        WHERE order_id = $1
        ORDER BY created_at, id
    `
	o.Items = []model.OrderItem{}
	if err := r.DB.SelectContext(ctx, &o.Items, itemQuery, id); err != nil {
		return nil, err
	}

	if o.CustomerID != nil {
		var cust model.Customer
		custQuery := `
            SELECT id, full_name, email, phone, address, city, version, created_at, updated_at
            FROM customers WHERE id = $1
        `
		switch err := r.DB.GetContext(ctx, &cust, custQuery, *o.CustomerID); {
		case err == nil:
			o.Customer = &cust
		case !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	orders := []model.Order{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "o.status = :status")
		args["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		conditions = append(conditions, "o.payment_status = :payment_status")
		args["payment_status"] = f.PaymentStatus
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "o.customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(o.order_number ILIKE :search OR c.full_name ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.From != nil {
		conditions = append(conditions, "o.created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "o.created_at < :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	from := " FROM orders o LEFT JOIN customers c ON c.id = o.customer_id"

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*)"+from+whereClause, args)
	if err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT " + orderColumns + from + whereClause + " ORDER BY o.created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	return orders, count, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET status = :status,
            payment_status = :payment_status,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	switch err := postgres.ExecVersioned(ctx, r.DB, "orders", o.ID, query, o); {
	case errors.Is(err, postgres.ErrRowMissing):
		return order.ErrNotFound
	case errors.Is(err, postgres.ErrStaleVersion):
		return apperr.ErrVersionConflict
	case err != nil:
		return apperr.FromPostgres(err)
	}
	o.Version++
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return order.ErrNotFound
	}
	return nil
}
