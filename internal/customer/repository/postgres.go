package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/customer"
	"github.com/fekuna/omnipos-admin-service/internal/customer/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

// selectCustomer adds order statistics; only paid orders count toward spend.
const selectCustomer = `
    SELECT c.id, c.full_name, c.email, c.phone, c.address, c.city, c.version,
           c.created_at, c.updated_at,
           COALESCE(s.order_count, 0) AS order_count,
           COALESCE(s.total_spent, 0) AS total_spent
    FROM customers c
    LEFT JOIN (
        SELECT customer_id,
               count(*) AS order_count,
               sum(total) FILTER (WHERE payment_status = 'paid') AS total_spent
        FROM orders
        GROUP BY customer_id
    ) s ON s.customer_id = c.id
`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (id, full_name, email, phone, address, city, version, created_at, updated_at)
        VALUES (:id, :full_name, :email, :phone, :address, :city, 1, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return apperr.FromPostgres(err)
	}
	c.Version = 1
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.DB.GetContext(ctx, &c, selectCustomer+` WHERE c.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	customers := []model.Customer{}
	var count int

	whereClause := ""
	args := map[string]interface{}{}
	if f.SearchQuery != "" {
		whereClause = " WHERE (c.full_name ILIKE :search OR c.email ILIKE :search OR c.phone ILIKE :search)"
		args["search"] = "%" + f.SearchQuery + "%"
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM customers c"+whereClause, args)
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

	orderBy := "c.created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "c.full_name"
		case "orders":
			orderBy = "order_count"
		case "spent":
			orderBy = "total_spent"
		default:
			orderBy = "c.created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := selectCustomer + whereClause + " ORDER BY " + orderBy
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &customers, args); err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	return customers, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET full_name = :full_name,
            email = :email,
            phone = :phone,
            address = :address,
            city = :city,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	switch err := postgres.ExecVersioned(ctx, r.DB, "customers", c.ID, query, c); {
	case errors.Is(err, postgres.ErrRowMissing):
		return customer.ErrNotFound
	case errors.Is(err, postgres.ErrStaleVersion):
		return apperr.ErrVersionConflict
	case err != nil:
		return apperr.FromPostgres(err)
	}
	c.Version++
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customer.ErrNotFound
	}
	return nil
}
