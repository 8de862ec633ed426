package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/coupon"
	"github.com/fekuna/omnipos-admin-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const couponColumns = `id, code, type, value, min_order_amount, max_uses, used_count,
	starts_at, expires_at, is_active, version, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
        INSERT INTO coupons (
            id, code, type, value, min_order_amount, max_uses, used_count,
            starts_at, expires_at, is_active, version, created_at, updated_at
        )
        VALUES (
            :id, :code, :type, :value, :min_order_amount, :max_uses, 0,
            :starts_at, :expires_at, :is_active, 1, :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return apperr.FromPostgres(err)
	}
	c.Version = 1
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Coupon, error) {
	var c model.Coupon
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 LIMIT 1`
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CouponFilters) ([]model.Coupon, int, error) {
	coupons := []model.Coupon{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}
	if f.SearchQuery != "" {
		conditions = append(conditions, "code ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM coupons"+whereClause, args)
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

	query := "SELECT " + couponColumns + " FROM coupons" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &coupons, args); err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	return coupons, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Coupon) error {
	query := `
        UPDATE coupons
        SET code = :code,
            type = :type,
            value = :value,
            min_order_amount = :min_order_amount,
            max_uses = :max_uses,
            starts_at = :starts_at,
            expires_at = :expires_at,
            is_active = :is_active,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	switch err := postgres.ExecVersioned(ctx, r.DB, "coupons", c.ID, query, c); {
	case errors.Is(err, postgres.ErrRowMissing):
		return coupon.ErrNotFound
	case errors.Is(err, postgres.ErrStaleVersion):
		return apperr.ErrVersionConflict
	case err != nil:
		return apperr.FromPostgres(err)
	}
	c.Version++
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return coupon.ErrNotFound
	}
	return nil
}
