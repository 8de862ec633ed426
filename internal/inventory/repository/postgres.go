package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/inventory"
	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const stockColumns = `v.id AS variant_id, v.product_id, p.name AS product_name,
	c.name AS color_name, v.size, v.sku, v.stock, v.updated_at`

const stockFrom = ` FROM product_variants v
	JOIN products p ON p.id = v.product_id
	LEFT JOIN colors c ON c.id = v.color_id`

const movementColumns = `id, product_id, variant_id, quantity_change, quantity_before, quantity_after,
	reason, reference_type, reference_id, created_by, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.VariantStock, int, error) {
	items := []model.VariantStock{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "v.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(p.name ILIKE :search OR v.sku ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.LowStock {
		conditions = append(conditions, "v.stock <= :threshold")
		args["threshold"] = f.Threshold
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*)"+stockFrom+whereClause, args)
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

	orderBy := "p.name, v.position"
	if f.LowStock {
		orderBy = "v.stock, p.name, v.position"
	}
	query := "SELECT " + stockColumns + stockFrom + whereClause + " ORDER BY " + orderBy
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	return items, count, nil
}

func (r *PGRepository) GetVariantStock(ctx context.Context, variantID string) (*model.VariantStock, error) {
	var s model.VariantStock
	query := "SELECT " + stockColumns + stockFrom + " WHERE v.id = $1"
	if err := r.DB.GetContext(ctx, &s, query, variantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}
	return &s, nil
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, m *model.StockMovement) error {
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var current struct {
			ProductID string `db:"product_id"`
			Stock     int    `db:"stock"`
		}
		err := tx.GetContext(ctx, &current,
			`SELECT product_id, stock FROM product_variants WHERE id = $1 FOR UPDATE`, m.VariantID)
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.ErrVariantNotFound
		}
		if err != nil {
			return err
		}

		m.ProductID = current.ProductID
		m.QuantityBefore = current.Stock
		m.QuantityAfter = current.Stock + m.QuantityChange
		if m.QuantityAfter < 0 {
			return inventory.ErrInsufficient.With("Available", current.Stock)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE product_variants SET stock = $1, updated_at = $2 WHERE id = $3`,
			m.QuantityAfter, m.CreatedAt, m.VariantID); err != nil {
			return err
		}

		// The product version moves too so an editor holding stale variant
		// stock cannot overwrite this change.
		if _, err := tx.ExecContext(ctx, `
            UPDATE products
            SET stock = (SELECT COALESCE(sum(stock), 0) FROM product_variants WHERE product_id = $1),
                version = version + 1,
                updated_at = $2
            WHERE id = $1
        `, m.ProductID, m.CreatedAt); err != nil {
			return err
		}

		insert := `
            INSERT INTO stock_movements (
                id, product_id, variant_id, quantity_change, quantity_before, quantity_after,
                reason, reference_type, reference_id, created_by, created_at
            )
            VALUES (
                :id, :product_id, :variant_id, :quantity_change, :quantity_before, :quantity_after,
                :reason, :reference_type, :reference_id, :created_by, :created_at
            )
        `
		_, err = tx.NamedExecContext(ctx, insert, m)
		return err
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	items := []model.StockMovement{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.VariantID != "" {
		conditions = append(conditions, "variant_id = :variant_id")
		args["variant_id"] = f.VariantID
	}
	if f.ReferenceType != "" {
		conditions = append(conditions, "reference_type = :reference_type")
		args["reference_type"] = f.ReferenceType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM stock_movements"+whereClause, args)
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

	query := "SELECT " + movementColumns + " FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	return items, count, nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "stock_movements_reference_key" {
		return &apperr.Error{Kind: apperr.ErrConflict, MessageID: inventory.ErrAlreadyApplied.MessageID, Err: err}
	}
	return apperr.FromPostgres(err)
}
