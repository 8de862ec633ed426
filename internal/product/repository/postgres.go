package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product"
	"github.com/fekuna/omnipos-admin-service/internal/product/dto"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const productColumns = `p.id, p.name, p.sku, p.description, p.fabrics, p.price, p.discount_price,
	p.status, p.stock, p.collection_id, p.version, p.created_at, p.updated_at`

// thumbnailColumn picks the first image of the primary variant, falling
// back to the first variant that has one.
const thumbnailColumn = `(
	SELECT v.images[1] FROM product_variants v
	WHERE v.product_id = p.id AND cardinality(v.images) > 0
	ORDER BY v.is_primary DESC, v.position
	LIMIT 1
) AS thumbnail`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, name, sku, description, fabrics, price, discount_price,
            status, stock, collection_id, version, created_at, updated_at
        )
        VALUES (
            :id, :name, :sku, :description, :fabrics, :price, :discount_price,
            :status, :stock, :collection_id, 1, :created_at, :updated_at
        )
    `
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return err
		}
		return saveVariants(ctx, tx, p)
	})
	if err != nil {
		return mapError(err)
	}
	p.Version = 1
	return nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            sku = :sku,
            description = :description,
            fabrics = :fabrics,
            price = :price,
            discount_price = :discount_price,
            status = :status,
            stock = :stock,
            collection_id = :collection_id,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		switch err := postgres.ExecVersioned(ctx, tx, "products", p.ID, query, p); {
		case errors.Is(err, postgres.ErrRowMissing):
			return product.ErrNotFound
		case errors.Is(err, postgres.ErrStaleVersion):
			return apperr.ErrVersionConflict
		case err != nil:
			return err
		}
		return saveVariants(ctx, tx, p)
	})
	if err != nil {
		return mapError(err)
	}
	p.Version++
	return nil
}

// saveVariants makes the stored variant set equal to p.Variants. Rows are
// upserted by id so references from order items stay valid.
func saveVariants(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	ids := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		ids = append(ids, v.ID)
	}
	_, err := tx.ExecContext(ctx,
		`DELETE FROM product_variants WHERE product_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		p.ID, pq.Array(ids))
	if err != nil {
		return err
	}

	query := `
        INSERT INTO product_variants (
            id, product_id, color_id, size, sku, price, stock, images,
            is_primary, position, created_at, updated_at
        )
        VALUES (
            :id, :product_id, :color_id, :size, :sku, :price, :stock, :images,
            :is_primary, :position, :created_at, :updated_at
        )
        ON CONFLICT (id) DO UPDATE
        SET color_id = EXCLUDED.color_id,
            size = EXCLUDED.size,
            sku = EXCLUDED.sku,
            price = EXCLUDED.price,
            stock = EXCLUDED.stock,
            images = EXCLUDED.images,
            is_primary = EXCLUDED.is_primary,
            position = EXCLUDED.position,
            updated_at = EXCLUDED.updated_at
        WHERE product_variants.product_id = EXCLUDED.product_id
    `
	for i := range p.Variants {
		v := &p.Variants[i]
		v.ProductID = p.ID
		v.Position = i
		if v.Images == nil {
			v.Images = pq.StringArray{}
		}
		if _, err := tx.NamedExecContext(ctx, query, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}

	variantQuery := `
        SELECT v.id, v.product_id, v.color_id, c.name AS color_name, c.hex_code AS color_hex,
               v.size, v.sku, v.price, v.stock, v.images, v.is_primary, v.position,
               v.created_at, v.updated_at
        FROM product_variants v
        LEFT JOIN colors c ON c.id = v.color_id
        WHERE v.product_id = $1
        ORDER BY v.position, v.created_at
    `
	if err := r.DB.SelectContext(ctx, &p.Variants, variantQuery, id); err != nil {
		return nil, err
	}
	for _, v := range p.Variants {
		if v.IsPrimary && len(v.Images) > 0 {
			thumb := v.Images[0]
			p.Thumbnail = &thumb
			break
		}
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CollectionID != "" {
		conditions = append(conditions, "p.collection_id = :collection_id")
		args["collection_id"] = f.CollectionID
	}
	if f.Status != "" {
		conditions = append(conditions, "p.status = :status")
		args["status"] = f.Status
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(p.name ILIKE :search OR p.sku ILIKE :search OR p.description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products p" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
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

	orderBy := "p.created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "p.name"
		case "price":
			orderBy = "p.price"
		case "stock":
			orderBy = "p.stock"
		default:
			orderBy = "p.created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT %s, %s FROM products p%s ORDER BY %s", productColumns, thumbnailColumn, whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, apperr.FromPostgres(err)
	}
	return products, count, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *PGRepository) TakenSKUs(ctx context.Context, skus []string, excludeProductID string) (map[string]bool, error) {
	taken := map[string]bool{}
	if len(skus) == 0 {
		return taken, nil
	}

	query := `SELECT sku FROM product_variants WHERE sku = ANY($1)`
	args := []interface{}{pq.Array(skus)}
	if excludeProductID != "" {
		query += ` AND product_id <> $2`
		args = append(args, excludeProductID)
	}

	var found []string
	if err := r.DB.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, err
	}
	for _, sku := range found {
		taken[sku] = true
	}
	return taken, nil
}

// mapError turns constraint violations on the catalog tables into
// product-specific errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Constraint {
	case "products_sku_key", "product_variants_sku_key":
		return &apperr.Error{
			Kind:      apperr.ErrConflict,
			MessageID: product.ErrSKUTaken.MessageID,
			Data:      map[string]interface{}{"SKU": keyValue(pqErr.Detail)},
			Err:       err,
		}
	case "products_collection_id_fkey":
		return &apperr.Error{Kind: apperr.ErrValidation, MessageID: product.ErrUnknownCollection.MessageID, Err: err}
	case "product_variants_color_id_fkey":
		return &apperr.Error{Kind: apperr.ErrValidation, MessageID: product.ErrUnknownColor.MessageID, Err: err}
	}
	return apperr.FromPostgres(err)
}

// keyValue extracts "v" from a detail like "Key (sku)=(v) already exists.".
func keyValue(detail string) string {
	start := strings.Index(detail, ")=(")
	if start < 0 {
		return ""
	}
	rest := detail[start+3:]
	end := strings.LastIndex(rest, ")")
	if end < 0 {
		return rest
	}
	return rest[:end]
}
