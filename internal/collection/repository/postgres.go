package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/collection"
	"github.com/fekuna/omnipos-admin-service/internal/collection/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const selectCollection = `
    SELECT c.id, c.name, c.description, c.image_url, c.version, c.created_at, c.updated_at,
           (SELECT count(*) FROM products p WHERE p.collection_id = c.id) AS product_count
    FROM collections c`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Collection) error {
	query := `
        INSERT INTO collections (id, name, description, image_url, version, created_at, updated_at)
        VALUES (:id, :name, :description, :image_url, 1, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return apperr.FromPostgres(err)
	}
	c.Version = 1
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Collection, error) {
	var c model.Collection
	err := r.DB.GetContext(ctx, &c, selectCollection+` WHERE c.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CollectionFilters) ([]model.Collection, int, error) {
	collections := []model.Collection{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, "c.name ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM collections c"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := selectCollection + whereClause + " ORDER BY c.name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &collections, args); err != nil {
		return nil, 0, err
	}
	return collections, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Collection) error {
	query := `
        UPDATE collections
        SET name = :name,
            description = :description,
            image_url = :image_url,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	switch err := postgres.ExecVersioned(ctx, r.DB, "collections", c.ID, query, c); {
	case errors.Is(err, postgres.ErrRowMissing):
		return collection.ErrNotFound
	case errors.Is(err, postgres.ErrStaleVersion):
		return apperr.ErrVersionConflict
	case err != nil:
		return apperr.FromPostgres(err)
	}
	c.Version++
	return nil
}

// Delete removes the collection; its products stay and lose the link.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM collections WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return collection.ErrNotFound
	}
	return nil
}
