package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/color"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Color) error {
	query := `
        INSERT INTO colors (id, name, hex_code, version, created_at, updated_at)
        VALUES (:id, :name, :hex_code, 1, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return apperr.FromPostgres(err)
	}
	c.Version = 1
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Color, error) {
	var c model.Color
	query := `SELECT id, name, hex_code, version, created_at, updated_at FROM colors WHERE id = $1 LIMIT 1`
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromPostgres(err)
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, search string) ([]model.Color, error) {
	colors := []model.Color{}
	query := `SELECT id, name, hex_code, version, created_at, updated_at FROM colors`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	if err := r.DB.SelectContext(ctx, &colors, query, args...); err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Color) error {
	query := `
        UPDATE colors
        SET name = :name,
            hex_code = :hex_code,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	switch err := postgres.ExecVersioned(ctx, r.DB, "colors", c.ID, query, c); {
	case errors.Is(err, postgres.ErrRowMissing):
		return color.ErrNotFound
	case errors.Is(err, postgres.ErrStaleVersion):
		return apperr.ErrVersionConflict
	case err != nil:
		return apperr.FromPostgres(err)
	}
	c.Version++
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM colors WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return color.ErrNotFound
	}
	return nil
}
