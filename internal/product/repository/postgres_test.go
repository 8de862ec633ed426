package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func teeWithVariants() *model.Product {
	color := "c-red"
	now := time.Now()
	return &model.Product{
		BaseModel: model.BaseModel{ID: "p-1", CreatedAt: now, UpdatedAt: now},
		Name:      "Tee",
		Status:    model.ProductStatusActive,
		Stock:     5,
		Version:   2,
		Variants: []model.ProductVariant{
			{BaseModel: model.BaseModel{ID: "v-1"}, ColorID: &color, Size: "S", Stock: 2, IsPrimary: true},
			{BaseModel: model.BaseModel{ID: "v-2"}, ColorID: &color, Size: "M", Stock: 3},
		},
	}
}

func TestUpdate_ReplacesVariantsInOneTransaction(t *testing.T) {
	repo, mock := newMock(t)
	p := teeWithVariants()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM product_variants WHERE product_id = \$1 AND NOT`).
		WithArgs("p-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO product_variants .* ON CONFLICT \(id\) DO UPDATE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO product_variants .* ON CONFLICT \(id\) DO UPDATE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), p))

	assert.Equal(t, 3, p.Version)
	assert.Equal(t, 0, p.Variants[0].Position)
	assert.Equal(t, 1, p.Variants[1].Position)
	assert.Equal(t, "p-1", p.Variants[1].ProductID)
	assert.NotNil(t, p.Variants[0].Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_VersionMismatch(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
		want   error
	}{
		{name: "stale version", exists: true, want: apperr.ErrVersionConflict},
		{name: "deleted meanwhile", exists: false, want: product.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			p := teeWithVariants()

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(`SELECT EXISTS`).WithArgs("p-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))
			mock.ExpectRollback()

			err := repo.Update(context.Background(), p)

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 2, p.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_RollsBackWhenVariantInsertFails(t *testing.T) {
	repo, mock := newMock(t)
	p := teeWithVariants()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM product_variants`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO product_variants`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "product_variants_color_id_fkey"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), p)

	assert.True(t, errors.Is(err, product.ErrUnknownColor), "got %v", err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateSKUOnCommit(t *testing.T) {
	repo, mock := newMock(t)
	p := teeWithVariants()
	p.Variants = nil

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM product_variants`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(&pq.Error{
		Code:       "23505",
		Constraint: "product_variants_sku_key",
		Detail:     "Key (sku)=(TEE-RED-S-0001) already exists.",
	})

	err := repo.Create(context.Background(), p)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.True(t, errors.Is(err, product.ErrSKUTaken))
	assert.Equal(t, "TEE-RED-S-0001", appErr.Data["SKU"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM products p WHERE p.id = \$1`).WithArgs("p-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "sku", "description", "fabrics", "price", "discount_price",
			"status", "stock", "collection_id", "version", "created_at", "updated_at"}).
			AddRow("p-1", "Tee", "TEE", nil, "cotton", 100.0, nil, "active", 4, nil, 7, now, now),
	)
	mock.ExpectQuery(`FROM product_variants v\s+LEFT JOIN colors c`).WithArgs("p-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "product_id", "color_id", "color_name", "color_hex", "size", "sku",
			"price", "stock", "images", "is_primary", "position", "created_at", "updated_at"}).
			AddRow("v-1", "p-1", "c-red", "Red", "#FF0000", "S", "TEE-RED-S", nil, 1, []byte(`{}`), false, 0, now, now).
			AddRow("v-2", "p-1", nil, nil, nil, "M", nil, 120.0, 3, []byte(`{https://cdn.test/a.jpg}`), true, 1, now, now),
	)

	p, err := repo.FindByID(context.Background(), "p-1")
	require.NoError(t, err)

	assert.Equal(t, 7, p.Version)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, "Red", *p.Variants[0].ColorName)
	assert.Nil(t, p.Variants[1].ColorID)
	assert.Equal(t, "https://cdn.test/a.jpg", *p.Thumbnail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_Missing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM products p`).WithArgs("p-404").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.FindByID(context.Background(), "p-404")

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM products`).WithArgs("p-404").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "p-404")

	assert.True(t, errors.Is(err, product.ErrNotFound))
}

func TestTakenSKUs(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT sku FROM product_variants WHERE sku = ANY\(\$1\) AND product_id <> \$2`).
		WithArgs(sqlmock.AnyArg(), "p-1").
		WillReturnRows(sqlmock.NewRows([]string{"sku"}).AddRow("A"))

	taken, err := repo.TakenSKUs(context.Background(), []string{"A", "B"}, "p-1")

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"A": true}, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyValue(t *testing.T) {
	assert.Equal(t, "X-1", keyValue("Key (sku)=(X-1) already exists."))
	assert.Equal(t, "", keyValue("no detail"))
}
