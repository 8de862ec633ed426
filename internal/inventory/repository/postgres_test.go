package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-admin-service/internal/inventory"
	"github.com/fekuna/omnipos-admin-service/internal/model"
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

func movement(change int) *model.StockMovement {
	ref := "manual"
	return &model.StockMovement{
		ID:             "m-1",
		VariantID:      "v-1",
		QuantityChange: change,
		Reason:         "recount",
		ReferenceType:  &ref,
		CreatedAt:      time.Now(),
	}
}

func TestAdjustStockWithMovement(t *testing.T) {
	repo, mock := newMock(t)
	m := movement(-2)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT product_id, stock FROM product_variants WHERE id = \$1 FOR UPDATE`).
		WithArgs("v-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "stock"}).AddRow("p-1", 5))
	mock.ExpectExec(`UPDATE product_variants SET stock = \$1`).
		WithArgs(3, sqlmock.AnyArg(), "v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)UPDATE products\s+SET stock = .*version = version \+ 1`).
		WithArgs("p-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO stock_movements`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AdjustStockWithMovement(context.Background(), m))

	assert.Equal(t, "p-1", m.ProductID)
	assert.Equal(t, 5, m.QuantityBefore)
	assert.Equal(t, 3, m.QuantityAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockWithMovement_Failures(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"product_id", "stock"}).AddRow("p-1", 1))
		mock.ExpectRollback()

		err := repo.AdjustStockWithMovement(context.Background(), movement(-2))

		assert.True(t, errors.Is(err, inventory.ErrInsufficient), "got %v", err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown variant", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"product_id", "stock"}))
		mock.ExpectRollback()

		err := repo.AdjustStockWithMovement(context.Background(), movement(1))

		assert.True(t, errors.Is(err, inventory.ErrVariantNotFound), "got %v", err)
	})

	t.Run("replayed reference", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"product_id", "stock"}).AddRow("p-1", 4))
		mock.ExpectExec(`UPDATE product_variants`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO stock_movements`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "stock_movements_reference_key"})
		mock.ExpectRollback()

		err := repo.AdjustStockWithMovement(context.Background(), movement(-1))

		assert.True(t, errors.Is(err, inventory.ErrAlreadyApplied), "got %v", err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
