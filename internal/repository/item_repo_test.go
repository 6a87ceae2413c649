package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "name", "sku", "unit", "purchase_price", "selling_price",
		"stock", "low_stock_threshold", "created_at", "updated_at",
	}).AddRow(int64(5), 7, "Widget", (*string)(nil), "pcs",
		decimal.NewFromInt(10), decimal.NewFromInt(15),
		decimal.NewFromInt(4), decimal.NewFromInt(2), now, now)

	mock.ExpectQuery("SELECT .+ FROM items WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(int64(5), 7).
		WillReturnRows(rows)

	item, err := repo.FindByID(context.Background(), 5, 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Widget", item.Name)
	assert.True(t, item.Stock.Equal(decimal.NewFromInt(4)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemFindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM items WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(int64(99), 7).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "name", "sku", "unit", "purchase_price", "selling_price",
			"stock", "low_stock_threshold", "created_at", "updated_at",
		}))

	item, err := repo.FindByID(context.Background(), 99, 7)
	require.NoError(t, err)
	assert.Nil(t, item)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	delta := decimal.NewFromInt(-3)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE items SET stock = stock \\+ \\$1").
		WithArgs(delta, int64(5), 7).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(decimal.NewFromInt(1)))
	mock.ExpectExec("INSERT INTO stock_adjustments").
		WithArgs(int64(5), 7, delta, "damaged in transit").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	newStock, err := repo.AdjustStock(context.Background(), 5, 7, delta, "damaged in transit")
	require.NoError(t, err)
	assert.True(t, newStock.Equal(decimal.NewFromInt(1)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLowStock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "name", "sku", "unit", "purchase_price", "selling_price",
		"stock", "low_stock_threshold", "created_at", "updated_at",
	}).AddRow(int64(2), 7, "Gadget", (*string)(nil), "pcs",
		decimal.NewFromInt(20), decimal.NewFromInt(30),
		decimal.NewFromInt(1), decimal.NewFromInt(3), now, now)

	mock.ExpectQuery("SELECT .+ FROM items WHERE user_id = \\$1 AND stock <= low_stock_threshold").
		WithArgs(7).
		WillReturnRows(rows)

	items, err := repo.FindLowStock(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Gadget", items[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}
