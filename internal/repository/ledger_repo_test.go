package repository

import (
	"context"
	"testing"
	"time"

	"bizbook/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeEventsBetween(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)
	saleDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	customer := "Acme"

	rows := pgxmock.NewRows([]string{
		"id", "estimate_number", "name", "estimate_date", "total",
		"payment_type", "payment_received_date", "payment_received_mode",
	}).AddRow(int64(1), "EST-0001", &customer, saleDate, decimal.NewFromInt(250),
		model.PaymentTypeCash, (*time.Time)(nil), (*string)(nil))

	mock.ExpectQuery("FROM estimates e LEFT JOIN customers c").
		WithArgs(7, start, end).
		WillReturnRows(rows)

	events, err := repo.IncomeEventsBetween(context.Background(), 7, start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].EstimateID)
	assert.Equal(t, "EST-0001", events[0].EstimateNumber)
	assert.True(t, events[0].Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, model.PaymentTypeCash, events[0].PaymentType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseEventsBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	purchaseDate := time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC)
	mode := model.PaymentTypeCash

	rows := pgxmock.NewRows([]string{
		"id", "bill_number", "name", "purchase_date", "total",
		"payment_status", "payment_date", "payment_mode",
	}).AddRow(int64(3), "BILL-0003", (*string)(nil), purchaseDate, decimal.NewFromInt(90),
		model.PaymentStatusPaid, (*time.Time)(nil), &mode)

	mock.ExpectQuery("FROM purchases p LEFT JOIN suppliers s").
		WithArgs(7, cutoff).
		WillReturnRows(rows)

	events, err := repo.ExpenseEventsBefore(context.Background(), 7, cutoff)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "BILL-0003", events[0].BillNumber)
	assert.Equal(t, model.PaymentStatusPaid, events[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingReceivables(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total\\), 0\\) FROM estimates").
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(430)))

	total, err := repo.PendingReceivables(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(430)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingPayables(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total\\), 0\\) FROM purchases").
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(75)))

	total, err := repo.PendingPayables(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(75)))

	assert.NoError(t, mock.ExpectationsWereMet())
}
