package service

import (
	"context"
	"testing"
	"time"

	"bizbook/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEstimateRepo struct {
	created  *model.Estimate
	existing map[int64]*model.Estimate
	count    int64
}

func (f *fakeEstimateRepo) Create(_ context.Context, e *model.Estimate) error {
	e.ID = f.count + 1
	f.created = e
	return nil
}

func (f *fakeEstimateRepo) FindByID(_ context.Context, id int64, _ int) (*model.Estimate, error) {
	return f.existing[id], nil
}

func (f *fakeEstimateRepo) FindByUser(_ context.Context, _ int, _ model.EstimateFilters) ([]model.Estimate, error) {
	return nil, nil
}

func (f *fakeEstimateRepo) Cancel(_ context.Context, id int64, _ int) error {
	f.existing[id].Status = model.EstimateStatusCancelled
	return nil
}

func (f *fakeEstimateRepo) Delete(_ context.Context, id int64, _ int) error {
	delete(f.existing, id)
	return nil
}

func (f *fakeEstimateRepo) RecordPayment(_ context.Context, id int64, _ int, date time.Time, mode string) error {
	f.existing[id].PaymentReceivedDate = &date
	f.existing[id].PaymentReceivedMode = &mode
	return nil
}

func (f *fakeEstimateRepo) NextNumber(_ context.Context, _ int) (string, error) {
	return "EST-0042", nil
}

func (f *fakeEstimateRepo) CustomerSums(_ context.Context, _ int, _ int64) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.Zero, decimal.Zero, nil
}

func TestCreateEstimate_ComputesTotals(t *testing.T) {
	repo := &fakeEstimateRepo{existing: map[int64]*model.Estimate{}}
	items := &fakeItemRepo{
		items: []model.Item{
			{ID: 1, Name: "Widget", SellingPrice: dec(50), Stock: dec(10)},
		},
	}
	svc := NewEstimateService(repo, items)

	itemID := int64(1)
	estimate, err := svc.Create(context.Background(), 7, model.CreateEstimateRequest{
		EstimateDate:   date("2024-01-05"),
		TaxAmount:      dec(9),
		DiscountAmount: dec(4),
		PaymentType:    model.PaymentTypeCash,
		Items: []model.EstimateItemRequest{
			{ItemID: &itemID, Quantity: dec(2)},                          // price and name from catalog
			{Description: "Delivery", Quantity: dec(1), UnitPrice: dec(30)}, // free-form line
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "EST-0042", estimate.EstimateNumber)
	assert.Equal(t, model.EstimateStatusCompleted, estimate.Status)
	require.Len(t, estimate.Items, 2)
	assert.Equal(t, "Widget", estimate.Items[0].Description)
	assert.True(t, estimate.Items[0].UnitPrice.Equal(dec(50)))
	assert.True(t, estimate.Items[0].LineTotal.Equal(dec(100)))
	assert.True(t, estimate.Subtotal.Equal(dec(130)))
	assert.True(t, estimate.Total.Equal(dec(135))) // 130 + 9 - 4
}

func TestCreateEstimate_UnknownItem(t *testing.T) {
	repo := &fakeEstimateRepo{existing: map[int64]*model.Estimate{}}
	svc := NewEstimateService(repo, &fakeItemRepo{})

	itemID := int64(404)
	_, err := svc.Create(context.Background(), 7, model.CreateEstimateRequest{
		PaymentType: model.PaymentTypeCash,
		Items: []model.EstimateItemRequest{
			{ItemID: &itemID, Quantity: dec(1)},
		},
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCreateEstimate_RejectsNonPositiveQuantity(t *testing.T) {
	repo := &fakeEstimateRepo{existing: map[int64]*model.Estimate{}}
	svc := NewEstimateService(repo, &fakeItemRepo{})

	_, err := svc.Create(context.Background(), 7, model.CreateEstimateRequest{
		PaymentType: model.PaymentTypeCash,
		Items: []model.EstimateItemRequest{
			{Description: "Bad line", Quantity: dec(0), UnitPrice: dec(10)},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCancelEstimate_AlreadyCancelled(t *testing.T) {
	repo := &fakeEstimateRepo{existing: map[int64]*model.Estimate{
		1: {ID: 1, Status: model.EstimateStatusCancelled},
	}}
	svc := NewEstimateService(repo, &fakeItemRepo{})

	err := svc.Cancel(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrEstimateCancelled)
}

func TestRecordPayment(t *testing.T) {
	repo := &fakeEstimateRepo{existing: map[int64]*model.Estimate{
		1: {ID: 1, Status: model.EstimateStatusCompleted, PaymentType: model.PaymentTypeCredit},
	}}
	svc := NewEstimateService(repo, &fakeItemRepo{})

	estimate, err := svc.RecordPayment(context.Background(), 7, 1, model.RecordPaymentRequest{
		Date: date("2024-01-10"),
		Mode: model.PaymentTypeUPI,
	})
	require.NoError(t, err)
	require.NotNil(t, estimate.PaymentReceivedDate)
	assert.Equal(t, date("2024-01-10"), *estimate.PaymentReceivedDate)
	assert.Equal(t, model.PaymentTypeUPI, *estimate.PaymentReceivedMode)
}

func TestRecordPayment_NotFound(t *testing.T) {
	repo := &fakeEstimateRepo{existing: map[int64]*model.Estimate{}}
	svc := NewEstimateService(repo, &fakeItemRepo{})

	_, err := svc.RecordPayment(context.Background(), 7, 99, model.RecordPaymentRequest{
		Date: date("2024-01-10"),
		Mode: model.PaymentTypeCash,
	})
	assert.ErrorIs(t, err, ErrEstimateNotFound)
}
