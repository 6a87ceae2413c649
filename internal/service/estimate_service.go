package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizbook/internal/model"
	"bizbook/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrEstimateNotFound  = errors.New("estimate not found")
	ErrEstimateCancelled = errors.New("estimate is cancelled")
	ErrInvalidQuantity   = errors.New("line quantity must be positive")
)

// EstimateService defines sales document management
type EstimateService interface {
	Create(ctx context.Context, accountID int, req model.CreateEstimateRequest) (*model.Estimate, error)
	GetByID(ctx context.Context, accountID int, id int64) (*model.Estimate, error)
	List(ctx context.Context, accountID int, filters model.EstimateFilters) ([]model.Estimate, error)
	Cancel(ctx context.Context, accountID int, id int64) error
	Delete(ctx context.Context, accountID int, id int64) error
	RecordPayment(ctx context.Context, accountID int, id int64, req model.RecordPaymentRequest) (*model.Estimate, error)
}

type estimateService struct {
	estimateRepo repository.EstimateRepository
	itemRepo     repository.ItemRepository
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(estimateRepo repository.EstimateRepository, itemRepo repository.ItemRepository) EstimateService {
	return &estimateService{estimateRepo: estimateRepo, itemRepo: itemRepo}
}

// buildLines resolves item-backed lines against the catalog: a blank unit
// price falls back to the item's selling price, a blank description to the
// item's name. Line totals are quantity times unit price.
func (s *estimateService) buildLines(ctx context.Context, accountID int, reqLines []model.EstimateItemRequest) ([]model.EstimateItem, decimal.Decimal, error) {
	lines := make([]model.EstimateItem, 0, len(reqLines))
	subtotal := decimal.Zero
	for _, rl := range reqLines {
		if rl.Quantity.Cmp(decimal.Zero) <= 0 {
			return nil, decimal.Zero, ErrInvalidQuantity
		}
		line := model.EstimateItem{
			ItemID:      rl.ItemID,
			Description: rl.Description,
			Quantity:    rl.Quantity,
			UnitPrice:   rl.UnitPrice,
		}
		if rl.ItemID != nil {
			item, err := s.itemRepo.FindByID(ctx, *rl.ItemID, accountID)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("failed to resolve line item: %w", err)
			}
			if item == nil {
				return nil, decimal.Zero, ErrItemNotFound
			}
			if line.UnitPrice.Cmp(decimal.Zero) == 0 {
				line.UnitPrice = item.SellingPrice
			}
			if line.Description == "" {
				line.Description = item.Name
			}
		}
		line.LineTotal = line.Quantity.Mul(line.UnitPrice)
		subtotal = subtotal.Add(line.LineTotal)
		lines = append(lines, line)
	}
	return lines, subtotal, nil
}

// Create numbers the estimate, computes its totals and posts it with stock
// movement in one transaction.
func (s *estimateService) Create(ctx context.Context, accountID int, req model.CreateEstimateRequest) (*model.Estimate, error) {
	lines, subtotal, err := s.buildLines(ctx, accountID, req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.estimateRepo.NextNumber(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to number estimate: %w", err)
	}

	date := req.EstimateDate
	if date.IsZero() {
		date = time.Now()
	}

	now := time.Now()
	estimate := &model.Estimate{
		UserID:         accountID,
		EstimateNumber: number,
		CustomerID:     req.CustomerID,
		EstimateDate:   date,
		Status:         model.EstimateStatusCompleted,
		Subtotal:       subtotal,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		Total:          subtotal.Add(req.TaxAmount).Sub(req.DiscountAmount),
		PaymentType:    req.PaymentType,
		Notes:          req.Notes,
		Items:          lines,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to create estimate: %w", err)
	}
	return estimate, nil
}

func (s *estimateService) GetByID(ctx context.Context, accountID int, id int64) (*model.Estimate, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	if estimate == nil {
		return nil, ErrEstimateNotFound
	}
	return estimate, nil
}

func (s *estimateService) List(ctx context.Context, accountID int, filters model.EstimateFilters) ([]model.Estimate, error) {
	estimates, err := s.estimateRepo.FindByUser(ctx, accountID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}
	return estimates, nil
}

// Cancel voids a completed estimate and restores the stock its lines consumed
func (s *estimateService) Cancel(ctx context.Context, accountID int, id int64) error {
	estimate, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return err
	}
	if estimate.Status == model.EstimateStatusCancelled {
		return ErrEstimateCancelled
	}
	if err := s.estimateRepo.Cancel(ctx, id, accountID); err != nil {
		return fmt.Errorf("failed to cancel estimate: %w", err)
	}
	return nil
}

// Delete removes an estimate outright, restoring stock when it was completed
func (s *estimateService) Delete(ctx context.Context, accountID int, id int64) error {
	if _, err := s.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.estimateRepo.Delete(ctx, id, accountID); err != nil {
		return fmt.Errorf("failed to delete estimate: %w", err)
	}
	return nil
}

// RecordPayment sets the received date and mode. For a credit estimate this
// is the moment it becomes cash in the reports.
func (s *estimateService) RecordPayment(ctx context.Context, accountID int, id int64, req model.RecordPaymentRequest) (*model.Estimate, error) {
	estimate, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if estimate.Status == model.EstimateStatusCancelled {
		return nil, ErrEstimateCancelled
	}
	if err := s.estimateRepo.RecordPayment(ctx, id, accountID, req.Date, req.Mode); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	estimate.PaymentReceivedDate = &req.Date
	estimate.PaymentReceivedMode = &req.Mode
	return estimate, nil
}
