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
	ErrPurchaseNotFound    = errors.New("purchase not found")
	ErrPurchaseAlreadyPaid = errors.New("purchase is already paid")
)

// PurchaseService defines supplier bill management
type PurchaseService interface {
	Create(ctx context.Context, accountID int, req model.CreatePurchaseRequest) (*model.Purchase, error)
	GetByID(ctx context.Context, accountID int, id int64) (*model.Purchase, error)
	List(ctx context.Context, accountID int, filters model.PurchaseFilters) ([]model.Purchase, error)
	Delete(ctx context.Context, accountID int, id int64) error
	MarkPaid(ctx context.Context, accountID int, id int64, req model.MarkPaidRequest) (*model.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	itemRepo     repository.ItemRepository
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo repository.PurchaseRepository, itemRepo repository.ItemRepository) PurchaseService {
	return &purchaseService{purchaseRepo: purchaseRepo, itemRepo: itemRepo}
}

// Create posts a purchase with its lines and stock additions. A paid purchase
// with no payment date defaults to the purchase date; a blank bill number gets
// the next sequential one.
func (s *purchaseService) Create(ctx context.Context, accountID int, req model.CreatePurchaseRequest) (*model.Purchase, error) {
	lines := make([]model.PurchaseItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, rl := range req.Items {
		if rl.Quantity.Cmp(decimal.Zero) <= 0 {
			return nil, ErrInvalidQuantity
		}
		line := model.PurchaseItem{
			ItemID:      rl.ItemID,
			Description: rl.Description,
			Quantity:    rl.Quantity,
			UnitCost:    rl.UnitCost,
		}
		if rl.ItemID != nil {
			item, err := s.itemRepo.FindByID(ctx, *rl.ItemID, accountID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve line item: %w", err)
			}
			if item == nil {
				return nil, ErrItemNotFound
			}
			if line.UnitCost.Cmp(decimal.Zero) == 0 {
				line.UnitCost = item.PurchasePrice
			}
			if line.Description == "" {
				line.Description = item.Name
			}
		}
		line.LineTotal = line.Quantity.Mul(line.UnitCost)
		subtotal = subtotal.Add(line.LineTotal)
		lines = append(lines, line)
	}

	billNumber := req.BillNumber
	if billNumber == "" {
		next, err := s.purchaseRepo.NextBillNumber(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to number purchase: %w", err)
		}
		billNumber = next
	}

	date := req.PurchaseDate
	if date.IsZero() {
		date = time.Now()
	}

	paymentDate := req.PaymentDate
	if req.PaymentStatus == model.PaymentStatusPaid && paymentDate == nil {
		paymentDate = &date
	}

	now := time.Now()
	purchase := &model.Purchase{
		UserID:        accountID,
		BillNumber:    billNumber,
		SupplierID:    req.SupplierID,
		PurchaseDate:  date,
		Subtotal:      subtotal,
		TaxAmount:     req.TaxAmount,
		Total:         subtotal.Add(req.TaxAmount),
		PaymentStatus: req.PaymentStatus,
		PaymentDate:   paymentDate,
		PaymentMode:   req.PaymentMode,
		Notes:         req.Notes,
		Items:         lines,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}
	return purchase, nil
}

func (s *purchaseService) GetByID(ctx context.Context, accountID int, id int64) (*model.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	return purchase, nil
}

func (s *purchaseService) List(ctx context.Context, accountID int, filters model.PurchaseFilters) ([]model.Purchase, error) {
	purchases, err := s.purchaseRepo.FindByUser(ctx, accountID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// Delete removes a purchase and reverses the stock its lines added
func (s *purchaseService) Delete(ctx context.Context, accountID int, id int64) error {
	if _, err := s.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.purchaseRepo.Delete(ctx, id, accountID); err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return nil
}

// MarkPaid settles a pending purchase. This is the moment it becomes cash
// outflow in the reports.
func (s *purchaseService) MarkPaid(ctx context.Context, accountID int, id int64, req model.MarkPaidRequest) (*model.Purchase, error) {
	purchase, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if purchase.PaymentStatus == model.PaymentStatusPaid {
		return nil, ErrPurchaseAlreadyPaid
	}
	if err := s.purchaseRepo.MarkPaid(ctx, id, accountID, req.Date, req.Mode); err != nil {
		return nil, fmt.Errorf("failed to mark purchase paid: %w", err)
	}
	purchase.PaymentStatus = model.PaymentStatusPaid
	purchase.PaymentDate = &req.Date
	purchase.PaymentMode = &req.Mode
	return purchase, nil
}
