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

var ErrItemNotFound = errors.New("item not found")

// ItemService defines inventory item management
type ItemService interface {
	Create(ctx context.Context, accountID int, req model.CreateItemRequest) (*model.Item, error)
	GetByID(ctx context.Context, accountID int, id int64) (*model.Item, error)
	List(ctx context.Context, accountID int) ([]model.Item, error)
	Update(ctx context.Context, accountID int, id int64, req model.UpdateItemRequest) (*model.Item, error)
	Delete(ctx context.Context, accountID int, id int64) error
	AdjustStock(ctx context.Context, accountID int, id int64, req model.AdjustStockRequest) (*model.Item, error)
	ListLowStock(ctx context.Context, accountID int) ([]model.Item, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

func (s *itemService) Create(ctx context.Context, accountID int, req model.CreateItemRequest) (*model.Item, error) {
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	now := time.Now()
	item := &model.Item{
		UserID:            accountID,
		Name:              req.Name,
		SKU:               req.SKU,
		Unit:              unit,
		PurchasePrice:     req.PurchasePrice,
		SellingPrice:      req.SellingPrice,
		Stock:             req.OpeningStock,
		LowStockThreshold: req.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, accountID int, id int64) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, accountID int) ([]model.Item, error) {
	items, err := s.itemRepo.FindByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Update applies a partial update. Stock is never set here; it moves only
// through document postings and explicit adjustments.
func (s *itemService) Update(ctx context.Context, accountID int, id int64, req model.UpdateItemRequest) (*model.Item, error) {
	item, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = req.SKU
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		item.SellingPrice = *req.SellingPrice
	}
	if req.LowStockThreshold != nil {
		item.LowStockThreshold = *req.LowStockThreshold
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, accountID int, id int64) error {
	if _, err := s.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id, accountID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// AdjustStock applies a signed delta and returns the item with its new stock.
// Negative stock is allowed; the report layer surfaces it, not this one.
func (s *itemService) AdjustStock(ctx context.Context, accountID int, id int64, req model.AdjustStockRequest) (*model.Item, error) {
	item, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if req.Delta.Cmp(decimal.Zero) == 0 {
		return item, nil
	}
	newStock, err := s.itemRepo.AdjustStock(ctx, id, accountID, req.Delta, req.Reason)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	item.Stock = newStock
	return item, nil
}

func (s *itemService) ListLowStock(ctx context.Context, accountID int) ([]model.Item, error) {
	items, err := s.itemRepo.FindLowStock(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return items, nil
}
