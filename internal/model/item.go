package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stocked product or service line.
type Item struct {
	ID                int64           `json:"id"`
	UserID            int             `json:"user_id"`
	Name              string          `json:"name"`
	SKU               *string         `json:"sku,omitempty"`
	Unit              string          `json:"unit"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	Stock             decimal.Decimal `json:"stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CreateItemRequest creates a new item.
type CreateItemRequest struct {
	Name              string          `json:"name" binding:"required"`
	SKU               *string         `json:"sku"`
	Unit              string          `json:"unit"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	OpeningStock      decimal.Decimal `json:"opening_stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateItemRequest partially updates an item. Stock is changed only through
// adjustments and document postings, never directly.
type UpdateItemRequest struct {
	Name              *string          `json:"name,omitempty"`
	SKU               *string          `json:"sku,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice      *decimal.Decimal `json:"selling_price,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
}

// AdjustStockRequest applies a signed stock delta with a reason.
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}

// InventoryReport lists current stock with low-stock flags.
type InventoryReport struct {
	TotalItems    int                  `json:"total_items"`
	StockValue    decimal.Decimal      `json:"stock_value"` // at purchase price
	LowStockCount int                  `json:"low_stock_count"`
	Items         []InventoryReportRow `json:"items"`
}

// InventoryReportRow is one item in the inventory report.
type InventoryReportRow struct {
	ItemID     int64           `json:"item_id"`
	Name       string          `json:"name"`
	SKU        *string         `json:"sku,omitempty"`
	Unit       string          `json:"unit"`
	Stock      decimal.Decimal `json:"stock"`
	StockValue decimal.Decimal `json:"stock_value"`
	LowStock   bool            `json:"low_stock"`
}
