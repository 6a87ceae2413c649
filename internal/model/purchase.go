package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// Purchase is a supplier bill. Only paid purchases count as cash outflow.
type Purchase struct {
	ID            int64           `json:"id"`
	UserID        int             `json:"user_id"`
	BillNumber    string          `json:"bill_number"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	SupplierName  *string         `json:"supplier_name,omitempty"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus string          `json:"payment_status"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	PaymentMode   *string         `json:"payment_mode,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Items         []PurchaseItem  `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PurchaseItem is one line of a purchase.
type PurchaseItem struct {
	ID          int64           `json:"id"`
	PurchaseID  int64           `json:"purchase_id"`
	ItemID      *int64          `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreatePurchaseRequest creates a new purchase with its lines.
type CreatePurchaseRequest struct {
	BillNumber    string                `json:"bill_number"`
	SupplierID    *int64                `json:"supplier_id"`
	PurchaseDate  time.Time             `json:"purchase_date"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	PaymentStatus string                `json:"payment_status" binding:"required,oneof=paid pending"`
	PaymentDate   *time.Time            `json:"payment_date"`
	PaymentMode   *string               `json:"payment_mode" binding:"omitempty,oneof=cash card upi"`
	Notes         *string               `json:"notes"`
	Items         []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseItemRequest is one requested line.
type PurchaseItemRequest struct {
	ItemID      *int64          `json:"item_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// MarkPaidRequest settles a pending purchase.
type MarkPaidRequest struct {
	Date time.Time `json:"date" binding:"required"`
	Mode string    `json:"mode" binding:"required,oneof=cash card upi"`
}

// PurchaseFilters narrows purchase listings.
type PurchaseFilters struct {
	SupplierID    *int64
	PaymentStatus *string
	StartDate     *time.Time
	EndDate       *time.Time
}
