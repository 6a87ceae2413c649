package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentTypeCash   = "cash"
	PaymentTypeCard   = "card"
	PaymentTypeUPI    = "upi"
	PaymentTypeCredit = "credit"
)

const (
	EstimateStatusCompleted = "completed"
	EstimateStatusCancelled = "cancelled"
)

// Estimate is a sales document. Completed estimates are the income side of the
// books; credit estimates become cash only once a payment is recorded.
type Estimate struct {
	ID                  int64           `json:"id"`
	UserID              int             `json:"user_id"`
	EstimateNumber      string          `json:"estimate_number"`
	CustomerID          *int64          `json:"customer_id,omitempty"`
	CustomerName        *string         `json:"customer_name,omitempty"`
	EstimateDate        time.Time       `json:"estimate_date"`
	Status              string          `json:"status"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	Total               decimal.Decimal `json:"total"`
	PaymentType         string          `json:"payment_type"`
	PaymentReceivedDate *time.Time      `json:"payment_received_date,omitempty"`
	PaymentReceivedMode *string         `json:"payment_received_mode,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	Items               []EstimateItem  `json:"items,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// EstimateItem is one line of an estimate.
type EstimateItem struct {
	ID          int64           `json:"id"`
	EstimateID  int64           `json:"estimate_id"`
	ItemID      *int64          `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreateEstimateRequest creates a new estimate with its lines.
type CreateEstimateRequest struct {
	CustomerID     *int64                `json:"customer_id"`
	EstimateDate   time.Time             `json:"estimate_date"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	PaymentType    string                `json:"payment_type" binding:"required,oneof=cash card upi credit"`
	Notes          *string               `json:"notes"`
	Items          []EstimateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// EstimateItemRequest is one requested line.
type EstimateItemRequest struct {
	ItemID      *int64          `json:"item_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// RecordPaymentRequest records cash receipt for a credit estimate (or corrects
// the received date/mode of a non-credit one).
type RecordPaymentRequest struct {
	Date time.Time `json:"date" binding:"required"`
	Mode string    `json:"mode" binding:"required,oneof=cash card upi"`
}

// EstimateFilters narrows estimate listings.
type EstimateFilters struct {
	CustomerID  *int64
	Status      *string
	PaymentType *string
	StartDate   *time.Time
	EndDate     *time.Time
}
