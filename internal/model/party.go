package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a party estimates are billed to.
type Customer struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Supplier is a party purchases are billed from.
type Supplier struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartyRequest creates or updates a customer or supplier.
type PartyRequest struct {
	Name    string  `json:"name" binding:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// CustomerLedger summarises a customer's position: what was billed to them,
// what cash has actually been received, and what is still owed.
type CustomerLedger struct {
	Customer      *Customer       `json:"customer"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	TotalReceived decimal.Decimal `json:"total_received"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Estimates     []Estimate      `json:"estimates"`
}

// SupplierLedger summarises a supplier's position.
type SupplierLedger struct {
	Supplier       *Supplier       `json:"supplier"`
	TotalPurchased decimal.Decimal `json:"total_purchased"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	Purchases      []Purchase      `json:"purchases"`
}
