package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeEvent is a completed estimate seen by the reporting engine.
type IncomeEvent struct {
	EstimateID     int64
	EstimateNumber string
	CustomerName   *string
	Date           time.Time // sale date
	Amount         decimal.Decimal
	PaymentType    string
	ReceivedDate   *time.Time
	ReceivedMode   *string
}

// EffectiveDate returns the date on which the event affects cash, and whether
// it affects cash at all. A credit sale without both a received date and a
// received mode is accrued but not yet cash.
func (e IncomeEvent) EffectiveDate() (time.Time, bool) {
	if e.PaymentType == PaymentTypeCredit {
		if e.ReceivedDate != nil && e.ReceivedMode != nil && *e.ReceivedMode != "" {
			return *e.ReceivedDate, true
		}
		return time.Time{}, false
	}
	if e.ReceivedDate != nil {
		return *e.ReceivedDate, true
	}
	return e.Date, true
}

// EffectiveMethod returns the payment method the cash actually moved under.
func (e IncomeEvent) EffectiveMethod() string {
	if e.ReceivedMode != nil && *e.ReceivedMode != "" {
		return *e.ReceivedMode
	}
	return e.PaymentType
}

// ExpenseEvent is a purchase seen by the reporting engine.
type ExpenseEvent struct {
	PurchaseID   int64
	BillNumber   string
	SupplierName *string
	Date         time.Time // purchase date
	Amount       decimal.Decimal
	Status       string
	PaymentDate  *time.Time
	PaymentMode  *string
}

// EffectiveDate returns the cash date; pending purchases have none.
func (e ExpenseEvent) EffectiveDate() (time.Time, bool) {
	if e.Status != PaymentStatusPaid {
		return time.Time{}, false
	}
	if e.PaymentDate != nil {
		return *e.PaymentDate, true
	}
	return e.Date, true
}

// EffectiveMethod returns the payment mode, defaulting to cash.
func (e ExpenseEvent) EffectiveMethod() string {
	if e.PaymentMode != nil && *e.PaymentMode != "" {
		return *e.PaymentMode
	}
	return PaymentTypeCash
}

// CashFlowReport is the cash-view report: only money that actually moved.
type CashFlowReport struct {
	Summary             CashFlowSummary      `json:"summary"`
	DailyBreakdown      []DailyCashRow       `json:"daily_breakdown"`
	InflowTransactions  []InflowTransaction  `json:"inflow_transactions"`
	OutflowTransactions []OutflowTransaction `json:"outflow_transactions"`
}

// CashFlowSummary carries period totals and the balance identity
// closing = opening + inflow - outflow.
type CashFlowSummary struct {
	OpeningBalance         decimal.Decimal            `json:"opening_balance"`
	TotalInflow            decimal.Decimal            `json:"total_inflow"`
	TotalOutflow           decimal.Decimal            `json:"total_outflow"`
	NetCashFlow            decimal.Decimal            `json:"net_cash_flow"`
	ClosingBalance         decimal.Decimal            `json:"closing_balance"`
	InflowByPaymentMethod  map[string]decimal.Decimal `json:"inflow_by_payment_method"`
	OutflowByPaymentMethod map[string]decimal.Decimal `json:"outflow_by_payment_method"`
}

// DailyCashRow is one calendar day of the running-balance walk.
type DailyCashRow struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	CashIn         decimal.Decimal `json:"cash_in"`
	CashOut        decimal.Decimal `json:"cash_out"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// InflowTransaction is one cash receipt in the report range.
type InflowTransaction struct {
	Date           string          `json:"date"`
	Source         string          `json:"source"`
	EstimateNumber *string         `json:"estimate_number,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	Amount         decimal.Decimal `json:"amount"`
}

// OutflowTransaction is one cash payment in the report range.
type OutflowTransaction struct {
	Date          string          `json:"date"`
	Purpose       string          `json:"purpose"`
	BillNumber    *string         `json:"bill_number,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
}

// IncomeExpenseReport is the accrual-view report: estimates by sale date,
// purchases by purchase date, payment timing ignored.
type IncomeExpenseReport struct {
	Summary             IncomeExpenseSummary `json:"summary"`
	DailyBreakdown      []DailyAccrualRow    `json:"daily_breakdown"`
	IncomeTransactions  []IncomeTransaction  `json:"income_transactions"`
	ExpenseTransactions []ExpenseTransaction `json:"expense_transactions"`
}

// IncomeExpenseSummary carries accrual totals for the period.
type IncomeExpenseSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	TaxCollected  decimal.Decimal `json:"tax_collected"`
	DiscountGiven decimal.Decimal `json:"discount_given"`
}

// DailyAccrualRow is one calendar day of accrued income and expenses.
type DailyAccrualRow struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// IncomeTransaction is one accrued sale in the report range.
type IncomeTransaction struct {
	Date           string          `json:"date"`
	Source         string          `json:"source"`
	EstimateNumber *string         `json:"estimate_number,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// ExpenseTransaction is one accrued purchase in the report range.
type ExpenseTransaction struct {
	Date       string          `json:"date"`
	Purpose    string          `json:"purpose"`
	BillNumber *string         `json:"bill_number,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// DashboardSummary is the landing-page snapshot for an account.
type DashboardSummary struct {
	MonthIncome        decimal.Decimal `json:"month_income"`
	MonthExpenses      decimal.Decimal `json:"month_expenses"`
	MonthProfit        decimal.Decimal `json:"month_profit"`
	PendingReceivables decimal.Decimal `json:"pending_receivables"` // unpaid credit sales
	PendingPayables    decimal.Decimal `json:"pending_payables"`    // pending purchases
	LowStockItems      int             `json:"low_stock_items"`
}
