package repository

import (
	"context"
	"fmt"
	"time"

	"bizbook/internal/model"

	"github.com/shopspring/decimal"
)

// LedgerRepository is the reporting engine's read layer. The cash-view
// queries filter on the payment-effective date computed in SQL; the accrual
// queries filter on the nominal document date. The two date semantics are
// intentionally separate and must stay that way.
type LedgerRepository interface {
	// Cash view: only events that actually moved cash, by effective date.
	IncomeEventsBefore(ctx context.Context, userID int, cutoff time.Time) ([]model.IncomeEvent, error)
	IncomeEventsBetween(ctx context.Context, userID int, start, end time.Time) ([]model.IncomeEvent, error)
	ExpenseEventsBefore(ctx context.Context, userID int, cutoff time.Time) ([]model.ExpenseEvent, error)
	ExpenseEventsBetween(ctx context.Context, userID int, start, end time.Time) ([]model.ExpenseEvent, error)

	// Accrual view: completed estimates by sale date, all purchases by
	// purchase date, payment timing ignored.
	AccrualEstimatesBetween(ctx context.Context, userID int, start, end time.Time) ([]model.Estimate, error)
	AccrualPurchasesBetween(ctx context.Context, userID int, start, end time.Time) ([]model.Purchase, error)

	// Dashboard sums.
	PendingReceivables(ctx context.Context, userID int) (decimal.Decimal, error)
	PendingPayables(ctx context.Context, userID int) (decimal.Decimal, error)
}

type ledgerRepository struct {
	db DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// incomeEffectiveDate is the SQL form of IncomeEvent.EffectiveDate: a credit
// sale is cash only once both received fields are recorded; anything else is
// cash on the received date if present, else the sale date.
const incomeEffectiveDate = `CASE
        WHEN e.payment_type = 'credit' THEN
            CASE WHEN e.payment_received_date IS NOT NULL AND e.payment_received_mode IS NOT NULL
                 THEN e.payment_received_date END
        ELSE COALESCE(e.payment_received_date, e.estimate_date)
    END`

// expenseEffectiveDate is the SQL form of ExpenseEvent.EffectiveDate: paid
// purchases only, on the payment date if present, else the purchase date.
const expenseEffectiveDate = `CASE
        WHEN p.payment_status = 'paid' THEN COALESCE(p.payment_date, p.purchase_date)
    END`

const incomeEventColumns = `e.id, e.estimate_number, c.name, e.estimate_date, e.total,
        e.payment_type, e.payment_received_date, e.payment_received_mode`

func (r *ledgerRepository) queryIncomeEvents(ctx context.Context, sql string, args ...interface{}) ([]model.IncomeEvent, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query income events: %w", err)
	}
	defer rows.Close()

	var events []model.IncomeEvent
	for rows.Next() {
		var ev model.IncomeEvent
		if err := rows.Scan(&ev.EstimateID, &ev.EstimateNumber, &ev.CustomerName, &ev.Date,
			&ev.Amount, &ev.PaymentType, &ev.ReceivedDate, &ev.ReceivedMode); err != nil {
			return nil, fmt.Errorf("failed to scan income event: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income events: %w", err)
	}
	return events, nil
}

// IncomeEventsBefore returns cash income with effective date strictly before
// the cutoff. Feeds the opening-balance calculation.
func (r *ledgerRepository) IncomeEventsBefore(ctx context.Context, userID int, cutoff time.Time) ([]model.IncomeEvent, error) {
	sql := `SELECT ` + incomeEventColumns + `
            FROM estimates e LEFT JOIN customers c ON e.customer_id = c.id
            WHERE e.user_id = $1 AND e.status = 'completed'
              AND ` + incomeEffectiveDate + ` < $2`
	return r.queryIncomeEvents(ctx, sql, userID, cutoff)
}

// IncomeEventsBetween returns cash income with effective date inside the
// inclusive range.
func (r *ledgerRepository) IncomeEventsBetween(ctx context.Context, userID int, start, end time.Time) ([]model.IncomeEvent, error) {
	sql := `SELECT ` + incomeEventColumns + `
            FROM estimates e LEFT JOIN customers c ON e.customer_id = c.id
            WHERE e.user_id = $1 AND e.status = 'completed'
              AND ` + incomeEffectiveDate + ` BETWEEN $2 AND $3
            ORDER BY ` + incomeEffectiveDate + `, e.id`
	return r.queryIncomeEvents(ctx, sql, userID, start, end)
}

const expenseEventColumns = `p.id, p.bill_number, s.name, p.purchase_date, p.total,
        p.payment_status, p.payment_date, p.payment_mode`

func (r *ledgerRepository) queryExpenseEvents(ctx context.Context, sql string, args ...interface{}) ([]model.ExpenseEvent, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense events: %w", err)
	}
	defer rows.Close()

	var events []model.ExpenseEvent
	for rows.Next() {
		var ev model.ExpenseEvent
		if err := rows.Scan(&ev.PurchaseID, &ev.BillNumber, &ev.SupplierName, &ev.Date,
			&ev.Amount, &ev.Status, &ev.PaymentDate, &ev.PaymentMode); err != nil {
			return nil, fmt.Errorf("failed to scan expense event: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense events: %w", err)
	}
	return events, nil
}

// ExpenseEventsBefore returns cash outflow with effective date strictly
// before the cutoff.
func (r *ledgerRepository) ExpenseEventsBefore(ctx context.Context, userID int, cutoff time.Time) ([]model.ExpenseEvent, error) {
	sql := `SELECT ` + expenseEventColumns + `
            FROM purchases p LEFT JOIN suppliers s ON p.supplier_id = s.id
            WHERE p.user_id = $1
              AND ` + expenseEffectiveDate + ` < $2`
	return r.queryExpenseEvents(ctx, sql, userID, cutoff)
}

// ExpenseEventsBetween returns cash outflow with effective date inside the
// inclusive range.
func (r *ledgerRepository) ExpenseEventsBetween(ctx context.Context, userID int, start, end time.Time) ([]model.ExpenseEvent, error) {
	sql := `SELECT ` + expenseEventColumns + `
            FROM purchases p LEFT JOIN suppliers s ON p.supplier_id = s.id
            WHERE p.user_id = $1
              AND ` + expenseEffectiveDate + ` BETWEEN $2 AND $3
            ORDER BY ` + expenseEffectiveDate + `, p.id`
	return r.queryExpenseEvents(ctx, sql, userID, start, end)
}

// AccrualEstimatesBetween returns completed estimates by sale date.
func (r *ledgerRepository) AccrualEstimatesBetween(ctx context.Context, userID int, start, end time.Time) ([]model.Estimate, error) {
	sql := `SELECT ` + estimateColumns + `
            FROM estimates e LEFT JOIN customers c ON e.customer_id = c.id
            WHERE e.user_id = $1 AND e.status = 'completed'
              AND e.estimate_date BETWEEN $2 AND $3
            ORDER BY e.estimate_date, e.id`
	rows, err := r.db.Query(ctx, sql, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual estimates: %w", err)
	}
	defer rows.Close()

	var estimates []model.Estimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accrual estimate: %w", err)
		}
		estimates = append(estimates, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accrual estimates: %w", err)
	}
	return estimates, nil
}

// AccrualPurchasesBetween returns all purchases by purchase date, paid or not.
func (r *ledgerRepository) AccrualPurchasesBetween(ctx context.Context, userID int, start, end time.Time) ([]model.Purchase, error) {
	sql := `SELECT ` + purchaseColumns + `
            FROM purchases p LEFT JOIN suppliers s ON p.supplier_id = s.id
            WHERE p.user_id = $1
              AND p.purchase_date BETWEEN $2 AND $3
            ORDER BY p.purchase_date, p.id`
	rows, err := r.db.Query(ctx, sql, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accrual purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accrual purchases: %w", err)
	}
	return purchases, nil
}

// PendingReceivables sums credit sales that have not been collected yet.
func (r *ledgerRepository) PendingReceivables(ctx context.Context, userID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	sql := `SELECT COALESCE(SUM(total), 0) FROM estimates
            WHERE user_id = $1 AND status = 'completed' AND payment_type = 'credit'
              AND (payment_received_date IS NULL OR payment_received_mode IS NULL)`
	if err := r.db.QueryRow(ctx, sql, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending receivables: %w", err)
	}
	return total, nil
}

// PendingPayables sums purchases still awaiting payment.
func (r *ledgerRepository) PendingPayables(ctx context.Context, userID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	sql := `SELECT COALESCE(SUM(total), 0) FROM purchases
            WHERE user_id = $1 AND payment_status = 'pending'`
	if err := r.db.QueryRow(ctx, sql, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending payables: %w", err)
	}
	return total, nil
}
