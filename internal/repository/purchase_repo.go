package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizbook/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PurchaseRepository defines operations for purchases (supplier bills)
type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, id int64, userID int) (*model.Purchase, error)
	FindByUser(ctx context.Context, userID int, filters model.PurchaseFilters) ([]model.Purchase, error)
	Delete(ctx context.Context, id int64, userID int) error
	MarkPaid(ctx context.Context, id int64, userID int, date time.Time, mode string) error
	NextBillNumber(ctx context.Context, userID int) (string, error)
	SupplierSums(ctx context.Context, userID int, supplierID int64) (purchased, paid decimal.Decimal, err error)
}

type purchaseRepository struct {
	db DB
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(db DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

const purchaseColumns = `p.id, p.user_id, p.bill_number, p.supplier_id, s.name, p.purchase_date,
            p.subtotal, p.tax_amount, p.total, p.payment_status, p.payment_date, p.payment_mode,
            p.notes, p.created_at, p.updated_at`

func scanPurchase(row pgx.Row) (*model.Purchase, error) {
	p := &model.Purchase{}
	err := row.Scan(&p.ID, &p.UserID, &p.BillNumber, &p.SupplierID, &p.SupplierName,
		&p.PurchaseDate, &p.Subtotal, &p.TaxAmount, &p.Total, &p.PaymentStatus,
		&p.PaymentDate, &p.PaymentMode, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a purchase with its lines and adds stock for item-backed
// lines, all in one transaction.
func (r *purchaseRepository) Create(ctx context.Context, p *model.Purchase) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin purchase create: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `INSERT INTO purchases (user_id, bill_number, supplier_id, purchase_date, subtotal, tax_amount,
                total, payment_status, payment_date, payment_mode, notes, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
            RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, sql, p.UserID, p.BillNumber, p.SupplierID, p.PurchaseDate, p.Subtotal,
		p.TaxAmount, p.Total, p.PaymentStatus, p.PaymentDate, p.PaymentMode, p.Notes,
		p.CreatedAt, p.UpdatedAt).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	for i := range p.Items {
		line := &p.Items[i]
		line.PurchaseID = p.ID
		lineSQL := `INSERT INTO purchase_items (purchase_id, item_id, description, quantity, unit_cost, line_total)
                    VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRow(ctx, lineSQL, line.PurchaseID, line.ItemID, line.Description,
			line.Quantity, line.UnitCost, line.LineTotal).Scan(&line.ID); err != nil {
			return fmt.Errorf("failed to create purchase line: %w", err)
		}
		if line.ItemID != nil {
			stockSQL := `UPDATE items SET stock = stock + $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
			if _, err := tx.Exec(ctx, stockSQL, line.Quantity, *line.ItemID, p.UserID); err != nil {
				return fmt.Errorf("failed to move stock for purchase line: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit purchase create: %w", err)
	}
	return nil
}

// FindByID retrieves a purchase with its lines
func (r *purchaseRepository) FindByID(ctx context.Context, id int64, userID int) (*model.Purchase, error) {
	sql := `SELECT ` + purchaseColumns + `
            FROM purchases p LEFT JOIN suppliers s ON p.supplier_id = s.id
            WHERE p.id = $1 AND p.user_id = $2`
	p, err := scanPurchase(r.db.QueryRow(ctx, sql, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find purchase by ID: %w", err)
	}

	lineSQL := `SELECT id, purchase_id, item_id, description, quantity, unit_cost, line_total
                FROM purchase_items WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, lineSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.PurchaseItem
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.ItemID, &line.Description,
			&line.Quantity, &line.UnitCost, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan purchase line: %w", err)
		}
		p.Items = append(p.Items, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase lines: %w", err)
	}
	return p, nil
}

// FindByUser retrieves purchases for an account with optional filters
func (r *purchaseRepository) FindByUser(ctx context.Context, userID int, filters model.PurchaseFilters) ([]model.Purchase, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + purchaseColumns + `
            FROM purchases p LEFT JOIN suppliers s ON p.supplier_id = s.id
            WHERE p.user_id = $1`)
	args := []interface{}{userID}
	argCount := 2

	if filters.SupplierID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.supplier_id = $%d", argCount))
		args = append(args, *filters.SupplierID)
		argCount++
	}
	if filters.PaymentStatus != nil && *filters.PaymentStatus != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.payment_status = $%d", argCount))
		args = append(args, *filters.PaymentStatus)
		argCount++
	}
	if filters.StartDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.purchase_date >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.purchase_date <= $%d", argCount))
		args = append(args, *filters.EndDate)
	}

	queryBuilder.WriteString(" ORDER BY p.purchase_date DESC, p.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase row: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase rows: %w", err)
	}
	return purchases, nil
}

// Delete removes a purchase, reversing the stock its lines added
func (r *purchaseRepository) Delete(ctx context.Context, id int64, userID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin purchase delete: %w", err)
	}
	defer tx.Rollback(ctx)

	reverseSQL := `UPDATE items SET stock = stock - pi.quantity, updated_at = NOW()
                   FROM purchase_items pi, purchases p
                   WHERE pi.purchase_id = $1 AND pi.item_id = items.id
                     AND p.id = pi.purchase_id AND p.user_id = $2`
	if _, err := tx.Exec(ctx, reverseSQL, id, userID); err != nil {
		return fmt.Errorf("failed to reverse stock on delete: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM purchases WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("purchase not found for deletion")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit purchase delete: %w", err)
	}
	return nil
}

// MarkPaid settles a pending purchase
func (r *purchaseRepository) MarkPaid(ctx context.Context, id int64, userID int, date time.Time, mode string) error {
	sql := `UPDATE purchases SET payment_status = 'paid', payment_date = $1, payment_mode = $2, updated_at = NOW()
            WHERE id = $3 AND user_id = $4 AND payment_status = 'pending'`
	cmdTag, err := r.db.Exec(ctx, sql, date, mode, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark purchase paid: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("purchase not found or already paid")
	}
	return nil
}

// NextBillNumber produces the next sequential bill number for an account
func (r *purchaseRepository) NextBillNumber(ctx context.Context, userID int) (string, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count purchases for numbering: %w", err)
	}
	return fmt.Sprintf("BILL-%04d", count+1), nil
}

// SupplierSums returns the totals purchased from and paid to a supplier
func (r *purchaseRepository) SupplierSums(ctx context.Context, userID int, supplierID int64) (decimal.Decimal, decimal.Decimal, error) {
	var purchased, paid decimal.Decimal
	sql := `SELECT
                COALESCE(SUM(total), 0),
                COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN total ELSE 0 END), 0)
            FROM purchases
            WHERE user_id = $1 AND supplier_id = $2`
	err := r.db.QueryRow(ctx, sql, userID, supplierID).Scan(&purchased, &paid)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum supplier ledger: %w", err)
	}
	return purchased, paid, nil
}
