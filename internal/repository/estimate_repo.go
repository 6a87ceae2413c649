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

// EstimateRepository defines operations for estimates (sales documents)
type EstimateRepository interface {
	Create(ctx context.Context, e *model.Estimate) error
	FindByID(ctx context.Context, id int64, userID int) (*model.Estimate, error)
	FindByUser(ctx context.Context, userID int, filters model.EstimateFilters) ([]model.Estimate, error)
	Cancel(ctx context.Context, id int64, userID int) error
	Delete(ctx context.Context, id int64, userID int) error
	RecordPayment(ctx context.Context, id int64, userID int, date time.Time, mode string) error
	NextNumber(ctx context.Context, userID int) (string, error)
	CustomerSums(ctx context.Context, userID int, customerID int64) (billed, received decimal.Decimal, err error)
}

type estimateRepository struct {
	db DB
}

// NewEstimateRepository creates a new EstimateRepository
func NewEstimateRepository(db DB) EstimateRepository {
	return &estimateRepository{db: db}
}

const estimateColumns = `e.id, e.user_id, e.estimate_number, e.customer_id, c.name, e.estimate_date, e.status,
            e.subtotal, e.tax_amount, e.discount_amount, e.total, e.payment_type,
            e.payment_received_date, e.payment_received_mode, e.notes, e.created_at, e.updated_at`

func scanEstimate(row pgx.Row) (*model.Estimate, error) {
	e := &model.Estimate{}
	err := row.Scan(&e.ID, &e.UserID, &e.EstimateNumber, &e.CustomerID, &e.CustomerName,
		&e.EstimateDate, &e.Status, &e.Subtotal, &e.TaxAmount, &e.DiscountAmount, &e.Total,
		&e.PaymentType, &e.PaymentReceivedDate, &e.PaymentReceivedMode, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts an estimate with its lines and moves stock for item-backed
// lines, all in one transaction.
func (r *estimateRepository) Create(ctx context.Context, e *model.Estimate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin estimate create: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `INSERT INTO estimates (user_id, estimate_number, customer_id, estimate_date, status, subtotal,
                tax_amount, discount_amount, total, payment_type, payment_received_date, payment_received_mode,
                notes, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
            RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, sql, e.UserID, e.EstimateNumber, e.CustomerID, e.EstimateDate, e.Status,
		e.Subtotal, e.TaxAmount, e.DiscountAmount, e.Total, e.PaymentType,
		e.PaymentReceivedDate, e.PaymentReceivedMode, e.Notes, e.CreatedAt, e.UpdatedAt).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create estimate: %w", err)
	}

	for i := range e.Items {
		line := &e.Items[i]
		line.EstimateID = e.ID
		lineSQL := `INSERT INTO estimate_items (estimate_id, item_id, description, quantity, unit_price, line_total)
                    VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRow(ctx, lineSQL, line.EstimateID, line.ItemID, line.Description,
			line.Quantity, line.UnitPrice, line.LineTotal).Scan(&line.ID); err != nil {
			return fmt.Errorf("failed to create estimate line: %w", err)
		}
		if line.ItemID != nil {
			stockSQL := `UPDATE items SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
			if _, err := tx.Exec(ctx, stockSQL, line.Quantity, *line.ItemID, e.UserID); err != nil {
				return fmt.Errorf("failed to move stock for estimate line: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit estimate create: %w", err)
	}
	return nil
}

// FindByID retrieves an estimate with its lines
func (r *estimateRepository) FindByID(ctx context.Context, id int64, userID int) (*model.Estimate, error) {
	sql := `SELECT ` + estimateColumns + `
            FROM estimates e LEFT JOIN customers c ON e.customer_id = c.id
            WHERE e.id = $1 AND e.user_id = $2`
	e, err := scanEstimate(r.db.QueryRow(ctx, sql, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find estimate by ID: %w", err)
	}

	lineSQL := `SELECT id, estimate_id, item_id, description, quantity, unit_price, line_total
                FROM estimate_items WHERE estimate_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, lineSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimate lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.EstimateItem
		if err := rows.Scan(&line.ID, &line.EstimateID, &line.ItemID, &line.Description,
			&line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan estimate line: %w", err)
		}
		e.Items = append(e.Items, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating estimate lines: %w", err)
	}
	return e, nil
}

// FindByUser retrieves estimates for an account with optional filters
func (r *estimateRepository) FindByUser(ctx context.Context, userID int, filters model.EstimateFilters) ([]model.Estimate, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + estimateColumns + `
            FROM estimates e LEFT JOIN customers c ON e.customer_id = c.id
            WHERE e.user_id = $1`)
	args := []interface{}{userID}
	argCount := 2

	if filters.CustomerID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.customer_id = $%d", argCount))
		args = append(args, *filters.CustomerID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.PaymentType != nil && *filters.PaymentType != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.payment_type = $%d", argCount))
		args = append(args, *filters.PaymentType)
		argCount++
	}
	if filters.StartDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.estimate_date >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.estimate_date <= $%d", argCount))
		args = append(args, *filters.EndDate)
	}

	queryBuilder.WriteString(" ORDER BY e.estimate_date DESC, e.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimates: %w", err)
	}
	defer rows.Close()

	var estimates []model.Estimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan estimate row: %w", err)
		}
		estimates = append(estimates, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating estimate rows: %w", err)
	}
	return estimates, nil
}

// Cancel marks an estimate cancelled and restores stock for its lines
func (r *estimateRepository) Cancel(ctx context.Context, id int64, userID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin estimate cancel: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `UPDATE estimates SET status = 'cancelled', updated_at = NOW()
            WHERE id = $1 AND user_id = $2 AND status = 'completed'`
	cmdTag, err := tx.Exec(ctx, sql, id, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel estimate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("estimate not found or already cancelled")
	}

	restoreSQL := `UPDATE items SET stock = stock + ei.quantity, updated_at = NOW()
                   FROM estimate_items ei
                   WHERE ei.estimate_id = $1 AND ei.item_id = items.id`
	if _, err := tx.Exec(ctx, restoreSQL, id); err != nil {
		return fmt.Errorf("failed to restore stock on cancel: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit estimate cancel: %w", err)
	}
	return nil
}

// Delete removes an estimate, restoring stock first when it was completed
func (r *estimateRepository) Delete(ctx context.Context, id int64, userID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin estimate delete: %w", err)
	}
	defer tx.Rollback(ctx)

	restoreSQL := `UPDATE items SET stock = stock + ei.quantity, updated_at = NOW()
                   FROM estimate_items ei, estimates e
                   WHERE ei.estimate_id = $1 AND ei.item_id = items.id
                     AND e.id = ei.estimate_id AND e.user_id = $2 AND e.status = 'completed'`
	if _, err := tx.Exec(ctx, restoreSQL, id, userID); err != nil {
		return fmt.Errorf("failed to restore stock on delete: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM estimates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete estimate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("estimate not found for deletion")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit estimate delete: %w", err)
	}
	return nil
}

// RecordPayment sets the received date and mode on an estimate
func (r *estimateRepository) RecordPayment(ctx context.Context, id int64, userID int, date time.Time, mode string) error {
	sql := `UPDATE estimates SET payment_received_date = $1, payment_received_mode = $2, updated_at = NOW()
            WHERE id = $3 AND user_id = $4 AND status = 'completed'`
	cmdTag, err := r.db.Exec(ctx, sql, date, mode, id, userID)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("estimate not found for payment")
	}
	return nil
}

// NextNumber produces the next sequential estimate number for an account
func (r *estimateRepository) NextNumber(ctx context.Context, userID int) (string, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM estimates WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count estimates for numbering: %w", err)
	}
	return fmt.Sprintf("EST-%04d", count+1), nil
}

// CustomerSums returns the total billed to a customer and the cash actually
// received from them. Credit sales without a recorded payment are billed but
// not received.
func (r *estimateRepository) CustomerSums(ctx context.Context, userID int, customerID int64) (decimal.Decimal, decimal.Decimal, error) {
	var billed, received decimal.Decimal
	sql := `SELECT
                COALESCE(SUM(total), 0),
                COALESCE(SUM(CASE
                    WHEN payment_type <> 'credit' THEN total
                    WHEN payment_received_date IS NOT NULL AND payment_received_mode IS NOT NULL THEN total
                    ELSE 0
                END), 0)
            FROM estimates
            WHERE user_id = $1 AND customer_id = $2 AND status = 'completed'`
	err := r.db.QueryRow(ctx, sql, userID, customerID).Scan(&billed, &received)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum customer ledger: %w", err)
	}
	return billed, received, nil
}
