package repository

import (
	"context"
	"errors"
	"fmt"

	"bizbook/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ItemRepository defines operations for inventory items
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id int64, userID int) (*model.Item, error)
	FindByUser(ctx context.Context, userID int) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id int64, userID int) error
	AdjustStock(ctx context.Context, id int64, userID int, delta decimal.Decimal, reason string) (decimal.Decimal, error)
	FindLowStock(ctx context.Context, userID int) ([]model.Item, error)
}

type itemRepository struct {
	db DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db DB) ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, user_id, name, sku, unit, purchase_price, selling_price, stock, low_stock_threshold, created_at, updated_at`

func scanItem(row pgx.Row) (*model.Item, error) {
	item := &model.Item{}
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.SKU, &item.Unit,
		&item.PurchasePrice, &item.SellingPrice, &item.Stock, &item.LowStockThreshold,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	sql := `INSERT INTO items (user_id, name, sku, unit, purchase_price, selling_price, stock, low_stock_threshold, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRow(ctx, sql, item.UserID, item.Name, item.SKU, item.Unit,
		item.PurchasePrice, item.SellingPrice, item.Stock, item.LowStockThreshold,
		item.CreatedAt, item.UpdatedAt).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64, userID int) (*model.Item, error) {
	sql := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND user_id = $2`
	item, err := scanItem(r.db.QueryRow(ctx, sql, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return item, nil
}

func (r *itemRepository) FindByUser(ctx context.Context, userID int) ([]model.Item, error) {
	sql := `SELECT ` + itemColumns + ` FROM items WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	sql := `UPDATE items SET name = $1, sku = $2, unit = $3, purchase_price = $4, selling_price = $5, low_stock_threshold = $6, updated_at = NOW()
            WHERE id = $7 AND user_id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, item.Name, item.SKU, item.Unit, item.PurchasePrice,
		item.SellingPrice, item.LowStockThreshold, item.ID, item.UserID).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("item not found or not owned by user for update")
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64, userID int) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("item not found for deletion")
	}
	return nil
}

// AdjustStock applies a signed stock delta and records the adjustment.
// Returns the new stock level.
func (r *itemRepository) AdjustStock(ctx context.Context, id int64, userID int, delta decimal.Decimal, reason string) (decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin stock adjustment: %w", err)
	}
	defer tx.Rollback(ctx)

	var newStock decimal.Decimal
	sql := `UPDATE items SET stock = stock + $1, updated_at = NOW() WHERE id = $2 AND user_id = $3 RETURNING stock`
	if err := tx.QueryRow(ctx, sql, delta, id, userID).Scan(&newStock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("item not found or not owned by user for stock adjustment")
		}
		return decimal.Zero, fmt.Errorf("failed to adjust stock: %w", err)
	}

	insert := `INSERT INTO stock_adjustments (item_id, user_id, delta, reason) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, insert, id, userID, delta, reason); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record stock adjustment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}
	return newStock, nil
}

func (r *itemRepository) FindLowStock(ctx context.Context, userID int) ([]model.Item, error) {
	sql := `SELECT ` + itemColumns + ` FROM items WHERE user_id = $1 AND stock <= low_stock_threshold ORDER BY name`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan low stock item row: %w", err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating low stock item rows: %w", err)
	}
	return items, nil
}
