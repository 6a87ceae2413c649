package repository

import (
	"context"
	"errors"
	"fmt"

	"bizbook/internal/model"

	"github.com/jackc/pgx/v5"
)

// CustomerRepository defines operations for customer data
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id int64, userID int) (*model.Customer, error)
	FindByUser(ctx context.Context, userID int) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int64, userID int) error
}

type customerRepository struct {
	db DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	sql := `INSERT INTO customers (user_id, name, phone, email, address, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql, c.UserID, c.Name, c.Phone, c.Email, c.Address, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id int64, userID int) (*model.Customer, error) {
	c := &model.Customer{}
	sql := `SELECT id, user_id, name, phone, email, address, created_at, updated_at
            FROM customers WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(ctx, sql, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}
	return c, nil
}

func (r *customerRepository) FindByUser(ctx context.Context, userID int) ([]model.Customer, error) {
	sql := `SELECT id, user_id, name, phone, email, address, created_at, updated_at
            FROM customers WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	sql := `UPDATE customers SET name = $1, phone = $2, email = $3, address = $4, updated_at = NOW()
            WHERE id = $5 AND user_id = $6 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Phone, c.Email, c.Address, c.ID, c.UserID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("customer not found or not owned by user for update")
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64, userID int) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("customer not found for deletion")
	}
	return nil
}

// SupplierRepository defines operations for supplier data
type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id int64, userID int) (*model.Supplier, error)
	FindByUser(ctx context.Context, userID int) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, id int64, userID int) error
}

type supplierRepository struct {
	db DB
}

// NewSupplierRepository creates a new SupplierRepository
func NewSupplierRepository(db DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, s *model.Supplier) error {
	sql := `INSERT INTO suppliers (user_id, name, phone, email, address, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql, s.UserID, s.Name, s.Phone, s.Email, s.Address, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id int64, userID int) (*model.Supplier, error) {
	s := &model.Supplier{}
	sql := `SELECT id, user_id, name, phone, email, address, created_at, updated_at
            FROM suppliers WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(ctx, sql, id, userID).Scan(&s.ID, &s.UserID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find supplier by ID: %w", err)
	}
	return s, nil
}

func (r *supplierRepository) FindByUser(ctx context.Context, userID int) ([]model.Supplier, error) {
	sql := `SELECT id, user_id, name, phone, email, address, created_at, updated_at
            FROM suppliers WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []model.Supplier
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

func (r *supplierRepository) Update(ctx context.Context, s *model.Supplier) error {
	sql := `UPDATE suppliers SET name = $1, phone = $2, email = $3, address = $4, updated_at = NOW()
            WHERE id = $5 AND user_id = $6 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, s.Name, s.Phone, s.Email, s.Address, s.ID, s.UserID).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("supplier not found or not owned by user for update")
		}
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id int64, userID int) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("supplier not found for deletion")
	}
	return nil
}
