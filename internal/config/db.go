package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return &DBConfig{DSN: url}, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	return &DBConfig{DSN: dsn}, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(cfg *DBConfig) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(context.Background(), cfg.DSN)
		if err == nil {
			err = pool.Ping(context.Background())
			if err == nil {
				Logger().Info("Successfully connected to PostgreSQL")
				return pool, nil
			}
		}
		Logger().Warnf("Failed to connect to database (attempt %d/%d): %v. Retrying in %v...", i+1, maxRetries, err, retryInterval)
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// AutoMigrate creates tables if they don't exist
func AutoMigrate(db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		business_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'owner', 'subuser')) DEFAULT 'owner',
		parent_id INT REFERENCES users(id) ON DELETE CASCADE,
		permissions TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		address TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS suppliers (
		id BIGSERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		address TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS items (
		id BIGSERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		sku TEXT,
		unit TEXT NOT NULL DEFAULT 'pcs',
		purchase_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		selling_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		stock NUMERIC(14,3) NOT NULL DEFAULT 0,
		low_stock_threshold NUMERIC(14,3) NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stock_adjustments (
		id BIGSERIAL PRIMARY KEY,
		item_id BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		user_id INT NOT NULL,
		delta NUMERIC(14,3) NOT NULL,
		reason TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS estimates (
		id BIGSERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		estimate_number TEXT NOT NULL,
		customer_id BIGINT REFERENCES customers(id) ON DELETE SET NULL,
		estimate_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL CHECK (status IN ('completed', 'cancelled')) DEFAULT 'completed',
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		discount_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		payment_type TEXT NOT NULL CHECK (payment_type IN ('cash', 'card', 'upi', 'credit')),
		payment_received_date TIMESTAMP WITH TIME ZONE,
		payment_received_mode TEXT CHECK (payment_received_mode IN ('cash', 'card', 'upi')),
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, estimate_number)
	);

	CREATE TABLE IF NOT EXISTS estimate_items (
		id BIGSERIAL PRIMARY KEY,
		estimate_id BIGINT NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
		item_id BIGINT REFERENCES items(id) ON DELETE SET NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity NUMERIC(14,3) NOT NULL,
		unit_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		line_total NUMERIC(14,2) NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS purchases (
		id BIGSERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		bill_number TEXT NOT NULL,
		supplier_id BIGINT REFERENCES suppliers(id) ON DELETE SET NULL,
		purchase_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL CHECK (payment_status IN ('paid', 'pending')) DEFAULT 'pending',
		payment_date TIMESTAMP WITH TIME ZONE,
		payment_mode TEXT CHECK (payment_mode IN ('cash', 'card', 'upi')),
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS purchase_items (
		id BIGSERIAL PRIMARY KEY,
		purchase_id BIGINT NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
		item_id BIGINT REFERENCES items(id) ON DELETE SET NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity NUMERIC(14,3) NOT NULL,
		unit_cost NUMERIC(14,2) NOT NULL DEFAULT 0,
		line_total NUMERIC(14,2) NOT NULL DEFAULT 0
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_users_parent_id ON users(parent_id);
	CREATE INDEX IF NOT EXISTS idx_customers_user_id ON customers(user_id);
	CREATE INDEX IF NOT EXISTS idx_suppliers_user_id ON suppliers(user_id);
	CREATE INDEX IF NOT EXISTS idx_items_user_id ON items(user_id);
	CREATE INDEX IF NOT EXISTS idx_estimates_user_id ON estimates(user_id);
	CREATE INDEX IF NOT EXISTS idx_estimates_estimate_date ON estimates(estimate_date);
	CREATE INDEX IF NOT EXISTS idx_estimates_payment_received_date ON estimates(payment_received_date);
	CREATE INDEX IF NOT EXISTS idx_purchases_user_id ON purchases(user_id);
	CREATE INDEX IF NOT EXISTS idx_purchases_purchase_date ON purchases(purchase_date);
	`
	_, err := db.Exec(context.Background(), sql)
	if err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	Logger().Info("AutoMigrate applied successfully")
	return nil
}
