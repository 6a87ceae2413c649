package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizbook/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	FindSubusers(ctx context.Context, ownerID int) ([]model.User, error)
	Delete(ctx context.Context, id int) error
	SetActive(ctx context.Context, id int, active bool) error
	FindAll(ctx context.Context, filters model.AdminUserFilters) ([]model.User, error)
	GetPlatformStats(ctx context.Context) (*model.PlatformStats, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, business_name, password_hash, role, parent_id, permissions, is_active, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.BusinessName, &user.PasswordHash,
		&user.Role, &user.ParentID, &user.Permissions, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (email, name, business_name, password_hash, role, parent_id, permissions, is_active, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.Email, user.Name, user.BusinessName, user.PasswordHash,
		user.Role, user.ParentID, user.Permissions, user.IsActive, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error here, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// Update modifies name, business name and permissions
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET name = $1, business_name = $2, permissions = $3, is_active = $4 WHERE id = $5`
	cmdTag, err := r.db.Exec(ctx, sql, user.Name, user.BusinessName, user.Permissions, user.IsActive, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for update")
	}
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for password update")
	}
	return nil
}

// FindSubusers lists the subusers of an owner account
func (r *userRepository) FindSubusers(ctx context.Context, ownerID int) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE parent_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subusers: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subuser row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subuser rows: %w", err)
	}
	return users, nil
}

// Delete removes a user
func (r *userRepository) Delete(ctx context.Context, id int) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for deletion")
	}
	return nil
}

// SetActive toggles an account's active flag
func (r *userRepository) SetActive(ctx context.Context, id int, active bool) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for status update")
	}
	return nil
}

// FindAll lists users for the admin console with optional filters
func (r *userRepository) FindAll(ctx context.Context, filters model.AdminUserFilters) ([]model.User, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + userColumns + ` FROM users`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.Role != nil && *filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argCount))
		args = append(args, *filters.Role)
		argCount++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filters.IsActive)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(email ILIKE $%d OR business_name ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// GetPlatformStats aggregates platform-wide counters for the admin console
func (r *userRepository) GetPlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	stats := &model.PlatformStats{}
	sql := `
        SELECT
            (SELECT COUNT(*) FROM users WHERE role = 'owner'),
            (SELECT COUNT(*) FROM users WHERE role = 'subuser'),
            (SELECT COUNT(*) FROM users WHERE is_active),
            (SELECT COUNT(*) FROM estimates),
            (SELECT COUNT(*) FROM purchases)`
	err := r.db.QueryRow(ctx, sql).Scan(&stats.TotalOwners, &stats.TotalSubusers,
		&stats.ActiveUsers, &stats.TotalEstimates, &stats.TotalPurchases)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	return stats, nil
}
