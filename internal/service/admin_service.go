package service

import (
	"context"
	"errors"
	"fmt"

	"bizbook/internal/model"
	"bizbook/internal/repository"
)

var ErrCannotModifyAdmin = errors.New("admin accounts cannot be modified here")

// AdminService defines the platform admin console operations
type AdminService interface {
	ListUsers(ctx context.Context, filters model.AdminUserFilters) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	SetUserStatus(ctx context.Context, id int, active bool) (*model.User, error)
	PlatformStats(ctx context.Context) (*model.PlatformStats, error)
}

type adminService struct {
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers(ctx context.Context, filters model.AdminUserFilters) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *adminService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SetUserStatus activates or deactivates an account. Deactivated users fail
// login; admins cannot be touched.
func (s *adminService) SetUserStatus(ctx context.Context, id int, active bool) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleAdmin {
		return nil, ErrCannotModifyAdmin
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to set user status: %w", err)
	}
	user.IsActive = active
	return user, nil
}

func (s *adminService) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	stats, err := s.userRepo.GetPlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	return stats, nil
}
