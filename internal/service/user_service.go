package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizbook/internal/model"
	"bizbook/internal/repository"
	"bizbook/internal/utils"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrNotSubuser        = errors.New("user is not a subuser of this account")
	ErrUnknownPermission = errors.New("unknown permission")
)

// UserService defines profile and subuser management
type UserService interface {
	GetProfile(ctx context.Context, userID int) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, userID int, req model.ChangePasswordRequest) error
	CreateSubuser(ctx context.Context, ownerID int, req model.CreateSubuserRequest) (*model.User, error)
	ListSubusers(ctx context.Context, ownerID int) ([]model.User, error)
	UpdateSubuser(ctx context.Context, ownerID, subuserID int, req model.UpdateSubuserRequest) (*model.User, error)
	DeleteSubuser(ctx context.Context, ownerID, subuserID int) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func validatePermissions(perms []string) error {
	for _, p := range perms {
		known := false
		for _, valid := range model.AllPermissions {
			if p == valid {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
	}
	return nil
}

// GetProfile retrieves the caller's own record
func (s *userService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile updates the caller's name and business name
func (s *userService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.BusinessName != nil {
		user.BusinessName = *req.BusinessName
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password before replacing it
func (s *userService) ChangePassword(ctx context.Context, userID int, req model.ChangePasswordRequest) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// CreateSubuser creates a subuser under the calling owner with a permission
// subset.
func (s *userService) CreateSubuser(ctx context.Context, ownerID int, req model.CreateSubuserRequest) (*model.User, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	subuser := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         model.RoleSubuser,
		ParentID:     &ownerID,
		Permissions:  req.Permissions,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, subuser); err != nil {
		return nil, fmt.Errorf("failed to create subuser: %w", err)
	}
	return subuser, nil
}

// ListSubusers lists the calling owner's subusers
func (s *userService) ListSubusers(ctx context.Context, ownerID int) ([]model.User, error) {
	users, err := s.userRepo.FindSubusers(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subusers: %w", err)
	}
	return users, nil
}

// getOwnedSubuser loads a subuser and checks it belongs to the owner.
func (s *userService) getOwnedSubuser(ctx context.Context, ownerID, subuserID int) (*model.User, error) {
	subuser, err := s.userRepo.FindByID(ctx, subuserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find subuser: %w", err)
	}
	if subuser == nil {
		return nil, ErrUserNotFound
	}
	if subuser.Role != model.RoleSubuser || subuser.ParentID == nil || *subuser.ParentID != ownerID {
		return nil, ErrNotSubuser
	}
	return subuser, nil
}

// UpdateSubuser updates a subuser's name, permissions or active flag
func (s *userService) UpdateSubuser(ctx context.Context, ownerID, subuserID int, req model.UpdateSubuserRequest) (*model.User, error) {
	subuser, err := s.getOwnedSubuser(ctx, ownerID, subuserID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		subuser.Name = *req.Name
	}
	if req.Permissions != nil {
		if err := validatePermissions(*req.Permissions); err != nil {
			return nil, err
		}
		subuser.Permissions = *req.Permissions
	}
	if req.IsActive != nil {
		subuser.IsActive = *req.IsActive
	}
	if err := s.userRepo.Update(ctx, subuser); err != nil {
		return nil, fmt.Errorf("failed to update subuser: %w", err)
	}
	return subuser, nil
}

// DeleteSubuser removes a subuser belonging to the calling owner
func (s *userService) DeleteSubuser(ctx context.Context, ownerID, subuserID int) error {
	if _, err := s.getOwnedSubuser(ctx, ownerID, subuserID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, subuserID); err != nil {
		return fmt.Errorf("failed to delete subuser: %w", err)
	}
	return nil
}
