package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bizbook/internal/model"
	"bizbook/internal/repository"
	"bizbook/internal/utils"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// AuthService defines registration and login
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{userRepo: userRepo, jwtUtil: jwtUtil}
}

// Register creates a new owner account and returns it with a signed token.
// The address in INITIAL_ADMIN_EMAIL becomes the platform admin instead.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleOwner
	if admin := os.Getenv("INITIAL_ADMIN_EMAIL"); admin != "" && admin == req.Email {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.AccountID(), user.Role, user.Permissions)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns a signed token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.AccountID(), user.Role, user.Permissions)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
