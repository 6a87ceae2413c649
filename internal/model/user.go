package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
	RoleSubuser = "subuser"
)

// Permissions that can be granted to subusers. Owners and admins implicitly
// hold all of them.
const (
	PermEstimates = "estimates"
	PermPurchases = "purchases"
	PermInventory = "inventory"
	PermParties   = "parties"
	PermReports   = "reports"
)

// AllPermissions lists every grantable subuser permission.
var AllPermissions = []string{PermEstimates, PermPurchases, PermInventory, PermParties, PermReports}

// User represents an account on the platform. Owners hold business data;
// subusers belong to an owner (ParentID) and operate on the owner's data.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	BusinessName string    `json:"business_name,omitempty"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	ParentID     *int      `json:"parent_id,omitempty"`
	Permissions  []string  `json:"permissions,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountID resolves the data-owning account for this user: subusers act on
// their owner's records, everyone else on their own.
func (u *User) AccountID() int {
	if u.Role == RoleSubuser && u.ParentID != nil {
		return *u.ParentID
	}
	return u.ID
}

// RegisterRequest creates a new owner account.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required"`
	BusinessName string `json:"business_name"`
	Password     string `json:"password" binding:"required,min=6"`
}

// CreateSubuserRequest creates a subuser under the calling owner.
type CreateSubuserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Name        string   `json:"name" binding:"required"`
	Password    string   `json:"password" binding:"required,min=6"`
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// UpdateSubuserRequest updates a subuser's name, permissions or active flag.
type UpdateSubuserRequest struct {
	Name        *string   `json:"name,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// UpdateProfileRequest updates the caller's own profile.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
}

// ChangePasswordRequest changes the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// AdminUserFilters narrows the admin user listing.
type AdminUserFilters struct {
	Role     *string
	IsActive *bool
	Search   *string // matches email or business name
}

// PlatformStats is the admin console summary.
type PlatformStats struct {
	TotalOwners    int64 `json:"total_owners"`
	TotalSubusers  int64 `json:"total_subusers"`
	ActiveUsers    int64 `json:"active_users"`
	TotalEstimates int64 `json:"total_estimates"`
	TotalPurchases int64 `json:"total_purchases"`
}
