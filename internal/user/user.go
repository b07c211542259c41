package user

import (
	"errors"
	"time"

	"github.com/frahmantamala/university-directory/internal/auth"
	userDatamodel "github.com/frahmantamala/university-directory/internal/core/datamodel/user"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         auth.Role  `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedBy    *int64     `json:"created_by,omitempty"`
	UpdatedBy    *int64     `json:"updated_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Stats is the aggregate view served to the dashboard.
type Stats struct {
	Total    int64           `json:"total"`
	Active   int64           `json:"active"`
	Inactive int64           `json:"inactive"`
	ByRole   map[string]int64 `json:"byRole"`
}

// ListParams narrows and orders a user listing.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
	Role      string
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Self-modification guards. These fire before any role check so the
	// caller gets a specific reason rather than a generic denial.
	ErrSelfRoleChange   = errors.New("cannot change your own role")
	ErrSelfStatusChange = errors.New("cannot change your own status")
	ErrSelfDelete       = errors.New("cannot delete your own account")

	ErrWrongPassword = errors.New("current password is incorrect")
	ErrNotAuthorized = errors.New("not authorized to change this password")
)

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedBy:    u.CreatedBy,
		UpdatedBy:    u.UpdatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         auth.Role(u.Role),
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedBy:    u.CreatedBy,
		UpdatedBy:    u.UpdatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
