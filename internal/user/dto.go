package user

import (
	"strings"

	"github.com/frahmantamala/university-directory/internal/auth"
	"github.com/frahmantamala/university-directory/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     auth.Role `json:"role"`
}

// UpdateUserDTO carries partial updates; nil means "leave unchanged".
type UpdateUserDTO struct {
	Email    *string    `json:"email"`
	Name     *string    `json:"name"`
	Role     *auth.Role `json:"role"`
	IsActive *bool      `json:"is_active"`
}

type UpdatePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d *CreateUserDTO) Validate() error {
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	if err := validation.ValidateEmail(d.Email); err != nil {
		return ValidationError{Msg: err.GetDetailedMessage()}
	}
	if err := validation.ValidatePassword(d.Password); err != nil {
		return ValidationError{Msg: err.GetDetailedMessage()}
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Role == "" {
		d.Role = auth.DefaultRole
	}
	if !d.Role.Valid() {
		return ValidationError{Msg: "role must be one of admin, manager, viewer"}
	}
	return nil
}

func (d *UpdateUserDTO) Validate() error {
	if d.Email != nil {
		trimmed := strings.TrimSpace(strings.ToLower(*d.Email))
		if err := validation.ValidateEmail(trimmed); err != nil {
			return ValidationError{Msg: err.GetDetailedMessage()}
		}
		d.Email = &trimmed
	}
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		if trimmed == "" {
			return ValidationError{Msg: "name cannot be empty"}
		}
		d.Name = &trimmed
	}
	if d.Role != nil && !d.Role.Valid() {
		return ValidationError{Msg: "role must be one of admin, manager, viewer"}
	}
	return nil
}

func (d UpdatePasswordDTO) Validate(requireCurrent bool) error {
	if requireCurrent && d.CurrentPassword == "" {
		return ValidationError{Msg: "currentPassword is required"}
	}
	if d.NewPassword == "" {
		return ValidationError{Msg: "newPassword is required"}
	}
	if len(d.NewPassword) < 6 {
		return ValidationError{Msg: "newPassword must be at least 6 characters"}
	}
	return nil
}
