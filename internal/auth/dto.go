package auth

import (
	"strings"

	"github.com/frahmantamala/university-directory/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterDTO accepts new-account registrations. Role is optional and
// defaults to the least privileged role.
type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d *RegisterDTO) Validate() error {
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
		d.Role = DefaultRole
	}
	if !d.Role.Valid() {
		return ValidationError{Msg: "role must be one of admin, manager, viewer"}
	}
	return nil
}

// Validate for refresh token DTO
func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refreshToken is required"}
	}
	return nil
}

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
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
