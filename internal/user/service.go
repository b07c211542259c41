package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/university-directory/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	List(params ListParams) ([]*User, int64, error)
	GetByID(userID int64) (*User, error)
	ExistsByEmail(email string, excludeID int64) (bool, error)
	Create(u *User) error
	Update(u *User) error
	UpdatePassword(userID int64, passwordHash string, updatedBy int64) error
	Delete(userID int64) error
	Stats() (*Stats, error)
}

type Service struct {
	repo         Repository
	bcryptCost   int
	defaultLimit int
	maxLimit     int
}

func NewService(repo Repository, bcryptCost, defaultLimit, maxLimit int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Service{
		repo:         repo,
		bcryptCost:   bcryptCost,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *Service) List(params ListParams) ([]*User, int64, ListParams, error) {
	params = s.clamp(params)
	users, total, err := s.repo.List(params)
	if err != nil {
		return nil, 0, params, fmt.Errorf("list users: %w", err)
	}
	return users, total, params, nil
}

func (s *Service) GetByID(userID int64) (*User, error) {
	return s.repo.GetByID(userID)
}

func (s *Service) Create(actor *auth.Claims, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(dto.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		Role:         dto.Role,
		IsActive:     true,
		CreatedBy:    &actor.UserID,
	}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies a partial update. The self-role guard runs before anything
// else: no principal may change its own role, whatever role it holds.
func (s *Service) Update(actor *auth.Claims, targetID int64, dto UpdateUserDTO) (*User, error) {
	current, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	if actor.UserID == targetID && dto.Role != nil && *dto.Role != current.Role {
		return nil, ErrSelfRoleChange
	}
	if actor.UserID == targetID && dto.IsActive != nil && *dto.IsActive != current.IsActive {
		return nil, ErrSelfStatusChange
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Email != nil && !strings.EqualFold(*dto.Email, current.Email) {
		exists, err := s.repo.ExistsByEmail(*dto.Email, targetID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
		current.Email = *dto.Email
	}
	if dto.Name != nil {
		current.Name = *dto.Name
	}
	if dto.Role != nil {
		current.Role = *dto.Role
	}
	if dto.IsActive != nil {
		current.IsActive = *dto.IsActive
	}
	current.UpdatedBy = &actor.UserID
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}

// UpdatePassword lets an admin reset any password; everyone else may only
// change their own and must present the current password.
func (s *Service) UpdatePassword(actor *auth.Claims, targetID int64, dto UpdatePasswordDTO) error {
	isAdmin := actor.Role == auth.RoleAdmin
	if !isAdmin && actor.UserID != targetID {
		return ErrNotAuthorized
	}

	target, err := s.repo.GetByID(targetID)
	if err != nil {
		return err
	}

	requireCurrent := !isAdmin
	if err := dto.Validate(requireCurrent); err != nil {
		return err
	}

	if requireCurrent {
		if err := bcrypt.CompareHashAndPassword([]byte(target.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
			return ErrWrongPassword
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(targetID, string(hash), actor.UserID)
}

// ToggleStatus flips the active flag. Guard first: a principal may not
// deactivate itself.
func (s *Service) ToggleStatus(actor *auth.Claims, targetID int64) (*User, error) {
	if actor.UserID == targetID {
		return nil, ErrSelfStatusChange
	}

	current, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	current.IsActive = !current.IsActive
	current.UpdatedBy = &actor.UserID
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes the principal's ability to authenticate. Guard first: no
// self-deletion.
func (s *Service) Delete(actor *auth.Claims, targetID int64) error {
	if actor.UserID == targetID {
		return ErrSelfDelete
	}

	if _, err := s.repo.GetByID(targetID); err != nil {
		return err
	}

	return s.repo.Delete(targetID)
}

func (s *Service) Stats() (*Stats, error) {
	return s.repo.Stats()
}

func (s *Service) clamp(params ListParams) ListParams {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = s.defaultLimit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	if params.SortOrder != "desc" {
		params.SortOrder = "asc"
	}
	switch params.SortBy {
	case "name", "email", "role", "created_at", "last_login":
	default:
		params.SortBy = "created_at"
	}
	return params
}
