package university

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/university-directory/internal/auth"
)

type Repository interface {
	List(params ListParams) ([]*University, int64, error)
	GetByID(universityID int64) (*University, error)
	ExistsByName(name string, excludeID int64) (bool, error)
	Create(u *University) error
	Update(u *University) error
	Delete(universityID int64) error
	Stats() (*Stats, error)
}

type Service struct {
	repo         Repository
	defaultLimit int
	maxLimit     int
}

func NewService(repo Repository, defaultLimit, maxLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Service{
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *Service) List(params ListParams) ([]*University, int64, ListParams, error) {
	params = s.clamp(params)
	universities, total, err := s.repo.List(params)
	if err != nil {
		return nil, 0, params, fmt.Errorf("list universities: %w", err)
	}
	return universities, total, params, nil
}

func (s *Service) GetByID(universityID int64) (*University, error) {
	return s.repo.GetByID(universityID)
}

func (s *Service) Create(actor *auth.Claims, dto CreateUniversityDTO) (*University, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(dto.Name, 0)
	if err != nil {
		return nil, fmt.Errorf("check name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	u := &University{
		Name:        dto.Name,
		Type:        dto.Type,
		Location:    dto.Location,
		Contact:     dto.Contact,
		Enrollment:  dto.Enrollment,
		Founded:     dto.Founded,
		Status:      dto.Status,
		Description: dto.Description,
		Tags:        dto.Tags,
		CreatedBy:   &actor.UserID,
	}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Update(actor *auth.Claims, universityID int64, dto UpdateUniversityDTO) (*University, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(universityID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && !strings.EqualFold(*dto.Name, current.Name) {
		exists, err := s.repo.ExistsByName(*dto.Name, universityID)
		if err != nil {
			return nil, fmt.Errorf("check name: %w", err)
		}
		if exists {
			return nil, ErrDuplicateName
		}
		current.Name = *dto.Name
	}
	if dto.Type != nil {
		current.Type = *dto.Type
	}
	if dto.Location != nil {
		current.Location = *dto.Location
	}
	if dto.Contact != nil {
		current.Contact = *dto.Contact
	}
	if dto.Enrollment != nil {
		current.Enrollment = *dto.Enrollment
	}
	if dto.Founded != nil {
		current.Founded = dto.Founded
	}
	if dto.Status != nil {
		current.Status = *dto.Status
	}
	if dto.Description != nil {
		current.Description = *dto.Description
	}
	if dto.Tags != nil {
		current.Tags = *dto.Tags
	}
	current.UpdatedBy = &actor.UserID
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *Service) Delete(universityID int64) error {
	if _, err := s.repo.GetByID(universityID); err != nil {
		return err
	}
	return s.repo.Delete(universityID)
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
	case "name", "type", "status", "state", "total_enrollment", "founded", "created_at":
	default:
		params.SortBy = "name"
	}
	return params
}
