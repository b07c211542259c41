package university

import (
	"strings"

	"github.com/frahmantamala/university-directory/internal/core/common/validation"
)

type CreateUniversityDTO struct {
	Name        string     `json:"name"`
	Type        Type       `json:"type"`
	Location    Location   `json:"location"`
	Contact     Contact    `json:"contact"`
	Enrollment  Enrollment `json:"enrollment"`
	Founded     *int       `json:"founded"`
	Status      Status     `json:"status"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
}

// UpdateUniversityDTO carries partial updates; nil means "leave unchanged".
type UpdateUniversityDTO struct {
	Name        *string     `json:"name"`
	Type        *Type       `json:"type"`
	Location    *Location   `json:"location"`
	Contact     *Contact    `json:"contact"`
	Enrollment  *Enrollment `json:"enrollment"`
	Founded     *int        `json:"founded"`
	Status      *Status     `json:"status"`
	Description *string     `json:"description"`
	Tags        *[]string   `json:"tags"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d *CreateUniversityDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if err := validation.ValidateUniversityName(d.Name); err != nil {
		return ValidationError{Msg: err.GetDetailedMessage()}
	}
	if !d.Type.Valid() {
		return ValidationError{Msg: "type must be one of public, private, community"}
	}
	d.Location.City = strings.TrimSpace(d.Location.City)
	d.Location.State = strings.TrimSpace(d.Location.State)
	if d.Location.City == "" {
		return ValidationError{Msg: "location.city is required"}
	}
	if d.Location.State == "" {
		return ValidationError{Msg: "location.state is required"}
	}
	if d.Location.Country == "" {
		d.Location.Country = "United States"
	}
	if err := validateEnrollment(&d.Enrollment); err != nil {
		return err
	}
	if err := validateFounded(d.Founded); err != nil {
		return err
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	if !d.Status.Valid() {
		return ValidationError{Msg: "status must be one of active, inactive, pending, closed"}
	}
	if err := validateTags(d.Tags); err != nil {
		return err
	}
	return nil
}

func (d *UpdateUniversityDTO) Validate() error {
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		if err := validation.ValidateUniversityName(trimmed); err != nil {
			return ValidationError{Msg: err.GetDetailedMessage()}
		}
		d.Name = &trimmed
	}
	if d.Type != nil && !d.Type.Valid() {
		return ValidationError{Msg: "type must be one of public, private, community"}
	}
	if d.Location != nil {
		d.Location.City = strings.TrimSpace(d.Location.City)
		d.Location.State = strings.TrimSpace(d.Location.State)
		if d.Location.City == "" {
			return ValidationError{Msg: "location.city is required"}
		}
		if d.Location.State == "" {
			return ValidationError{Msg: "location.state is required"}
		}
		if d.Location.Country == "" {
			d.Location.Country = "United States"
		}
	}
	if d.Enrollment != nil {
		if err := validateEnrollment(d.Enrollment); err != nil {
			return err
		}
	}
	if err := validateFounded(d.Founded); err != nil {
		return err
	}
	if d.Status != nil && !d.Status.Valid() {
		return ValidationError{Msg: "status must be one of active, inactive, pending, closed"}
	}
	if d.Tags != nil {
		if err := validateTags(*d.Tags); err != nil {
			return err
		}
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > 10 {
		return ValidationError{Msg: "at most 10 tags are allowed"}
	}
	for _, t := range tags {
		if len(strings.TrimSpace(t)) > 50 {
			return ValidationError{Msg: "tags must be at most 50 characters"}
		}
	}
	return nil
}

func validateEnrollment(e *Enrollment) error {
	if e.Undergraduate < 0 || e.Graduate < 0 {
		return ValidationError{Msg: "enrollment counts cannot be negative"}
	}
	// Total is derived, never trusted from the request.
	e.Total = e.Undergraduate + e.Graduate
	return nil
}

func validateFounded(year *int) error {
	if err := validation.ValidateFoundedYear(year); err != nil {
		return ValidationError{Msg: err.GetDetailedMessage()}
	}
	return nil
}
