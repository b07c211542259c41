package university

import (
	"errors"
	"strings"
	"time"

	universityDatamodel "github.com/frahmantamala/university-directory/internal/core/datamodel/university"
)

// Type classifies how a university is funded and governed.
type Type string

const (
	TypePublic    Type = "public"
	TypePrivate   Type = "private"
	TypeCommunity Type = "community"
)

func (t Type) Valid() bool {
	switch t {
	case TypePublic, TypePrivate, TypeCommunity:
		return true
	}
	return false
}

// Status tracks the operational state of an institution in the directory.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
	StatusClosed   Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusClosed:
		return true
	}
	return false
}

type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode,omitempty"`
	Address string `json:"address,omitempty"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Enrollment holds student headcounts. Total is always derived from the
// undergraduate and graduate figures, never accepted from the client.
type Enrollment struct {
	Undergraduate int64 `json:"undergraduate"`
	Graduate      int64 `json:"graduate"`
	Total         int64 `json:"total"`
}

type University struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        Type       `json:"type"`
	Location    Location   `json:"location"`
	Contact     Contact    `json:"contact"`
	Enrollment  Enrollment `json:"enrollment"`
	Founded     *int       `json:"founded,omitempty"`
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	UpdatedBy   *int64     `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Stats is the aggregate view served to the dashboard.
type Stats struct {
	Total           int64            `json:"total"`
	ByStatus        map[string]int64 `json:"byStatus"`
	ByType          map[string]int64 `json:"byType"`
	TotalEnrollment int64            `json:"totalEnrollment"`
	AvgEnrollment   int64            `json:"avgEnrollment"`
}

// ListParams narrows and orders a directory listing.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
	Type      string
	Status    string
	State     string
}

var (
	ErrNotFound      = errors.New("university not found")
	ErrDuplicateName = errors.New("university name already exists")
)

func ToDataModel(u *University) *universityDatamodel.University {
	return &universityDatamodel.University{
		ID:          u.ID,
		Name:        u.Name,
		Type:        string(u.Type),
		City:        u.Location.City,
		State:       u.Location.State,
		Country:     u.Location.Country,
		ZipCode:     u.Location.ZipCode,
		Address:     u.Location.Address,
		Phone:       u.Contact.Phone,
		Email:       u.Contact.Email,
		Website:     u.Contact.Website,
		Undergrad:   u.Enrollment.Undergraduate,
		Graduate:    u.Enrollment.Graduate,
		Total:       u.Enrollment.Total,
		Founded:     u.Founded,
		Status:      string(u.Status),
		Description: u.Description,
		Tags:        joinTags(u.Tags),
		CreatedBy:   u.CreatedBy,
		UpdatedBy:   u.UpdatedBy,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Tags are stored as one comma-joined column; commas inside a tag are
// stripped on write.
func joinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", " "))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func FromDataModel(u *universityDatamodel.University) *University {
	return &University{
		ID:   u.ID,
		Name: u.Name,
		Type: Type(u.Type),
		Location: Location{
			City:    u.City,
			State:   u.State,
			Country: u.Country,
			ZipCode: u.ZipCode,
			Address: u.Address,
		},
		Contact: Contact{
			Phone:   u.Phone,
			Email:   u.Email,
			Website: u.Website,
		},
		Enrollment: Enrollment{
			Undergraduate: u.Undergrad,
			Graduate:      u.Graduate,
			Total:         u.Total,
		},
		Founded:     u.Founded,
		Status:      Status(u.Status),
		Description: u.Description,
		Tags:        splitTags(u.Tags),
		CreatedBy:   u.CreatedBy,
		UpdatedBy:   u.UpdatedBy,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
