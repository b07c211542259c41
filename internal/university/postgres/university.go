package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	universityDatamodel "github.com/frahmantamala/university-directory/internal/core/datamodel/university"
	"github.com/frahmantamala/university-directory/internal/university"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(params university.ListParams) ([]*university.University, int64, error) {
	query := r.db.Model(&universityDatamodel.University{})

	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(city) LIKE ? OR lower(state) LIKE ?", pattern, pattern, pattern)
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.State != "" {
		query = query.Where("lower(state) = ?", strings.ToLower(params.State))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []universityDatamodel.University
	offset := (params.Page - 1) * params.Limit
	err := query.
		Order(fmt.Sprintf("%s %s", params.SortBy, params.SortOrder)).
		Limit(params.Limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	universities := make([]*university.University, 0, len(rows))
	for i := range rows {
		universities = append(universities, university.FromDataModel(&rows[i]))
	}
	return universities, total, nil
}

func (r *Repository) GetByID(universityID int64) (*university.University, error) {
	var row universityDatamodel.University
	err := r.db.Where("id = ?", universityID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, university.ErrNotFound
		}
		return nil, err
	}
	return university.FromDataModel(&row), nil
}

func (r *Repository) ExistsByName(name string, excludeID int64) (bool, error) {
	query := r.db.Model(&universityDatamodel.University{}).Where("lower(name) = ?", strings.ToLower(name))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(u *university.University) error {
	row := university.ToDataModel(u)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	*u = *university.FromDataModel(row)
	return nil
}

func (r *Repository) Update(u *university.University) error {
	row := university.ToDataModel(u)
	result := r.db.Model(&universityDatamodel.University{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"name":                     row.Name,
			"type":                     row.Type,
			"city":                     row.City,
			"state":                    row.State,
			"country":                  row.Country,
			"zip_code":                 row.ZipCode,
			"address":                  row.Address,
			"phone":                    row.Phone,
			"email":                    row.Email,
			"website":                  row.Website,
			"undergraduate_enrollment": row.Undergrad,
			"graduate_enrollment":      row.Graduate,
			"total_enrollment":         row.Total,
			"founded":                  row.Founded,
			"status":                   row.Status,
			"description":              row.Description,
			"tags":                     row.Tags,
			"updated_by":               row.UpdatedBy,
			"updated_at":               row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return university.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(universityID int64) error {
	result := r.db.Where("id = ?", universityID).Delete(&universityDatamodel.University{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return university.ErrNotFound
	}
	return nil
}

func (r *Repository) Stats() (*university.Stats, error) {
	stats := &university.Stats{
		ByStatus: make(map[string]int64),
		ByType:   make(map[string]int64),
	}

	if err := r.db.Model(&universityDatamodel.University{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	err := r.db.Model(&universityDatamodel.University{}).
		Select("status as key, count(*) as count").
		Group("status").
		Find(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var byType []bucket
	err = r.db.Model(&universityDatamodel.University{}).
		Select("type as key, count(*) as count").
		Group("type").
		Find(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	var sum struct {
		Sum int64
	}
	err = r.db.Model(&universityDatamodel.University{}).
		Select("coalesce(sum(total_enrollment), 0) as sum").
		Scan(&sum).Error
	if err != nil {
		return nil, err
	}
	stats.TotalEnrollment = sum.Sum
	if stats.Total > 0 {
		stats.AvgEnrollment = stats.TotalEnrollment / stats.Total
	}
	return stats, nil
}

// CountUpdatedSince reports how many directory entries changed in the window.
// Used by the weekly report job.
func (r *Repository) CountUpdatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&universityDatamodel.University{}).
		Where("updated_at >= ?", since).
		Count(&count).Error
	return count, err
}
