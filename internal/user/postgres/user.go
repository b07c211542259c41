package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/university-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/university-directory/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(params user.ListParams) ([]*user.User, int64, error) {
	query := r.db.Model(&userDatamodel.User{})

	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
	}
	if params.Role != "" {
		query = query.Where("role = ?", params.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userDatamodel.User
	offset := (params.Page - 1) * params.Limit
	err := query.
		Order(fmt.Sprintf("%s %s", params.SortBy, params.SortOrder)).
		Limit(params.Limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		users = append(users, user.FromDataModel(&rows[i]))
	}
	return users, total, nil
}

func (r *Repository) GetByID(userID int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) ExistsByEmail(email string, excludeID int64) (bool, error) {
	query := r.db.Model(&userDatamodel.User{}).Where("lower(email) = ?", strings.ToLower(email))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	*u = *user.FromDataModel(row)
	return nil
}

func (r *Repository) Update(u *user.User) error {
	row := user.ToDataModel(u)
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"email":      row.Email,
			"name":       row.Name,
			"role":       row.Role,
			"is_active":  row.IsActive,
			"updated_by": row.UpdatedBy,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string, updatedBy int64) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_by":    updatedBy,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(userID int64) error {
	result := r.db.Where("id = ?", userID).Delete(&userDatamodel.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *Repository) Stats() (*user.Stats, error) {
	stats := &user.Stats{ByRole: make(map[string]int64)}

	if err := r.db.Model(&userDatamodel.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&userDatamodel.User{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	type roleCount struct {
		Role  string
		Count int64
	}
	var counts []roleCount
	err := r.db.Model(&userDatamodel.User{}).
		Select("role, count(*) as count").
		Group("role").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, rc := range counts {
		stats.ByRole[rc.Role] = rc.Count
	}
	return stats, nil
}

// ListStaleSince returns active accounts whose last login is older than the
// cutoff. Accounts that never logged in are judged by creation time.
func (r *Repository) ListStaleSince(cutoff time.Time) ([]*user.User, error) {
	var rows []userDatamodel.User
	err := r.db.
		Where("is_active = ?", true).
		Where("(last_login IS NOT NULL AND last_login < ?) OR (last_login IS NULL AND created_at < ?)", cutoff, cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		users = append(users, user.FromDataModel(&rows[i]))
	}
	return users, nil
}

// DeactivateStaleSince flips active accounts unused since the cutoff to
// inactive and reports how many rows changed.
func (r *Repository) DeactivateStaleSince(cutoff time.Time) (int64, error) {
	result := r.db.Model(&userDatamodel.User{}).
		Where("is_active = ?", true).
		Where("(last_login IS NOT NULL AND last_login < ?) OR (last_login IS NULL AND created_at < ?)", cutoff, cutoff).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
