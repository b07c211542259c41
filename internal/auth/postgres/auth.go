package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/university-directory/internal/auth"
	userDatamodel "github.com/frahmantamala/university-directory/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(email string) (*auth.Account, string, error) {
	var u userDatamodel.User
	err := r.db.Where("lower(email) = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", auth.ErrAccountNotFound
		}
		return nil, "", err
	}
	return toAccount(&u), u.PasswordHash, nil
}

func (r *Repository) GetByID(userID int64) (*auth.Account, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return toAccount(&u), nil
}

func (r *Repository) GetPasswordHash(userID int64) (string, error) {
	var u userDatamodel.User
	err := r.db.Select("password_hash").Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", auth.ErrAccountNotFound
		}
		return "", err
	}
	return u.PasswordHash, nil
}

func (r *Repository) Create(email, name string, role auth.Role, passwordHash string) (*auth.Account, error) {
	email = strings.ToLower(email)

	var count int64
	if err := r.db.Model(&userDatamodel.User{}).Where("lower(email) = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, auth.ErrDuplicateEmail
	}

	u := userDatamodel.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         string(role),
		IsActive:     true,
	}
	if err := r.db.Create(&u).Error; err != nil {
		return nil, err
	}
	return toAccount(&u), nil
}

func (r *Repository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login": at,
			"updated_at": time.Now(),
		}).Error
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}

func toAccount(u *userDatamodel.User) *auth.Account {
	return &auth.Account{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      auth.Role(u.Role),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
