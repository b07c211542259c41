package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account is the auth-facing view of a directory user: just enough to
// verify credentials and mint tokens, never the password hash itself.
type Account struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Claims carried inside a signed token. Access tokens embed the full
// identity so request authorization needs no store lookup; refresh tokens
// carry the user id only, since they live longer and leak more easily.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenGenerator mints and validates the access/refresh token pair.
// Access and refresh tokens are signed with separate secrets; validating
// a token against the wrong secret must fail.
type TokenGenerator interface {
	GenerateAccessToken(acc *Account) (string, error)
	GenerateRefreshToken(acc *Account) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// Repository is the external account store consumed by the auth service.
type Repository interface {
	GetCredentials(email string) (*Account, string, error)
	GetByID(userID int64) (*Account, error)
	GetPasswordHash(userID int64) (string, error)
	Create(email, name string, role Role, passwordHash string) (*Account, error)
	UpdateLastLogin(userID int64, at time.Time) error
	UpdatePassword(userID int64, passwordHash string) error
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*Account, AuthTokens, error)
	Authenticate(dto LoginDTO) (*Account, AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetAccount(userID int64) (*Account, error)
	ChangePassword(userID int64, dto ChangePasswordDTO) error
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrWrongPassword      = errors.New("current password is incorrect")
)
