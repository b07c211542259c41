package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

// NewService creates a new auth service
func NewService(repo Repository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Register creates a new account and returns it together with a fresh token pair.
func (s *Service) Register(dto RegisterDTO) (*Account, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, AuthTokens{}, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.repo.Create(dto.Email, dto.Name, dto.Role, hash)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	tokens, err := s.issueTokens(acc)
	if err != nil {
		return nil, AuthTokens{}, err
	}
	return acc, tokens, nil
}

// Authenticate validates credentials and returns the account and tokens.
// Failure reasons are collapsed into ErrInvalidCredentials so callers
// cannot distinguish an unknown email from a wrong password.
func (s *Service) Authenticate(dto LoginDTO) (*Account, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	acc, storedHash, err := s.repo.GetCredentials(dto.Email)
	if err != nil {
		return nil, AuthTokens{}, ErrInvalidCredentials
	}

	if !acc.IsActive {
		return nil, AuthTokens{}, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return nil, AuthTokens{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(acc.ID, now); err != nil {
		return nil, AuthTokens{}, fmt.Errorf("update last login: %w", err)
	}
	acc.LastLogin = &now

	tokens, err := s.issueTokens(acc)
	if err != nil {
		return nil, AuthTokens{}, err
	}
	return acc, tokens, nil
}

// RefreshTokens exchanges a valid refresh token for a brand-new token pair.
// The old pair is considered discarded; either both new tokens are returned
// or none.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	acc, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, ErrAccountNotFound
	}
	if !acc.IsActive {
		return AuthTokens{}, ErrAccountInactive
	}

	return s.issueTokens(acc)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// GetAccount looks up an account by id.
func (s *Service) GetAccount(userID int64) (*Account, error) {
	acc, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// ChangePassword verifies the current password and stores a re-hash of the
// new one. The hash is only regenerated here and at account creation.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	storedHash, err := s.repo.GetPasswordHash(userID)
	if err != nil {
		return ErrAccountNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	newHash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(userID, newHash)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(acc *Account) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(acc)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(acc)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateAccessToken creates a new access token embedding the full identity.
func (j *JWTTokenGenerator) GenerateAccessToken(acc *Account) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: acc.ID,
		Email:  acc.Email,
		Role:   acc.Role,
		Name:   acc.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", acc.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token carrying the user id only.
func (j *JWTTokenGenerator) GenerateRefreshToken(acc *Account) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: acc.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", acc.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.RefreshTokenSecret)
}

// ValidateAccessToken verifies signature and expiry against the access
// secret only. A refresh token presented here fails with ErrInvalidToken.
func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

// ValidateRefreshToken verifies against the refresh secret only.
func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyPassword compares a bcrypt hash against a plaintext candidate.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword creates a bcrypt hash with the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
