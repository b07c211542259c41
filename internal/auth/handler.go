package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/university-directory/internal"
	"github.com/frahmantamala/university-directory/internal/transport"
	"github.com/frahmantamala/university-directory/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, tokens, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("registration failed", "error", err, "email", dto.Email)
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			h.WriteErrorCode(w, http.StatusBadRequest, "User with this email already exists", string(internal.ErrCodeDuplicateEmail))
		default:
			var vErr ValidationError
			if errors.As(err, &vErr) {
				h.WriteError(w, http.StatusBadRequest, vErr.Msg)
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.Logger.Info("new user registered", "email", acc.Email)

	h.WriteSuccess(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user":         acc,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err, "email", dto.Email)

		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, ErrAccountInactive):
			h.WriteError(w, http.StatusUnauthorized, "Account is deactivated")
		default:
			var vErr ValidationError
			if errors.As(err, &vErr) {
				h.WriteError(w, http.StatusBadRequest, vErr.Msg)
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.Logger.Info("user logged in", "email", acc.Email)

	h.WriteSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":         acc,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// Me returns the stored account for the authenticated principal. Unlike the
// per-request gate this does hit the store, so a deleted account gets a 404
// here even while its token is still valid.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		h.WriteError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	acc, err := h.Service.GetAccount(claims.UserID)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Success", map[string]interface{}{"user": acc})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Refresh token required")
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)

		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired),
			errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrAccountInactive):
			h.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token refreshed successfully", map[string]interface{}{
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// Logout is best effort: tokens are stateless, so the pair stays valid
// until its natural expiry. Clients are expected to drop both tokens.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		h.WriteError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h.Logger.Info("user logged out", "email", claims.Email)
	h.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		h.WriteError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var dto ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ChangePassword(claims.UserID, dto); err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			h.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, ErrAccountNotFound):
			h.WriteError(w, http.StatusNotFound, "User not found")
		default:
			var vErr ValidationError
			if errors.As(err, &vErr) {
				h.WriteError(w, http.StatusBadRequest, vErr.Msg)
			} else {
				h.Logger.Error("change password failed", "error", err, "user_id", claims.UserID)
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.Logger.Info("password changed", "user_id", claims.UserID)
	h.WriteSuccess(w, http.StatusOK, "Password updated successfully", nil)
}

// AuthMiddleware is the per-request gate. It trusts the token signature and
// attaches claims to the context without a store lookup, so a deactivated
// account remains authenticated here until its access token expires.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				h.WriteErrorCode(w, http.StatusUnauthorized, "Access token has expired", string(internal.ErrCodeTokenExpired))
			default:
				h.WriteErrorCode(w, http.StatusForbidden, "Invalid access token", string(internal.ErrCodeInvalidToken))
			}
			return
		}

		ctx := ContextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
