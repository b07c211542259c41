package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/university-directory/internal"
	"github.com/frahmantamala/university-directory/internal/auth"
	"github.com/frahmantamala/university-directory/internal/transport"
	"github.com/frahmantamala/university-directory/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(params ListParams) ([]*User, int64, ListParams, error)
	GetByID(userID int64) (*User, error)
	Create(actor *auth.Claims, dto CreateUserDTO) (*User, error)
	Update(actor *auth.Claims, targetID int64, dto UpdateUserDTO) (*User, error)
	UpdatePassword(actor *auth.Claims, targetID int64, dto UpdatePasswordDTO) error
	ToggleStatus(actor *auth.Claims, targetID int64) (*User, error)
	Delete(actor *auth.Claims, targetID int64) error
	Stats() (*Stats, error)
}

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{
		Page:      atoiDefault(q.Get("page"), 0),
		Limit:     atoiDefault(q.Get("limit"), 0),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Search:    q.Get("search"),
		Role:      q.Get("role"),
	}

	users, total, params, err := h.Service.List(params)
	if err != nil {
		h.Logger.Error("failed to list users", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WritePaginated(w, "Users retrieved successfully", users,
		transport.NewPagination(params.Page, params.Limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("failed to get user", "error", err, "user_id", id)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "User retrieved successfully", u)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(claims, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.Logger.Info("user created", "user_id", u.ID, "created_by", claims.UserID)
	h.WriteSuccess(w, http.StatusCreated, "User created successfully", u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(claims, id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "User updated successfully", u)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var dto UpdatePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdatePassword(claims, id, dto); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password updated successfully", nil)
}

func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	u, err := h.Service.ToggleStatus(claims, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	msg := "User deactivated successfully"
	if u.IsActive {
		msg = "User activated successfully"
	}
	h.WriteSuccess(w, http.StatusOK, msg, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(claims, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.Logger.Info("user deleted", "user_id", id, "deleted_by", claims.UserID)
	h.WriteSuccess(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.Logger.Error("failed to compute user stats", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "User statistics retrieved successfully", stats)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.WriteError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrDuplicateEmail):
		h.WriteErrorCode(w, http.StatusBadRequest, "User with this email already exists", string(internal.ErrCodeDuplicateEmail))
	case errors.Is(err, ErrSelfRoleChange):
		h.WriteErrorCode(w, http.StatusForbidden, "Cannot change your own role", string(internal.ErrCodeSelfModification))
	case errors.Is(err, ErrSelfStatusChange):
		h.WriteErrorCode(w, http.StatusForbidden, "Cannot change your own status", string(internal.ErrCodeSelfModification))
	case errors.Is(err, ErrSelfDelete):
		h.WriteErrorCode(w, http.StatusForbidden, "Cannot delete your own account", string(internal.ErrCodeSelfModification))
	case errors.Is(err, ErrWrongPassword):
		h.WriteErrorCode(w, http.StatusBadRequest, "Current password is incorrect", string(internal.ErrCodeWrongPassword))
	case errors.Is(err, ErrNotAuthorized):
		h.WriteError(w, http.StatusForbidden, "Insufficient permissions")
	default:
		var vErr ValidationError
		if errors.As(err, &vErr) {
			h.WriteError(w, http.StatusBadRequest, vErr.Msg)
			return
		}
		h.Logger.Error("user operation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) claims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return claims, true
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
