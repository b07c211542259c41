package university

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/university-directory/internal/auth"
	"github.com/frahmantamala/university-directory/internal/transport"
	"github.com/frahmantamala/university-directory/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(params ListParams) ([]*University, int64, ListParams, error)
	GetByID(universityID int64) (*University, error)
	Create(actor *auth.Claims, dto CreateUniversityDTO) (*University, error)
	Update(actor *auth.Claims, universityID int64, dto UpdateUniversityDTO) (*University, error)
	Delete(universityID int64) error
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
		Type:      q.Get("type"),
		Status:    q.Get("status"),
		State:     q.Get("state"),
	}

	universities, total, params, err := h.Service.List(params)
	if err != nil {
		h.Logger.Error("failed to list universities", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WritePaginated(w, "Universities retrieved successfully", universities,
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
			h.WriteError(w, http.StatusNotFound, "University not found")
			return
		}
		h.Logger.Error("failed to get university", "error", err, "university_id", id)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "University retrieved successfully", u)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var dto CreateUniversityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(claims, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.Logger.Info("university created", "university_id", u.ID, "name", u.Name, "created_by", claims.UserID)
	h.WriteSuccess(w, http.StatusCreated, "University created successfully", u)
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

	var dto UpdateUniversityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(claims, id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "University updated successfully", u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "University deleted successfully", nil)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.Logger.Error("failed to compute university stats", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "University statistics retrieved successfully", stats)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.WriteError(w, http.StatusNotFound, "University not found")
	case errors.Is(err, ErrDuplicateName):
		h.WriteError(w, http.StatusBadRequest, "University with this name already exists")
	default:
		var vErr ValidationError
		if errors.As(err, &vErr) {
			h.WriteError(w, http.StatusBadRequest, vErr.Msg)
			return
		}
		h.Logger.Error("university operation failed", "error", err)
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
		h.WriteError(w, http.StatusBadRequest, "invalid university id")
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
