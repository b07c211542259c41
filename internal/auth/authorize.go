package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Authorizer is the per-route authorization layer. It runs downstream of
// the auth middleware and decides on the claims already in context.
type Authorizer struct {
	logger *slog.Logger
}

func NewAuthorizer(logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{logger: logger}
}

// RequireRoles allows the request through only when the authenticated
// role is in the allowed list. Missing claims reject with 401; a known
// principal with the wrong role rejects with 403.
func (a *Authorizer) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims == nil {
				writeEnvelope(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			if !claims.Role.In(roles...) {
				a.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", claims.UserID,
					"role", claims.Role,
					"allowed_roles", roles)
				writeEnvelope(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability consults the role permission table, honouring the
// admin wildcard.
func (a *Authorizer) RequireCapability(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims == nil {
				writeEnvelope(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			if !claims.Role.Can(capability) {
				a.logger.WarnContext(r.Context(), "access denied: missing capability",
					"user_id", claims.UserID,
					"role", claims.Role,
					"capability", capability)
				writeEnvelope(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
