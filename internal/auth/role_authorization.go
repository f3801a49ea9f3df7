package auth

import (
	"log/slog"
	"net/http"
)

// RoleAuthorization builds route middleware from the permission matrix.
// Route gates only answer "may this role be here at all"; resource-level
// narrowing (whose leaves, which applicant roles) stays in the services.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

func (ra *RoleAuthorization) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFromContext(r.Context())
			if !ok || ident == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !Allowed(ident.Role, action) {
				ra.logger.WarnContext(r.Context(), "access denied: role not permitted",
					"user_id", ident.ID,
					"role", ident.Role,
					"action", action)
				http.Error(w, "Forbidden: role not permitted", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireReviewer gates the pending queue and decision routes to roles that
// can review at all (faculty, admin). Which leaves a faculty member may
// actually decide is checked again in the leave service.
func (ra *RoleAuthorization) RequireReviewer() func(http.Handler) http.Handler {
	return ra.Require(ActionViewPendingQueue)
}
