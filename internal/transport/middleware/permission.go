package middleware

import (
	"log/slog"
	"net/http"

	"github.com/wkusuma/customs-case-management/internal/auth"
)

// RequirePermissions passes the request through when the authenticated user
// holds at least one of the named permissions.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasAnyPermission(permissions) {
				slog.Warn("access denied: missing permission",
					"user_id", user.ID,
					"required_permissions", permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireHierarchyLevel passes the request through when the authenticated
// user's rank is at or above the given level.
func RequireHierarchyLevel(minLevel int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if user.HierarchyLevel < minLevel {
				slog.Warn("access denied: rank below required level",
					"user_id", user.ID,
					"hierarchy_level", user.HierarchyLevel,
					"required_level", minLevel)
				http.Error(w, "Forbidden: insufficient rank", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
