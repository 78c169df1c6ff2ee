package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-fn/pkg/middleware/auth"
)

// withGuard admits only authenticated users holding role (or the admin role).
func withGuard(next http.Handler, a *auth.Middleware, role string) http.Handler {
	// Without auth middleware nobody can prove a role
	if a == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
	return a.RequireRole(role)(next)
}
