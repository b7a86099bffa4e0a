package middleware

import (
	"net/http"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/response"
)

// RequireRole rejects callers whose token role is not one of roles. It must
// run after Authenticate.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := access.RequireRole(CallerFromContext(r.Context()), roles...); err != nil {
				response.FromError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

func RequireAdminOrDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleDoctor)(next)
}

func RequireAdminOrPatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RolePatient)(next)
}
