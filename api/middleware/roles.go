package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/medmart-backend/api/responses"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
)

// RoleResolver looks up the stored role for an email.
type RoleResolver interface {
	Resolve(ctx context.Context, email string) (enums.UserRole, error)
}

// RequireRole resolves the caller's role on every request so promotions and
// demotions apply immediately. Must run after Auth.
func RequireRole(resolver RoleResolver, role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := UserEmailFromContext(r.Context())
			if email == "" || resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			actual, err := resolver.Resolve(r.Context(), email)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "user not registered"))
					return
				}
				if pkgerrors.As(err) == nil {
					err = pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "resolve role")
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if actual != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(resolver RoleResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(resolver, enums.UserRoleAdmin, logg)
}

func RequireSeller(resolver RoleResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(resolver, enums.UserRoleSeller, logg)
}
