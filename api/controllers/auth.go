package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/medmart-backend/api/responses"
	"github.com/angelmondragon/medmart-backend/api/validators"
	pkgAuth "github.com/angelmondragon/medmart-backend/pkg/auth"
	"github.com/angelmondragon/medmart-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
)

type issueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type authResponse struct {
	Success bool `json:"success"`
}

// IssueToken mints the identity credential for the signed-in email and
// returns it as an HttpOnly cookie.
func IssueToken(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body issueTokenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		token, err := pkgAuth.MintIdentityToken(cfg.JWT, now, validators.NormalizeEmail(body.Email))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue token"))
			return
		}

		http.SetCookie(w, pkgAuth.IdentityCookie(cfg, token, now))
		responses.WriteSuccess(w, authResponse{Success: true})
	}
}

// Logout clears the credential cookie. Issued tokens stay valid until they
// expire.
func Logout(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, pkgAuth.ClearedIdentityCookie(cfg))
		responses.WriteSuccess(w, authResponse{Success: true})
	}
}
