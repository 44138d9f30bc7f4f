package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/medmart-backend/api/middleware"
	"github.com/angelmondragon/medmart-backend/api/validators"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
)

func callerEmail(r *http.Request) (string, error) {
	email := middleware.UserEmailFromContext(r.Context())
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return email, nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}

func pathEmail(r *http.Request) (string, error) {
	email := validators.NormalizeEmail(chi.URLParam(r, "email"))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return email, nil
}

// ensureSelf rejects access to another buyer's resources.
func ensureSelf(r *http.Request) (string, error) {
	caller, err := callerEmail(r)
	if err != nil {
		return "", err
	}
	target, err := pathEmail(r)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(caller, target) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "resource belongs to another user")
	}
	return caller, nil
}
