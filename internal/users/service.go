package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/medmart-backend/internal/notifications"
	"github.com/angelmondragon/medmart-backend/pkg/db"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"gorm.io/gorm"
)

// Notifier delivers best-effort email.
type Notifier interface {
	Notify(ctx context.Context, emails ...notifications.Email)
}

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	Repo     *Repository
	Notifier Notifier
	SiteName string
	Now      func() time.Time
}

// Service exposes account registration, lookup and role administration.
type Service interface {
	Upsert(ctx context.Context, input UpsertUserInput) (UpsertResult, error)
	Get(ctx context.Context, email string) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	UpdateRole(ctx context.Context, email string, role enums.UserRole) (*UserDTO, error)
	Resolve(ctx context.Context, email string) (enums.UserRole, error)
}

type service struct {
	repo     *Repository
	notifier Notifier
	siteName string
	now      func() time.Time
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:     params.Repo,
		notifier: params.Notifier,
		siteName: params.SiteName,
		now:      now,
	}, nil
}

// Upsert registers a user on first login. A repeat login returns the stored
// record untouched unless it carries a role request, in which case only the
// status changes.
func (s *service) Upsert(ctx context.Context, input UpsertUserInput) (UpsertResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		return UpsertResult{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !input.Status.IsValid() {
		return UpsertResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid user status")
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return s.applyRepeatLogin(ctx, existing.Email, input)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return UpsertResult{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load user")
	}

	user := input.toModel()
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			// lost a concurrent first login; the stored record wins
			return s.applyRepeatLogin(ctx, input.Email, input)
		}
		return UpsertResult{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "create user")
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.WelcomeEmail(s.siteName, user.Email))
	}
	return UpsertResult{User: FromModel(user), Created: true}, nil
}

func (s *service) applyRepeatLogin(ctx context.Context, email string, input UpsertUserInput) (UpsertResult, error) {
	if input.Status == enums.UserStatusRequested {
		if _, err := s.repo.UpdateStatus(ctx, email, enums.UserStatusRequested, s.now()); err != nil {
			return UpsertResult{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "update user status")
		}
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return UpsertResult{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load user")
	}
	return UpsertResult{User: FromModel(user)}, nil
}

func (s *service) Get(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateRole sets the user's role and clears any pending request.
func (s *service) UpdateRole(ctx context.Context, email string, role enums.UserRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
	email = strings.TrimSpace(email)
	affected, err := s.repo.UpdateRole(ctx, email, role, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "update user role")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, email)
}

// Resolve returns the stored role for email. It is read on every call.
func (s *service) Resolve(ctx context.Context, email string) (enums.UserRole, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "resolve role")
	}
	return user.Role, nil
}
