package bookings

import (
	"context"
	"errors"

	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roleResolver interface {
	Resolve(ctx context.Context, email string) (enums.UserRole, error)
}

// Service exposes booking reads with viewer-based access checks.
type Service interface {
	GetInvoice(ctx context.Context, viewerEmail string, id uuid.UUID) (*BookingDTO, error)
	History(ctx context.Context, viewerEmail, buyerEmail string) ([]BookingDTO, error)
}

type service struct {
	repo  Repository
	roles roleResolver
}

// NewService builds a bookings service.
func NewService(repo Repository, roles roleResolver) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bookings repository required")
	}
	if roles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role resolver required")
	}
	return &service{repo: repo, roles: roles}, nil
}

// GetInvoice returns a booking to its buyer, one of its sellers or an admin.
func (s *service) GetInvoice(ctx context.Context, viewerEmail string, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load booking")
	}
	if !involves(booking, viewerEmail) {
		if err := s.ensureAdmin(ctx, viewerEmail); err != nil {
			return nil, err
		}
	}
	return FromModel(booking), nil
}

// History lists a buyer's bookings newest first. Only the buyer or an admin may read it.
func (s *service) History(ctx context.Context, viewerEmail, buyerEmail string) ([]BookingDTO, error) {
	if viewerEmail != buyerEmail {
		if err := s.ensureAdmin(ctx, viewerEmail); err != nil {
			return nil, err
		}
	}
	rows, err := s.repo.ListByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list bookings")
	}
	return FromModels(rows), nil
}

func (s *service) ensureAdmin(ctx context.Context, email string) error {
	role, err := s.roles.Resolve(ctx, email)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "viewer not registered")
		}
		return err
	}
	if role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "booking belongs to another user")
	}
	return nil
}
