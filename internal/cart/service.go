package cart

import (
	"context"
	"errors"
	"time"

	product "github.com/angelmondragon/medmart-backend/internal/products"
	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxQuantity caps a single line item.
const MaxQuantity = 1000

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo     *Repository
	Products productLoader
	Now      func() time.Time
}

// Service exposes buyer cart management. Every mutation is scoped to the
// calling buyer; touching another buyer's entry is reported as unauthorized.
type Service interface {
	AddItem(ctx context.Context, buyerEmail string, input AddItemInput) (*CartEntryDTO, error)
	ListItems(ctx context.Context, buyerEmail string) ([]CartEntryDTO, error)
	UpdateQuantity(ctx context.Context, buyerEmail string, id uuid.UUID, quantity int) (*CartEntryDTO, error)
	RemoveItem(ctx context.Context, buyerEmail string, id uuid.UUID) error
	Clear(ctx context.Context, buyerEmail string) (int64, error)
}

type service struct {
	repo     *Repository
	products productLoader
	now      func() time.Time
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: params.Repo, products: params.Products, now: now}, nil
}

func (s *service) AddItem(ctx context.Context, buyerEmail string, input AddItemInput) (*CartEntryDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	listing, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load product")
	}

	entry := &models.CartEntry{
		BuyerEmail:  buyerEmail,
		BuyerName:   input.BuyerName,
		ProductID:   listing.ID,
		ProductName: listing.Name,
		Quantity:    input.Quantity,
		UnitPrice:   product.EffectivePrice(listing),
		SellerEmail: listing.SellerEmail,
		SellerName:  listing.SellerName,
		Status:      enums.CartStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "db: insert cart entry")
	}
	dto := FromModel(entry)
	return &dto, nil
}

func (s *service) ListItems(ctx context.Context, buyerEmail string) ([]CartEntryDTO, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list cart entries")
	}
	return FromModels(rows), nil
}

func (s *service) UpdateQuantity(ctx context.Context, buyerEmail string, id uuid.UUID, quantity int) (*CartEntryDTO, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	entry, err := s.loadOwned(ctx, buyerEmail, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	affected, err := s.repo.UpdateQuantity(ctx, id, quantity, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "db: update cart quantity")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart entry not found")
	}
	entry.Quantity = quantity
	entry.UpdatedAt = now
	dto := FromModel(entry)
	return &dto, nil
}

func (s *service) RemoveItem(ctx context.Context, buyerEmail string, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, buyerEmail, id); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "db: delete cart entry")
	}
	return nil
}

// Clear empties the buyer's cart and returns the number of removed entries.
func (s *service) Clear(ctx context.Context, buyerEmail string) (int64, error) {
	removed, err := s.repo.DeleteByBuyer(ctx, buyerEmail)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "db: clear cart")
	}
	return removed, nil
}

func (s *service) loadOwned(ctx context.Context, buyerEmail string, id uuid.UUID) (*models.CartEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load cart entry")
	}
	if entry.BuyerEmail != buyerEmail {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart entry belongs to another buyer")
	}
	return entry, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 1000")
	}
	return nil
}
