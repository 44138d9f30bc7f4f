package product

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog operations.
type Service interface {
	CreateProduct(ctx context.Context, sellerEmail string, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	ListSellerProducts(ctx context.Context, sellerEmail string) ([]ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

// CreateProduct lists a new product under the calling seller.
func (s *service) CreateProduct(ctx context.Context, sellerEmail string, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.UnitPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	if err := validateDiscountPercent(input.Discount); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		GenericName: strings.TrimSpace(input.GenericName),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Company:     strings.TrimSpace(input.Company),
		UnitPrice:   input.UnitPrice,
		Discount:    input.Discount,
		ImageURL:    input.ImageURL,
		SellerEmail: sellerEmail,
		SellerName:  strings.TrimSpace(input.SellerName),
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list products")
	}
	return toDTOs(rows), nil
}

func (s *service) ListSellerProducts(ctx context.Context, sellerEmail string) ([]ProductDTO, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list seller products")
	}
	return toDTOs(rows), nil
}

func validateDiscountPercent(value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	return nil
}
