package product

import (
	"context"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catalog listings.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a product repository to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *Repository) ListBySeller(ctx context.Context, sellerEmail string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("seller_email = ?", sellerEmail).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// Count returns the catalog size, optionally scoped to one seller.
func (r *Repository) Count(ctx context.Context, sellerEmail string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if sellerEmail != "" {
		query = query.Where("seller_email = ?", sellerEmail)
	}
	err := query.Count(&count).Error
	return count, err
}
