package cart

import (
	"context"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists pending cart entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a cart repository to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, entry *models.CartEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartEntry, error) {
	var entry models.CartEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := r.db.WithContext(ctx).
		Where("buyer_email = ?", buyerEmail).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *Repository) ListPending(ctx context.Context) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CartStatusPending).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// CountAll returns the number of cart entries across every buyer.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartEntry{}).Count(&count).Error
	return count, err
}

func (r *Repository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "updated_at": at})
	return res.RowsAffected, res.Error
}

// Delete removes one entry and reports how many rows went away. Settlement
// relies on the count to detect a competing promotion.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartEntry{})
	return res.RowsAffected, res.Error
}

// DeleteOwned removes the listed entries that belong to buyerEmail.
func (r *Repository) DeleteOwned(ctx context.Context, buyerEmail string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("buyer_email = ? AND id IN ?", buyerEmail, ids).
		Delete(&models.CartEntry{})
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteByBuyer(ctx context.Context, buyerEmail string) (int64, error) {
	res := r.db.WithContext(ctx).Where("buyer_email = ?", buyerEmail).Delete(&models.CartEntry{})
	return res.RowsAffected, res.Error
}
