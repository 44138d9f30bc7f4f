package bookings

import (
	"context"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindBySourceCart(ctx context.Context, cartID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "source_cart_id = ?", cartID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.db.WithContext(ctx).
		Where("buyer_email = ?", buyerEmail).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListSettled(ctx context.Context) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.BookingStatus{enums.BookingStatusPaid, enums.BookingStatusApproved}).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListCreatedBetween returns bookings with start <= created_at < end, newest
// first. A nil bound leaves that side open.
func (r *repository) ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if start != nil {
		query = query.Where("created_at >= ?", start.UTC())
	}
	if end != nil {
		query = query.Where("created_at < ?", end.UTC())
	}
	var rows []models.Booking
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error
	return count, err
}

func (r *repository) CountBySeller(ctx context.Context, sellerEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("seller_email = ?", sellerEmail).
		Count(&count).Error
	return count, err
}

func (r *repository) SumTotalByStatus(ctx context.Context, status enums.BookingStatus) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ?", status).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
