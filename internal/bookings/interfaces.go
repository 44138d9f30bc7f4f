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

// Repository defines persistence operations for the bookings table. Rows are
// inserted once and never updated.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindBySourceCart(ctx context.Context, cartID uuid.UUID) (*models.Booking, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Booking, error)
	ListSettled(ctx context.Context) ([]models.Booking, error)
	ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]models.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountBySeller(ctx context.Context, sellerEmail string) (int64, error)
	SumTotalByStatus(ctx context.Context, status enums.BookingStatus) (decimal.Decimal, error)
}
