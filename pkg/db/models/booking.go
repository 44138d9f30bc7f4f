package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/medmart-backend/pkg/enums"
)

// BookingItem is a line item copied into a booking at settlement time.
type BookingItem struct {
	CartID      *uuid.UUID      `json:"cartId,omitempty"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	SellerEmail string          `json:"sellerEmail"`
	SellerName  string          `json:"sellerName,omitempty"`
}

// Booking is a settled order. Rows are written once and never updated.
type Booking struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SourceCartID  *uuid.UUID          `gorm:"column:source_cart_id;type:uuid;uniqueIndex"`
	BuyerEmail    string              `gorm:"column:buyer_email;not null;index"`
	BuyerName     string              `gorm:"column:buyer_name;not null;default:''"`
	SellerEmail   string              `gorm:"column:seller_email;not null;index"`
	Items         []BookingItem       `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status        enums.BookingStatus `gorm:"column:status;not null"`
	TransactionID string              `gorm:"column:transaction_id;not null"`
	PaidAt        time.Time           `gorm:"column:paid_at;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}
