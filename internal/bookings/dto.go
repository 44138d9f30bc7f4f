package bookings

import (
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingDTO is the transport shape of a settled order.
type BookingDTO struct {
	ID            uuid.UUID            `json:"id"`
	SourceCartID  *uuid.UUID           `json:"sourceCartId,omitempty"`
	BuyerEmail    string               `json:"buyerEmail"`
	BuyerName     string               `json:"buyerName"`
	SellerEmail   string               `json:"sellerEmail"`
	Items         []models.BookingItem `json:"items"`
	TotalPrice    decimal.Decimal      `json:"totalPrice"`
	Status        enums.BookingStatus  `json:"status"`
	TransactionID string               `json:"transactionId"`
	PaidAt        time.Time            `json:"paidAt"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	items := b.Items
	if items == nil {
		items = []models.BookingItem{}
	}
	return &BookingDTO{
		ID:            b.ID,
		SourceCartID:  b.SourceCartID,
		BuyerEmail:    b.BuyerEmail,
		BuyerName:     b.BuyerName,
		SellerEmail:   b.SellerEmail,
		Items:         items,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		TransactionID: b.TransactionID,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
	}
}

func FromModels(rows []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// involves reports whether email is the buyer or one of the sellers.
func involves(b *models.Booking, email string) bool {
	if b.BuyerEmail == email || b.SellerEmail == email {
		return true
	}
	for _, item := range b.Items {
		if item.SellerEmail == email {
			return true
		}
	}
	return false
}
