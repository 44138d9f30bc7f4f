package cart

import (
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartEntryDTO is the transport shape of a pending line item.
type CartEntryDTO struct {
	ID          uuid.UUID        `json:"id"`
	BuyerEmail  string           `json:"buyerEmail"`
	BuyerName   string           `json:"buyerName"`
	ProductID   uuid.UUID        `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	LineTotal   decimal.Decimal  `json:"lineTotal"`
	SellerEmail string           `json:"sellerEmail"`
	SellerName  string           `json:"sellerName"`
	Status      enums.CartStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// AddItemInput is the add-to-cart payload. Price and seller are snapshotted
// from the catalog.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	BuyerName string
}

func FromModel(e *models.CartEntry) CartEntryDTO {
	return CartEntryDTO{
		ID:          e.ID,
		BuyerEmail:  e.BuyerEmail,
		BuyerName:   e.BuyerName,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		LineTotal:   e.LineTotal(),
		SellerEmail: e.SellerEmail,
		SellerName:  e.SellerName,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}

func FromModels(rows []models.CartEntry) []CartEntryDTO {
	out := make([]CartEntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
