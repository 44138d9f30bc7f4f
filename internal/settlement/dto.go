package settlement

import (
	"github.com/angelmondragon/medmart-backend/internal/bookings"
	"github.com/angelmondragon/medmart-backend/internal/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManualTransactionID marks bookings promoted by an administrator without a
// gateway reference.
const ManualTransactionID = "manual_admin_payment"

// CheckoutItem is one paid line of a buyer checkout.
type CheckoutItem struct {
	CartID      *uuid.UUID      `json:"cartId,omitempty"`
	ProductID   uuid.UUID       `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	SellerEmail string          `json:"sellerEmail" validate:"required,email"`
	SellerName  string          `json:"sellerName,omitempty"`
}

// CheckoutInput is the settled payment reported by the client after the
// gateway confirmed it.
type CheckoutInput struct {
	TransactionID string           `json:"transactionId" validate:"required"`
	BuyerName     string           `json:"buyerName,omitempty"`
	TotalPrice    *decimal.Decimal `json:"totalPrice,omitempty"`
	CartItems     []CheckoutItem   `json:"cartItems" validate:"required,min=1,dive"`
}

// PaymentsOverview splits orders into those awaiting settlement and those
// already settled.
type PaymentsOverview struct {
	Pending []cart.CartEntryDTO   `json:"pending"`
	Paid    []bookings.BookingDTO `json:"paid"`
}
