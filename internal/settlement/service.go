package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/medmart-backend/internal/bookings"
	"github.com/angelmondragon/medmart-backend/internal/cart"
	"github.com/angelmondragon/medmart-backend/internal/notifications"
	"github.com/angelmondragon/medmart-backend/pkg/db"
	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, emails ...notifications.Email)
}

// Service moves orders from the cart into bookings.
type Service interface {
	Checkout(ctx context.Context, buyerEmail string, input CheckoutInput) (*bookings.BookingDTO, error)
	AcceptPayment(ctx context.Context, cartID uuid.UUID) (*bookings.BookingDTO, error)
	PaymentsOverview(ctx context.Context) (*PaymentsOverview, error)
}

type ServiceParams struct {
	Tx       txRunner
	Cart     *cart.Repository
	Bookings bookings.Repository
	Notifier notifier
	Logger   *logger.Logger
	Metrics  *metrics.SettlementMetrics
	Now      func() time.Time
}

type service struct {
	tx       txRunner
	cart     *cart.Repository
	bookings bookings.Repository
	notifier notifier
	logg     *logger.Logger
	metrics  *metrics.SettlementMetrics
	now      func() time.Time
}

// NewService builds the settlement service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:       params.Tx,
		cart:     params.Cart,
		bookings: params.Bookings,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// Checkout records a gateway-confirmed payment as a paid booking and drops
// the buyer's referenced cart entries in the same transaction.
func (s *service) Checkout(ctx context.Context, buyerEmail string, input CheckoutInput) (result *bookings.BookingDTO, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe(metrics.SettlementProtocolCheckout, outcomeFor(err), time.Since(start))
	}()

	buyerEmail = strings.TrimSpace(buyerEmail)
	if buyerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	total, err := validateCheckout(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]models.BookingItem, 0, len(input.CartItems))
	cartIDs := make([]uuid.UUID, 0, len(input.CartItems))
	for _, item := range input.CartItems {
		items = append(items, models.BookingItem{
			CartID:      item.CartID,
			ProductID:   item.ProductID,
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			SellerEmail: strings.TrimSpace(item.SellerEmail),
			SellerName:  strings.TrimSpace(item.SellerName),
		})
		if item.CartID != nil && *item.CartID != uuid.Nil {
			cartIDs = append(cartIDs, *item.CartID)
		}
	}

	booking := &models.Booking{
		BuyerEmail:    buyerEmail,
		BuyerName:     strings.TrimSpace(input.BuyerName),
		SellerEmail:   items[0].SellerEmail,
		Items:         items,
		TotalPrice:    total,
		Status:        enums.BookingStatusPaid,
		TransactionID: strings.TrimSpace(input.TransactionID),
		PaidAt:        now,
		CreatedAt:     now,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.bookings.WithTx(tx).Create(ctx, booking); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "transaction already recorded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "create booking")
		}
		if _, err := s.cart.WithTx(tx).DeleteOwned(ctx, buyerEmail, cartIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "clear settled cart entries")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logSettled(ctx, booking)
	s.notifyCheckout(ctx, booking)
	return bookings.FromModel(booking), nil
}

// AcceptPayment promotes one pending cart entry into an approved booking.
// The conditional delete and the insert share a transaction, so concurrent
// approvals of the same entry produce exactly one booking.
func (s *service) AcceptPayment(ctx context.Context, cartID uuid.UUID) (result *bookings.BookingDTO, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe(metrics.SettlementProtocolManual, outcomeFor(err), time.Since(start))
	}()

	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	var booking *models.Booking
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cart.WithTx(tx)
		bookingsRepo := s.bookings.WithTx(tx)

		entry, err := cartRepo.FindByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "load cart entry")
		}

		affected, err := cartRepo.Delete(ctx, cartID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "delete cart entry")
		}
		if affected != 1 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}

		now := s.now()
		sourceID := entry.ID
		cartRef := entry.ID
		booking = &models.Booking{
			SourceCartID: &sourceID,
			BuyerEmail:   entry.BuyerEmail,
			BuyerName:    entry.BuyerName,
			SellerEmail:  entry.SellerEmail,
			Items: []models.BookingItem{{
				CartID:      &cartRef,
				ProductID:   entry.ProductID,
				ProductName: entry.ProductName,
				Quantity:    entry.Quantity,
				UnitPrice:   entry.UnitPrice,
				SellerEmail: entry.SellerEmail,
				SellerName:  entry.SellerName,
			}},
			TotalPrice:    entry.LineTotal(),
			Status:        enums.BookingStatusApproved,
			TransactionID: ManualTransactionID,
			PaidAt:        now,
			CreatedAt:     now,
		}
		if err := bookingsRepo.Create(ctx, booking); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "create booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logSettled(ctx, booking)
	return bookings.FromModel(booking), nil
}

func (s *service) PaymentsOverview(ctx context.Context) (*PaymentsOverview, error) {
	pending, err := s.cart.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list pending payments")
	}
	paid, err := s.bookings.ListSettled(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list settled payments")
	}
	return &PaymentsOverview{
		Pending: cart.FromModels(pending),
		Paid:    bookings.FromModels(paid),
	}, nil
}

func (s *service) notifyCheckout(ctx context.Context, booking *models.Booking) {
	if s.notifier == nil {
		return
	}
	emails := []notifications.Email{
		notifications.BuyerBookingEmail(booking.BuyerEmail, booking.TransactionID),
	}
	seen := map[string]struct{}{}
	for _, item := range booking.Items {
		if _, ok := seen[item.SellerEmail]; ok {
			continue
		}
		seen[item.SellerEmail] = struct{}{}
		emails = append(emails, notifications.SellerBookingEmail(item.SellerEmail, booking.BuyerName))
	}
	s.notifier.Notify(ctx, emails...)
}

func (s *service) logSettled(ctx context.Context, booking *models.Booking) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithBookingID(ctx, booking.ID.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"status":      string(booking.Status),
		"total_price": booking.TotalPrice.StringFixed(2),
	})
	s.logg.Info(ctx, "settlement.booking_created")
}

func validateCheckout(input CheckoutInput) (decimal.Decimal, error) {
	if strings.TrimSpace(input.TransactionID) == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "transactionId is required")
	}
	if len(input.CartItems) == 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cartItems must not be empty")
	}

	total := decimal.Zero
	for i, item := range input.CartItems {
		switch {
		case item.ProductID == uuid.Nil:
			return decimal.Zero, itemError(i, "productId is required")
		case strings.TrimSpace(item.ProductName) == "":
			return decimal.Zero, itemError(i, "productName is required")
		case item.Quantity < 1:
			return decimal.Zero, itemError(i, "quantity must be at least 1")
		case !item.UnitPrice.IsPositive():
			return decimal.Zero, itemError(i, "unitPrice must be positive")
		case strings.TrimSpace(item.SellerEmail) == "":
			return decimal.Zero, itemError(i, "sellerEmail is required")
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if input.TotalPrice != nil && !input.TotalPrice.Round(2).Equal(total.Round(2)) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "totalPrice does not match cart items").
			WithDetails(map[string]string{
				"expected": total.StringFixed(2),
				"received": input.TotalPrice.StringFixed(2),
			})
	}
	return total, nil
}

func itemError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]int{"item": index})
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.SettlementOutcomeSettled
	}
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return metrics.SettlementOutcomeNotFound
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		return metrics.SettlementOutcomeConflict
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation), pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized):
		return metrics.SettlementOutcomeRejected
	default:
		return metrics.SettlementOutcomeError
	}
}
