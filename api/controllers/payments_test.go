package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/medmart-backend/internal/bookings"
	"github.com/angelmondragon/medmart-backend/internal/payments"
	"github.com/angelmondragon/medmart-backend/internal/settlement"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
)

type stubSettlement struct {
	checkoutBuyer string
	checkoutInput settlement.CheckoutInput
	checkoutErr   error
	acceptedID    uuid.UUID
	acceptErr     error
}

func (s *stubSettlement) Checkout(ctx context.Context, buyerEmail string, input settlement.CheckoutInput) (*bookings.BookingDTO, error) {
	s.checkoutBuyer = buyerEmail
	s.checkoutInput = input
	if s.checkoutErr != nil {
		return nil, s.checkoutErr
	}
	return &bookings.BookingDTO{ID: uuid.New(), BuyerEmail: buyerEmail, Status: enums.BookingStatusPaid, TransactionID: input.TransactionID}, nil
}

func (s *stubSettlement) AcceptPayment(ctx context.Context, cartID uuid.UUID) (*bookings.BookingDTO, error) {
	s.acceptedID = cartID
	if s.acceptErr != nil {
		return nil, s.acceptErr
	}
	return &bookings.BookingDTO{ID: uuid.New(), Status: enums.BookingStatusApproved, TransactionID: settlement.ManualTransactionID}, nil
}

func (s *stubSettlement) PaymentsOverview(ctx context.Context) (*settlement.PaymentsOverview, error) {
	return &settlement.PaymentsOverview{Pending: nil, Paid: nil}, nil
}

type stubPayments struct {
	amount decimal.Decimal
	err    error
}

func (s *stubPayments) CreateIntent(ctx context.Context, input payments.CreateIntentInput) (*payments.IntentDTO, error) {
	s.amount = input.Amount
	if s.err != nil {
		return nil, s.err
	}
	return &payments.IntentDTO{ClientSecret: "pi_secret"}, nil
}

func TestCreateBookingUsesCallerAsBuyer(t *testing.T) {
	svc := &stubSettlement{}
	body := `{"transactionId":"pi_1","buyerName":"Ann","totalPrice":"20","cartItems":[{"productId":"` + uuid.NewString() +
		`","productName":"P1","quantity":2,"unitPrice":"10","sellerEmail":"s@x.com","sellerName":"S"}]}`

	resp := serve(http.MethodPost, "/booking", "/booking", "a@x.com", body, CreateBooking(svc, nil))

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "a@x.com", svc.checkoutBuyer)
	assert.Equal(t, "pi_1", svc.checkoutInput.TransactionID)
	require.Len(t, svc.checkoutInput.CartItems, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(svc.checkoutInput.CartItems[0].UnitPrice))
}

func TestCreateBookingRequiresIdentity(t *testing.T) {
	svc := &stubSettlement{}
	resp := serve(http.MethodPost, "/booking", "/booking", "", `{}`, CreateBooking(svc, nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Empty(t, svc.checkoutBuyer)
}

func TestCreateBookingConflict(t *testing.T) {
	svc := &stubSettlement{checkoutErr: pkgerrors.New(pkgerrors.CodeConflict, "transaction already recorded")}
	body := `{"transactionId":"pi_1","cartItems":[{"productId":"` + uuid.NewString() +
		`","productName":"P1","quantity":1,"unitPrice":"10","sellerEmail":"s@x.com"}]}`

	resp := serve(http.MethodPost, "/booking", "/booking", "a@x.com", body, CreateBooking(svc, nil))

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "transaction already recorded", decodeError(t, resp).Message)
}

func TestAcceptPaymentPassesPathID(t *testing.T) {
	svc := &stubSettlement{}
	id := uuid.New()

	resp := serve(http.MethodPatch, "/accept-payment/{id}", "/accept-payment/"+id.String(), "admin@x.com", "", AcceptPayment(svc, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, svc.acceptedID)

	var envelope struct {
		Data bookings.BookingDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, enums.BookingStatusApproved, envelope.Data.Status)
	assert.Equal(t, settlement.ManualTransactionID, envelope.Data.TransactionID)
}

func TestAcceptPaymentNotFound(t *testing.T) {
	svc := &stubSettlement{acceptErr: pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")}

	resp := serve(http.MethodPatch, "/accept-payment/{id}", "/accept-payment/"+uuid.NewString(), "admin@x.com", "", AcceptPayment(svc, nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "payment not found", decodeError(t, resp).Message)
}

func TestCreatePaymentIntent(t *testing.T) {
	svc := &stubPayments{}

	resp := serve(http.MethodPost, "/create-payment-intent", "/create-payment-intent", "a@x.com", `{"amount":"19.99"}`, CreatePaymentIntent(svc, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decimal.RequireFromString("19.99").Equal(svc.amount))
	assert.Contains(t, resp.Body.String(), `"clientSecret":"pi_secret"`)
}

func TestCreatePaymentIntentHidesGatewayError(t *testing.T) {
	svc := &stubPayments{err: pkgerrors.New(pkgerrors.CodeUpstream, "stripe: card declined for acct_123")}

	resp := serve(http.MethodPost, "/create-payment-intent", "/create-payment-intent", "a@x.com", `{"amount":"5"}`, CreatePaymentIntent(svc, nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "acct_123")
}
