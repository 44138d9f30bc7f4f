package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/medmart-backend/internal/bookings"
	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted by the sales report.
const DateLayout = "2006-01-02"

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type productCounter interface {
	Count(ctx context.Context, sellerEmail string) (int64, error)
}

type cartCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type bookingReader interface {
	Count(ctx context.Context) (int64, error)
	CountBySeller(ctx context.Context, sellerEmail string) (int64, error)
	SumTotalByStatus(ctx context.Context, status enums.BookingStatus) (decimal.Decimal, error)
	ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]models.Booking, error)
}

// AdminSummary backs the admin dashboard.
type AdminSummary struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalProducts int64           `json:"totalProducts"`
	TotalBookings int64           `json:"totalBookings"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// SellerSummary backs the seller dashboard. TotalPending counts cart entries
// across all buyers, not only those for the seller's products.
type SellerSummary struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalPending  int64 `json:"totalPending"`
	TotalBookings int64 `json:"totalBookings"`
}

// Service aggregates dashboard figures from the stores.
type Service interface {
	AdminHome(ctx context.Context) (*AdminSummary, error)
	SalesReport(ctx context.Context, startDate, endDate string) ([]bookings.BookingDTO, error)
	SellerHome(ctx context.Context, sellerEmail string) (*SellerSummary, error)
}

type ServiceParams struct {
	Users    userCounter
	Products productCounter
	Cart     cartCounter
	Bookings bookingReader
}

type service struct {
	users    userCounter
	products productCounter
	cart     cartCounter
	bookings bookingReader
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user counter required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart counter required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("booking reader required")
	}
	return &service{
		users:    params.Users,
		products: params.Products,
		cart:     params.Cart,
		bookings: params.Bookings,
	}, nil
}

// AdminHome reports platform totals. Revenue counts paid bookings only.
func (s *service) AdminHome(ctx context.Context) (*AdminSummary, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "count users")
	}
	products, err := s.products.Count(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "count products")
	}
	total, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "count bookings")
	}
	revenue, err := s.bookings.SumTotalByStatus(ctx, enums.BookingStatusPaid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "sum revenue")
	}
	return &AdminSummary{
		TotalUsers:    users,
		TotalProducts: products,
		TotalBookings: total,
		TotalPrice:    revenue,
	}, nil
}

// SalesReport lists bookings newest first. When both dates are given the
// range covers start 00:00 UTC through the whole end day.
func (s *service) SalesReport(ctx context.Context, startDate, endDate string) ([]bookings.BookingDTO, error) {
	start, end, err := ParseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookings.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list bookings")
	}
	return bookings.FromModels(rows), nil
}

func (s *service) SellerHome(ctx context.Context, sellerEmail string) (*SellerSummary, error) {
	sellerEmail = strings.TrimSpace(sellerEmail)
	if sellerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller email required")
	}
	products, err := s.products.Count(ctx, sellerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "count products")
	}
	pending, err := s.cart.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "count pending")
	}
	booked, err := s.bookings.CountBySeller(ctx, sellerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "count bookings")
	}
	return &SellerSummary{
		TotalProducts: products,
		TotalPending:  pending,
		TotalBookings: booked,
	}, nil
}

// ParseRange turns two calendar dates into a half-open [start, end+1d)
// interval. Either date missing means no filter.
func ParseRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if startDate == "" || endDate == "" {
		return nil, nil, nil
	}

	start, err := time.ParseInLocation(DateLayout, startDate, time.UTC)
	if err != nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate must be YYYY-MM-DD")
	}
	endDay, err := time.ParseInLocation(DateLayout, endDate, time.UTC)
	if err != nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must be YYYY-MM-DD")
	}
	if endDay.Before(start) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate must not be after endDate")
	}
	end := endDay.AddDate(0, 0, 1)
	return &start, &end, nil
}
