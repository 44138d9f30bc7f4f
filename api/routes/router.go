package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/medmart-backend/api/controllers"
	"github.com/angelmondragon/medmart-backend/api/middleware"
	"github.com/angelmondragon/medmart-backend/internal/bookings"
	"github.com/angelmondragon/medmart-backend/internal/cart"
	"github.com/angelmondragon/medmart-backend/internal/payments"
	products "github.com/angelmondragon/medmart-backend/internal/products"
	"github.com/angelmondragon/medmart-backend/internal/reports"
	"github.com/angelmondragon/medmart-backend/internal/settlement"
	"github.com/angelmondragon/medmart-backend/internal/users"
	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/angelmondragon/medmart-backend/pkg/db"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"github.com/angelmondragon/medmart-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Nil services disable
// nothing at routing time; handlers report them as internal errors.
type Deps struct {
	DB    db.Pinger
	Redis *redis.Client

	Users      users.Service
	Products   products.Service
	Cart       cart.Service
	Payments   payments.Service
	Settlement settlement.Service
	Bookings   bookings.Service
	Reports    reports.Service

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	tokenPolicy := middleware.NewAuthRateLimitPolicy(
		"token",
		cfg.AuthRateLimit.TokenWindow,
		cfg.AuthRateLimit.TokenIPLimit,
		cfg.AuthRateLimit.TokenEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	tokenLimit := passthrough
	registerLimit := passthrough
	idempotency := passthrough
	if deps.Redis != nil {
		tokenLimit = middleware.AuthRateLimit(tokenPolicy, deps.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)
		idempotency = middleware.Idempotency(deps.Redis, logg)
	}

	var resolver middleware.RoleResolver
	if deps.Users != nil {
		resolver = deps.Users
	}
	requireAdmin := middleware.RequireAdmin(resolver, logg)
	requireSeller := middleware.RequireSeller(resolver, logg)

	pingers := map[string]controllers.Pinger{}
	if deps.DB != nil {
		pingers["db"] = deps.DB
	}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// public
	r.With(tokenLimit).Post("/jwt", controllers.IssueToken(cfg, logg))
	r.Get("/logout", controllers.Logout(cfg))
	r.With(registerLimit).Put("/user", controllers.UpsertUser(deps.Users, logg))
	r.Get("/products", controllers.ListProducts(deps.Products, logg))
	r.Get("/product/{id}", controllers.GetProduct(deps.Products, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(idempotency)

		r.Get("/user/{email}", controllers.GetUser(deps.Users, logg))
		r.Post("/create-payment-intent", controllers.CreatePaymentIntent(deps.Payments, logg))
		r.Post("/booking", controllers.CreateBooking(deps.Settlement, logg))
		r.Get("/invoice-page/{id}", controllers.Invoice(deps.Bookings, logg))
		r.Get("/payments/history/{email}", controllers.PaymentHistory(deps.Bookings, logg))

		r.Post("/cart", controllers.CartAdd(deps.Cart, logg))
		r.Get("/carts/{email}", controllers.CartList(deps.Cart, logg))
		r.Patch("/cart-update/{id}", controllers.CartUpdateQuantity(deps.Cart, logg))
		r.Delete("/cart/{id}", controllers.CartRemove(deps.Cart, logg))
		r.Delete("/carts/{email}", controllers.CartClear(deps.Cart, logg))

		r.Get("/products/{email}", controllers.ListSellerProducts(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/users", controllers.ListUsers(deps.Users, logg))
			r.Patch("/users/update/{email}", controllers.UpdateUserRole(deps.Users, logg))
			r.Get("/payments", controllers.PaymentsOverview(deps.Settlement, logg))
			r.Patch("/accept-payment/{id}", controllers.AcceptPayment(deps.Settlement, logg))
			r.Get("/admin-home", controllers.AdminHome(deps.Reports, logg))
			r.Get("/admin/sales-report", controllers.SalesReport(deps.Reports, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSeller)
			r.Get("/seller-home", controllers.SellerHome(deps.Reports, logg))
			r.Post("/product", controllers.SellerCreateProduct(deps.Products, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
