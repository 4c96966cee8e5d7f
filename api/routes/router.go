package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mandilink/mandilink-backend/api/controllers"
	ordercontrollers "github.com/mandilink/mandilink-backend/api/controllers/grouporders"
	"github.com/mandilink/mandilink-backend/api/middleware"
	"github.com/mandilink/mandilink-backend/internal/analytics"
	"github.com/mandilink/mandilink-backend/internal/catalog"
	"github.com/mandilink/mandilink-backend/internal/grouporders"
	"github.com/mandilink/mandilink-backend/internal/identity"
	"github.com/mandilink/mandilink-backend/internal/suppliers"
	"github.com/mandilink/mandilink-backend/pkg/auth/session"
	"github.com/mandilink/mandilink-backend/pkg/config"
	"github.com/mandilink/mandilink-backend/pkg/db"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	"github.com/mandilink/mandilink-backend/pkg/logger"
	"github.com/mandilink/mandilink-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionChecker  session.AccessSessionChecker
	MetricsHandler  http.Handler
	IdentityService identity.Service
	CatalogService  catalog.Service
	OrdersService   grouporders.Service
	SupplierService suppliers.Service
	Analytics       analytics.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.IdentityService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.IdentityService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.IdentityService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(p.IdentityService, logg))
			r.Get("/me", controllers.AuthMe(p.IdentityService, logg))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(p.CatalogService, logg))
		r.Get("/{productId}", controllers.GetProduct(p.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleVendor), logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.ListVendorOrders(p.OrdersService, logg))
				r.Post("/", ordercontrollers.Create(p.OrdersService, logg))
				r.Post("/{orderId}/join", ordercontrollers.Join(p.OrdersService, logg))
				r.Patch("/{orderId}", ordercontrollers.Modify(p.OrdersService, logg))
				r.Post("/{orderId}/cancel", ordercontrollers.Cancel(p.OrdersService, logg))
			})
		})

		r.Route("/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleSupplier), logg))

			r.Get("/me", controllers.SupplierProfile(p.SupplierService, logg))
			r.Put("/me/location", controllers.SupplierUpdateLocation(p.SupplierService, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.SupplierCreateProduct(p.CatalogService, logg))
				r.Patch("/{productId}", controllers.SupplierUpdateProduct(p.CatalogService, logg))
				r.Delete("/{productId}", controllers.SupplierDeactivateProduct(p.CatalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.ListSupplierOrders(p.OrdersService, logg))
				r.Post("/{orderId}/approve", ordercontrollers.Approve(p.OrdersService, logg))
				r.Post("/{orderId}/reject", ordercontrollers.Reject(p.OrdersService, logg))
				r.Post("/{orderId}/deliver", ordercontrollers.Deliver(p.OrdersService, logg))
			})

			r.Get("/analytics/dashboard", controllers.SupplierDashboard(p.Analytics, logg))
		})

		r.Get("/orders/{orderId}/tracking", ordercontrollers.Tracking(p.OrdersService, logg))
	})

	return r
}
