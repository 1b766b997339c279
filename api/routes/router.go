package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metapharm/metapharm-backend/api/controllers"
	"github.com/metapharm/metapharm-backend/api/middleware"
	authsvc "github.com/metapharm/metapharm-backend/internal/auth"
	cartsvc "github.com/metapharm/metapharm-backend/internal/cart"
	"github.com/metapharm/metapharm-backend/internal/catalog"
	checkoutsvc "github.com/metapharm/metapharm-backend/internal/checkout"
	"github.com/metapharm/metapharm-backend/internal/notifications"
	"github.com/metapharm/metapharm-backend/internal/orders"
	"github.com/metapharm/metapharm-backend/pkg/config"
	"github.com/metapharm/metapharm-backend/pkg/db"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	"github.com/metapharm/metapharm-backend/pkg/logger"
	"github.com/metapharm/metapharm-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. All services are wired in
// main; the router only arranges middleware and handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Registry prometheus.Gatherer

	AuthService      authsvc.Service
	ProvisionService authsvc.ProvisionService
	CatalogService   catalog.Service
	CartStore        *cartsvc.Store
	CheckoutService  checkoutsvc.Service
	OrdersService    orders.Service
	Notifications    notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// Middleware takes store interfaces; a nil client must stay a nil
	// interface so the disabled paths trigger.
	var idemStore redis.IdempotencyStore
	var rateStore middleware.RateLimiterStore
	if deps.Redis != nil {
		idemStore = deps.Redis
		rateStore = deps.Redis
	}

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

	var pingers []db.Pinger
	if deps.DB != nil {
		pingers = append(pingers, deps.DB)
	}
	if deps.Redis != nil {
		pingers = append(pingers, deps.Redis)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/pharmacies", controllers.PublicPharmacies(deps.CatalogService, logg))
		r.Get("/search", controllers.PublicSearch(deps.CatalogService, logg))

		r.Route("/cart/{cartKey}", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartStore, logg))
			r.Post("/", controllers.CartAdd(deps.CartStore, logg))
			r.Delete("/", controllers.CartClear(deps.CartStore, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartStore, logg))
		})

		r.With(middleware.Idempotency(idemStore, logg)).
			Post("/checkout/{cartKey}", controllers.Checkout(deps.CheckoutService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/pharmacy", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ProfileRolePharmacist), logg))
			r.Use(middleware.RequirePharmacy(logg))

			r.Get("/orders", controllers.PharmacyOrders(deps.OrdersService, logg))
			r.Post("/orders/{saleId}/status", controllers.PharmacyOrderStatus(deps.OrdersService, logg))

			r.Get("/inventory", controllers.InventoryList(deps.CatalogService, logg))
			r.Post("/inventory", controllers.InventoryAdd(deps.CatalogService, logg))
			r.Post("/inventory/{stockId}/toggle", controllers.InventoryToggle(deps.CatalogService, logg))
			r.Post("/on-duty", controllers.PharmacyOnDuty(deps.CatalogService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ProfileRolePharmacist), logg))
			r.Use(middleware.RequirePharmacy(logg))

			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{id}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.ProfileRoleAdmin), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Post("/pharmacies", controllers.AdminProvisionPharmacy(deps.ProvisionService, logg))
	})

	return r
}
