package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muadee/storefront-gateway/api/controllers"
	"github.com/muadee/storefront-gateway/api/middleware"
	"github.com/muadee/storefront-gateway/internal/backend"
	cartsvc "github.com/muadee/storefront-gateway/internal/cart"
	ordersvc "github.com/muadee/storefront-gateway/internal/orders"
	paymentsvc "github.com/muadee/storefront-gateway/internal/payment"
	reordersvc "github.com/muadee/storefront-gateway/internal/reorder"
	"github.com/muadee/storefront-gateway/pkg/config"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	backendClient *backend.Client,
	cartService cartsvc.Service,
	ordersService ordersvc.Service,
	reorderService reordersvc.Service,
	paymentService paymentsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisClient, logg))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitOptions{
			Scope:  "session_exchange",
			Limit:  cfg.RateLimit.ExchangeLimit,
			Window: cfg.RateLimit.ExchangeWindow,
		}, redisClient, logg))
		r.Post("/exchange", controllers.SessionExchange(cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{variantID}", controllers.CartSetQuantity(cartService, logg))
			r.Delete("/items/{variantID}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/voucher", controllers.CartApplyVoucher(cartService, logg))
			r.Delete("/voucher", controllers.CartRemoveVoucher(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/status-counts", controllers.OrderStatusCounts(ordersService, logg))
			r.Get("/{code}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{code}/buy-again", controllers.OrderBuyAgain(reorderService, logg))
			r.Post("/cancel", controllers.OrderCancel(ordersService, logg))
		})

		r.Post("/payment/run", controllers.PaymentRun(paymentService, logg))

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", controllers.AddressCreate(backendClient, logg))
			r.Put("/{addressID}", controllers.AddressUpdate(backendClient, logg))
			r.Delete("/{addressID}", controllers.AddressDelete(backendClient, logg))
			r.Patch("/default/{addressID}", controllers.AddressSetDefault(backendClient, logg))
		})
	})

	return r
}
