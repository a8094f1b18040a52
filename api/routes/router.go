package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanbitlee/furnimarket-backend/api/controllers"
	"github.com/hanbitlee/furnimarket-backend/api/middleware"
	"github.com/hanbitlee/furnimarket-backend/internal/auth"
	"github.com/hanbitlee/furnimarket-backend/internal/cart"
	checkoutsvc "github.com/hanbitlee/furnimarket-backend/internal/checkout"
	"github.com/hanbitlee/furnimarket-backend/internal/deliveries"
	"github.com/hanbitlee/furnimarket-backend/internal/orders"
	"github.com/hanbitlee/furnimarket-backend/internal/payouts"
	"github.com/hanbitlee/furnimarket-backend/internal/products"
	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/db"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
	"github.com/hanbitlee/furnimarket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	deliveryService deliveries.Service,
	payoutService payouts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewLoginRateLimitPolicy(
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Get("/api/v1/healthz", controllers.HealthLive(cfg))
	r.Get("/api/v1/readyz", controllers.HealthReady(cfg, logg, dbP, redisClient))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productService, logg))
		r.Get("/{id}", controllers.ProductDetail(productService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleCustomer, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(cartService, logg))
				r.Post("/", controllers.CartAdd(cartService, logg))
				r.Put("/{productID}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/{productID}", controllers.CartRemoveItem(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/direct", controllers.CheckoutDirect(checkoutService, logg))
				r.Post("/cart", controllers.CheckoutCart(checkoutService, logg))
				r.Get("/quote", controllers.CheckoutQuote(checkoutService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{id}", controllers.OrderDetail(ordersService, logg))
				r.Post("/{id}/cancel", controllers.OrderCancel(ordersService, logg))
				r.Post("/{id}/confirm", controllers.OrderConfirm(ordersService, logg))
				r.Delete("/{id}", controllers.OrderDelete(ordersService, logg))
			})
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleSeller, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.SellerProductList(productService, logg))
				r.Post("/", controllers.SellerProductCreate(productService, logg))
				r.Put("/{id}", controllers.SellerProductUpdate(productService, logg))
				r.Delete("/{id}", controllers.SellerProductDelete(productService, logg))
			})

			r.Route("/deliveries", func(r chi.Router) {
				r.Get("/", controllers.SellerDeliveryList(deliveryService, logg))
				r.Get("/{orderID}", controllers.SellerDeliveryDetail(deliveryService, logg))
				r.Put("/{orderID}/status", controllers.SellerDeliveryUpdateStatus(deliveryService, logg))
			})

			r.Get("/payouts", controllers.SellerPayoutList(payoutService, logg))
		})
	})

	return r
}
