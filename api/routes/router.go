package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urbanshop/urbanshop-backend/api/controllers"
	"github.com/urbanshop/urbanshop-backend/api/middleware"
	authsvc "github.com/urbanshop/urbanshop-backend/internal/auth"
	cartsvc "github.com/urbanshop/urbanshop-backend/internal/cart"
	"github.com/urbanshop/urbanshop-backend/internal/catalog"
	"github.com/urbanshop/urbanshop-backend/internal/feed"
	ordersvc "github.com/urbanshop/urbanshop-backend/internal/orders"
	profilesvc "github.com/urbanshop/urbanshop-backend/internal/profile"
	"github.com/urbanshop/urbanshop-backend/pkg/auth/session"
	"github.com/urbanshop/urbanshop-backend/pkg/config"
	"github.com/urbanshop/urbanshop-backend/pkg/db"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
	"github.com/urbanshop/urbanshop-backend/pkg/redis"
)

// Services bundles every dependency the router wires into handlers.
type Services struct {
	Auth    authsvc.Service
	Catalog catalog.Service
	Cart    cartsvc.Service
	Orders  ordersvc.Service
	Profile profilesvc.Service
	Feed    *feed.Hub
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
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
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.RefreshToken(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.Logout(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Get("/me", controllers.Me(svcs.Auth, logg))
	})

	// Public storefront surface: no token required to browse.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/feed", controllers.ProductsFeed(svcs.Feed, svcs.Catalog, logg))
		r.Get("/{productID}", controllers.GetProduct(svcs.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
			r.Put("/items/{productID}", controllers.SetCartQuantity(svcs.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(svcs.Cart, logg))
			r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(svcs.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/feed", controllers.MyOrdersFeed(svcs.Feed, svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetMyOrder(svcs.Orders, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(svcs.Profile, logg))
			r.Patch("/", controllers.UpdateProfile(svcs.Profile, logg))
			r.Get("/payment-methods", controllers.ListPaymentMethods(svcs.Profile, logg))
			r.Post("/payment-methods", controllers.AddPaymentMethod(svcs.Profile, logg))
			r.Post("/payment-methods/{methodID}/default", controllers.SetDefaultPaymentMethod(svcs.Profile, logg))
			r.Delete("/payment-methods/{methodID}", controllers.DeletePaymentMethod(svcs.Profile, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireAdmin(svcs.Auth, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
			r.Patch("/{productID}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
			r.Delete("/{productID}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/feed", controllers.AdminOrdersFeed(svcs.Feed, svcs.Orders, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(svcs.Orders, logg))
			r.Post("/{orderID}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
			r.Delete("/{orderID}", controllers.AdminDeleteOrder(svcs.Orders, logg))
			r.Get("/{orderID}/receipt", controllers.AdminOrderReceipt(svcs.Orders, logg))
		})

		r.Get("/dashboard/summary", controllers.AdminDashboardSummary(svcs.Orders, logg))
	})

	return r
}
