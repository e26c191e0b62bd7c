package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/controllers"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/middleware"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/cart"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/catalog"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/checkout"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/dashboard"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/notifications"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/orders"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/paymentconfig"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/users"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/config"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/metrics"
	pkgredis "github.com/JoaquiinAguilar/gaiacare-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	redisClient *pkgredis.Client,
	pingers map[string]controllers.Pinger,
	usersService users.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkout.Service,
	ordersService orders.Service,
	dashboardService dashboard.Service,
	notificationsService notifications.Service,
	paymentConfigService paymentconfig.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(usersService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(usersService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Get("/home", controllers.Home(catalogService, logg))
			r.Get("/products", controllers.ListProducts(catalogService, logg))
			r.Get("/products/suggestions", controllers.SearchSuggestions(catalogService, logg))
			r.Get("/products/{slug}", controllers.GetProduct(catalogService, logg))
			r.Get("/categories", controllers.ListCategories(catalogService, logg))
			r.Get("/payment-config", controllers.ActivePaymentConfig(paymentConfigService, logg))
			r.With(middleware.Idempotency(redisClient, logg)).
				Post("/contact", controllers.Contact(notificationsService, cfg.SMTP.ContactTo, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.CartSession())
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.ChangeCartItem(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Get("/me", controllers.GetProfile(usersService, logg))
			r.Put("/me", controllers.UpdateProfile(usersService, logg))

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(ordersService, logg))
				r.Get("/{orderId}", controllers.GetMyOrder(ordersService, logg))
				r.Post("/{orderId}/payment", controllers.SubmitPaymentReference(ordersService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Get("/dashboard", controllers.DashboardOverview(dashboardService, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(catalogService, logg))
				r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
				r.Post("/{productId}/images", controllers.AdminAttachImage(catalogService, logg))
				r.Post("/{productId}/images/{imageId}/main", controllers.AdminMakeMainImage(catalogService, logg))
				r.Delete("/{productId}/images/{imageId}", controllers.AdminDeleteImage(catalogService, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminListCategories(catalogService, logg))
				r.Post("/", controllers.AdminCreateCategory(catalogService, logg))
				r.Patch("/{categoryId}", controllers.AdminUpdateCategory(catalogService, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(catalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(ordersService, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(ordersService, logg))
				r.Patch("/{orderId}", controllers.AdminUpdateOrder(ordersService, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.AdminListCustomers(dashboardService, logg))
				r.Get("/{customerId}", controllers.AdminGetCustomer(dashboardService, logg))
			})

			r.Route("/payment-configs", func(r chi.Router) {
				r.Get("/", controllers.AdminListPaymentConfigs(paymentConfigService, logg))
				r.Post("/", controllers.AdminCreatePaymentConfig(paymentConfigService, logg))
				r.Patch("/{configId}", controllers.AdminUpdatePaymentConfig(paymentConfigService, logg))
				r.Delete("/{configId}", controllers.AdminDeletePaymentConfig(paymentConfigService, logg))
			})
		})
	})

	return r
}
