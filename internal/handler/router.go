package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fooddelivery/internal/mw"
	"fooddelivery/internal/service"
)

type Deps struct {
	Orders         *service.OrderService
	Restaurants    *service.RestaurantService
	Auth           *service.AuthService
	JWTSecret      string
	AllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "health OK!")
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/user/register", RegisterHandler(d.Auth, d.JWTSecret))
		r.Post("/user/login", LoginHandler(d.Auth, d.JWTSecret))
		r.Get("/restaurant/{restaurantId}", GetRestaurantHandler(d.Restaurants))

		// Signed by the payment gateway, not by an end user.
		r.Post("/order/checkout/webhook", StripeWebhookHandler(d.Orders))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(d.JWTSecret))

			r.Get("/order", ListOrdersHandler(d.Orders))
			r.Post("/order/checkout", CreateCheckoutSessionHandler(d.Orders))
		})
	})

	return r
}
