// Package server assembles the storefront's HTTP router.
package server

import (
	"net/http"
	"time"

	"event-storefront/internal/cart"
	"event-storefront/internal/handlers"
	"event-storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps is everything the router wires together.
type Deps struct {
	Base        *handlers.Base
	Sessions    *middleware.DeviceSessions
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
	Logger      *logrus.Logger
}

// NewRouter builds the storefront routes.
func NewRouter(deps Deps) http.Handler {
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(10, 15*time.Minute)
	}
	if deps.Base.CartLocks == nil {
		deps.Base.CartLocks = cart.NewLocks()
	}

	publicHandler := handlers.NewPublicHandler(deps.Base)
	cartHandler := handlers.NewCartHandler(deps.Base)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Base)
	authHandler := handlers.NewAuthHandler(deps.Base)
	accountHandler := handlers.NewAccountHandler(deps.Base)
	adminHandler := handlers.NewAdminHandler(deps.Base)

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(deps.CORSOrigins)))

	// Probes skip the device session
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Device)
		r.Use(middleware.CSRFProtection)
		r.Use(deps.Auth.LoadUser)

		r.NotFound(deps.Base.NotFound)
		r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

		r.Get("/", publicHandler.HomePage)
		r.Get("/events", publicHandler.EventsPage)
		r.Get("/events/{id}", publicHandler.EventPage)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/tickets", cartHandler.AddTicket)
			r.Post("/tickets/{category}", cartHandler.UpdateQuantity)
			r.Post("/tickets/{category}/remove", cartHandler.RemoveTicket)
			r.Post("/clear", cartHandler.Clear)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitPOST(limiter))
			r.Get("/login", authHandler.LoginPage)
			r.Post("/login", authHandler.Login)
			r.Get("/signup", authHandler.SignupPage)
			r.Post("/signup", authHandler.Signup)
		})
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/checkout", checkoutHandler.CheckoutPage)
			r.Post("/checkout", checkoutHandler.Submit)
			r.Get("/my-tickets", accountHandler.MyTicketsPage)
			r.Get("/profile", accountHandler.ProfilePage)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", adminHandler.Dashboard)
			r.Get("/events/create", adminHandler.CreateEventPage)
			r.Post("/events/create", adminHandler.CreateEvent)
			r.Get("/events/{id}/edit", adminHandler.EditEventPage)
			r.Post("/events/{id}/edit", adminHandler.UpdateEvent)
			r.Get("/tickets", adminHandler.TicketsPage)
			r.Post("/tickets/validate", adminHandler.ValidateTicket)
			r.Post("/tickets/redeem", adminHandler.RedeemTicket)
		})
	})

	return r
}
