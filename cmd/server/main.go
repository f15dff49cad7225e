package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/cart"
	"event-storefront/internal/checkout"
	"event-storefront/internal/config"
	"event-storefront/internal/handlers"
	"event-storefront/internal/middleware"
	"event-storefront/internal/server"
	"event-storefront/internal/services"
	"event-storefront/web"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Device-local storage for carts and tokens
	kv, closeStore, err := server.OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open device storage")
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.WithError(err).Warn("Failed to close device storage")
		}
	}()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	var stub *services.StubPurchaser
	if cfg.Purchase.Mode == "stub" {
		stub = services.NewStubPurchaser(cfg.Purchase.StubDelay,
			services.RandomDecider(cfg.Purchase.SuccessRate, time.Now().UnixNano()), logger)
		logger.Warn("Purchases are simulated; no payment is taken")
	}

	renderer, err := handlers.NewRenderer(web.Templates, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse templates")
	}

	sessions := middleware.NewDeviceSessions(
		middleware.NewCookieStore(cfg.Session.Secret, cfg.IsProduction()), kv, logger)

	limiter := middleware.NewRateLimiter(10, 15*time.Minute)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	router := server.NewRouter(server.Deps{
		Base: &handlers.Base{
			Renderer:        renderer,
			Sessions:        sessions,
			Client:          client,
			Purchasers:      services.NewPurchaserFactory(cfg.Purchase.Mode, stub),
			Guard:           checkout.NewGuard(),
			CartLocks:       cart.NewLocks(),
			PurchaseTimeout: cfg.Purchase.Timeout,
			Logger:          logger,
		},
		Sessions:    sessions,
		Auth:        middleware.NewAuthMiddleware(client, logger),
		RateLimiter: limiter,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// purchases may take up to the purchase timeout
		WriteTimeout: cfg.Purchase.Timeout + 15*time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"env":      cfg.Server.Env,
			"api":      cfg.API.BaseURL,
			"storage":  cfg.Storage.Driver,
			"purchase": cfg.Purchase.Mode,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}
