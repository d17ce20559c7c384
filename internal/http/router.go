package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Mega4Real/ednascollectionnew/internal/auth"
)

type RouterConfig struct {
	Products       *ProductHandler
	Orders         *OrderHandler
	Discounts      *DiscountHandler
	Settings       *SettingsHandler
	Auth           *AuthHandler
	Tokens         *auth.Manager
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	adminOnly := AdminAuthMiddleware(cfg.Tokens)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The SSE stream stays outside the timeout/compress group: it is
	// long-lived and needs the raw flusher.
	r.Get("/api/products/events", cfg.Products.Events)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.Compress(5))

		r.Post("/api/auth/login", cfg.Auth.Login)
		r.With(adminOnly).Get("/api/auth/verify", cfg.Auth.Verify)

		r.Get("/api/products", cfg.Products.List)
		r.Get("/api/products/{id}", cfg.Products.Get)
		r.With(adminOnly).Post("/api/products", cfg.Products.Create)
		r.With(adminOnly).Put("/api/products/reorder", cfg.Products.Reorder)
		r.With(adminOnly).Put("/api/products/{id}", cfg.Products.Update)
		r.With(adminOnly).Delete("/api/products/{id}", cfg.Products.Delete)

		r.Post("/api/orders", cfg.Orders.Create)
		r.With(adminOnly).Get("/api/orders", cfg.Orders.List)
		r.With(adminOnly).Put("/api/orders/{id}/status", cfg.Orders.UpdateStatus)
		r.With(adminOnly).Delete("/api/orders/{id}", cfg.Orders.Delete)

		r.Post("/api/webhooks/paystack", cfg.Orders.PaystackWebhook)

		r.Post("/api/discounts/validate", cfg.Discounts.Validate)
		r.With(adminOnly).Get("/api/discounts", cfg.Discounts.List)
		r.With(adminOnly).Post("/api/discounts", cfg.Discounts.Create)
		r.With(adminOnly).Delete("/api/discounts/{id}", cfg.Discounts.Delete)
		r.With(adminOnly).Put("/api/discounts/{id}/toggle", cfg.Discounts.Toggle)

		r.Get("/api/settings/banner", cfg.Settings.GetBanner)
		r.With(adminOnly).Put("/api/settings/banner", cfg.Settings.UpdateBanner)
	})

	return r
}
