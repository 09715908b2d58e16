package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter wires the cart endpoints behind the gateway middleware stack.
func NewRouter(h *CartHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{product_id}", h.UpdateQuantity)
			r.Post("/items/{product_id}/increment", h.Increment)
			r.Post("/items/{product_id}/decrement", h.Decrement)
			r.Delete("/items/{product_id}", h.RemoveItem)
		})
	})

	return otelhttp.NewHandler(r, "cart-manager")
}
