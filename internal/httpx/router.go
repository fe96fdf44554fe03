package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(handler.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Group(func(r chi.Router) {
		r.Use(handler.attachDevice)
		r.Use(handler.attachIdentity)

		r.Get("/cart", handler.GetCart)
		r.Get("/cart/count", handler.GetCount)
		r.Post("/cart/items", handler.AddItem)
		r.Patch("/cart/items/{productID}", handler.UpdateQuantity)
		r.Delete("/cart/items/{productID}", handler.RemoveItem)
		r.Delete("/cart", handler.ClearCart)
		r.Post("/cart/checkout", handler.Checkout)
		r.Post("/session/logout", handler.Logout)
	})

	return r
}
