package products

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers product routes. Static segments come before the {id}
// wildcard so /products/search and /products/sku resolve correctly.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/sku/{sku}", h.GetBySKU)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{productId}/categories/{categoryId}", h.AddCategory)
		r.Delete("/{productId}/categories/{categoryId}", h.RemoveCategory)
	})
}
