package categories

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers category routes. Static segments are registered
// before the {id} wildcard so /categories/search resolves to the search
// handler, not an id lookup.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/name/{name}", h.GetByName)
		r.Get("/product/{productId}", h.ListByProduct)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
