package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/noah-isme/catalog-api/internal/catalog/categories"
	"github.com/noah-isme/catalog-api/internal/catalog/masterdata"
	"github.com/noah-isme/catalog-api/internal/catalog/products"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	MasterDataHandler *masterdata.Handler
}

// NewRouter constructs the chi.Router with catalog defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Logger, params.Config) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		params.ProductsHandler.MountRoutes(r)
		params.CategoriesHandler.MountRoutes(r)
		params.MasterDataHandler.MountRoutes(r)
	})

	return r
}
