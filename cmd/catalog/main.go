package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/noah-isme/catalog-api/internal/app"
	"github.com/noah-isme/catalog-api/internal/catalog/categories"
	"github.com/noah-isme/catalog-api/internal/catalog/masterdata"
	"github.com/noah-isme/catalog-api/internal/catalog/products"
	"github.com/noah-isme/catalog-api/internal/platform/db"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	schemas := db.NewSchemaRouter(pool, cfg.SchemaDefault, cfg.SchemaMaster)

	categoryRepo := categories.NewRepository(pool, schemas)
	categoryService := categories.NewService(categoryRepo)
	categoryHandler := categories.NewHandler(logger, categoryService)

	productRepo := products.NewRepository(pool, schemas)
	productService := products.NewService(productRepo, categoryRepo)
	productHandler := products.NewHandler(logger, productService)

	masterdataService := masterdata.NewService(schemas)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ProductsHandler:   productHandler,
		CategoriesHandler: categoryHandler,
		MasterDataHandler: masterdataHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("catalog api listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
