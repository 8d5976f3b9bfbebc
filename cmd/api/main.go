package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"merchant-kit/internal/cart"
	"merchant-kit/internal/config"
	"merchant-kit/internal/database"
	"merchant-kit/internal/handler"
	"merchant-kit/internal/merchant"
	"merchant-kit/internal/router"
	"merchant-kit/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting merchant-kit API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the merchant backend
	backend, cleanup, err := newMerchant(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Initialize the cart store
	store := cart.NewStore(logger, cart.WithTTL(time.Duration(cfg.Cart.TTLSeconds)*time.Second))
	defer store.Close()

	// Initialize services
	commerceService := service.NewCommerceService(backend, logger)
	cartService := service.NewCartService(store, commerceService, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(commerceService, logger)
	orderHandler := handler.NewOrderHandler(commerceService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, cartHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("merchant_backend", cfg.Merchant.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newMerchant builds the configured merchant backend and returns it with
// a cleanup function for any resources it holds.
func newMerchant(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (merchant.Merchant, func(), error) {
	switch cfg.Merchant.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return merchant.NewPostgresMerchant(pool, logger), pool.Close, nil

	case config.BackendCatalog:
		var loader merchant.Loader
		if cfg.Merchant.CatalogSource == config.CatalogSourceS3 {
			s3Loader, err := merchant.NewS3Loader(ctx, cfg.Merchant.S3Bucket, cfg.Merchant.S3Region, logger)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to initialize S3 catalogue loader: %w", err)
			}
			loader = s3Loader
		} else {
			loader = merchant.NewFileLoader(logger)
		}

		products, err := loader.Load(ctx, cfg.Merchant.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load product catalogue: %w", err)
		}
		return merchant.NewMemoryMerchant(products, logger), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown merchant backend: %s", cfg.Merchant.Backend)
	}
}
