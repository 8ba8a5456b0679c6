package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/platewise/backend/config"
	httpDelivery "github.com/platewise/backend/internal/delivery/http"
	"github.com/platewise/backend/internal/infrastructure/cache"
	"github.com/platewise/backend/internal/infrastructure/commerce"
	"github.com/platewise/backend/internal/usecase"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PlateWise Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	catalogCache := cache.NewMemoryCache()
	log.Printf("Catalog TTL: %s, Session TTL: %s", cfg.Cart.CatalogTTL, cfg.Cart.SessionTTL)

	searchClient := commerce.NewSearchClient(
		cfg.Commerce.APIKey,
		cfg.Commerce.SearchBaseURL,
		cfg.RateLimit.Commerce,
		cfg.Commerce.SearchTimeout,
	)
	checkoutClient := commerce.NewCheckoutClient(
		cfg.Commerce.APIKey,
		cfg.Commerce.CheckoutBaseURL,
		cfg.Commerce.CheckoutTimeout,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		checkoutClient.SetDebug(true)
		log.Printf("Commerce client debug mode enabled")
	}

	if cfg.Commerce.APIKey != "" {
		log.Printf("Commerce search configured: %s", cfg.Commerce.SearchBaseURL)
		log.Printf("Commerce checkout configured: %s", cfg.Commerce.CheckoutBaseURL)
	} else {
		log.Printf("WARNING: commerce API key NOT CONFIGURED - collaborator calls will fail!")
	}

	// Initialize usecase layer
	cartService := usecase.NewCartService(searchClient, catalogCache, usecase.CartConfig{
		TaxRate:       cfg.Cart.TaxRate,
		MaxCandidates: cfg.Cart.MaxCandidates,
		SessionTTL:    cfg.Cart.SessionTTL,
		CatalogTTL:    cfg.Cart.CatalogTTL,
	})
	checkoutService := usecase.NewCheckoutService(cartService, checkoutClient)

	log.Printf("Cart engine: tax=%.0f%%, max candidates=%d",
		cfg.Cart.TaxRate*100, cfg.Cart.MaxCandidates)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(cartService, checkoutService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
