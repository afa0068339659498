package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kurvpilot/backend/config"
	httpDelivery "github.com/kurvpilot/backend/internal/delivery/http"
	"github.com/kurvpilot/backend/internal/infrastructure/nemlig"
	"github.com/kurvpilot/backend/internal/infrastructure/ollama"
	"github.com/kurvpilot/backend/internal/infrastructure/store"
	"github.com/kurvpilot/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Kurvpilot Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Retailer API: %s", cfg.Nemlig.BaseURL)
	log.Printf("Search gateway: %s (zone %d, page size %d)",
		cfg.Nemlig.SearchURL, cfg.Nemlig.DeliveryZoneID, cfg.Nemlig.PageSize)
	log.Printf("Ollama: %s (model %s)", cfg.Ollama.BaseURL, cfg.Ollama.Model)

	// Initialize infrastructure dependencies
	nemligClient := nemlig.NewClient(nemlig.ClientConfig{
		BaseURL:        cfg.Nemlig.BaseURL,
		SearchURL:      cfg.Nemlig.SearchURL,
		DeliveryZoneID: cfg.Nemlig.DeliveryZoneID,
		PageSize:       cfg.Nemlig.PageSize,
		PerSecond:      cfg.RateLimit.NemligPerSecond,
		Burst:          cfg.RateLimit.NemligBurst,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		nemligClient.SetDebug(true)
		log.Printf("Nemlig client debug mode enabled")
	}

	engine := ollama.NewEngine(cfg.Ollama.BaseURL, cfg.Ollama.Timeout)
	reportStore := store.NewMemoryStore(cfg.Store.ReportTTL)
	log.Printf("Report TTL: %s", cfg.Store.ReportTTL)

	// Initialize usecase layer
	selector := usecase.NewSelector(engine)
	pipeline := usecase.NewPipeline(nemligClient, nemligClient, nemligClient, selector, reportStore)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline, engine, reportStore, cfg.Ollama.Model)

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
