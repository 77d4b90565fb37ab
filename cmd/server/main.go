package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kitchencommand/invoice-line-engine/api"
	"github.com/kitchencommand/invoice-line-engine/internal/auth"
	"github.com/kitchencommand/invoice-line-engine/internal/inventory"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
	"github.com/kitchencommand/invoice-line-engine/internal/vendors"
)

func main() {
	// Load configuration
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize JWT
	if err := auth.Configure(config.Auth); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Wire the engine
	validator := services.NewMathValidator(config.Validation, config.Taxes)
	matcher := services.NewMatcher(config.Matching)
	registry := vendors.NewRegistry(validator)
	store := inventory.NewStore(nil, nil)

	// Create API handler
	handler := api.NewHandler(config, registry, validator, matcher, store)
	router := handler.SetupRoutes()

	// Add login endpoint
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Invoice Line Engine v%s on %s", api.Version, addr)
	log.Printf("Vendor handlers: %v", registry.Types())
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/login            - Authenticate", addr)
	log.Printf("  POST http://%s/api/process-lines    - Process invoice lines (requires JWT)", addr)
	log.Printf("  POST http://%s/api/validate-invoice - Validate invoice totals (requires JWT)", addr)
	log.Printf("  POST http://%s/api/match-line       - Match a line to the catalog (requires JWT)", addr)
	log.Printf("  POST http://%s/api/apply-lines      - Apply lines to inventory (requires JWT)", addr)
	log.Printf("  POST http://%s/api/items            - Create catalog item (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/items/{id}       - Get catalog item (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/vendors          - List vendor handlers (requires JWT)", addr)
	log.Printf("  GET  http://%s/health               - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadConfig(path string) (*models.Config, error) {
	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config models.Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if user := os.Getenv("API_USERNAME"); user != "" {
		config.Auth.Username = user
	}
	if pass := os.Getenv("API_PASSWORD"); pass != "" {
		config.Auth.Password = pass
	}

	return &config, nil
}
