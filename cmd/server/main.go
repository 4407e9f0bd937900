// @title           Business Marketplace API
// @version         1.0.0
// @description     Backend for a business-for-sale marketplace: listing detail with buyer inquiries and the seller onboarding wizard. Listings, buyer profiles and messages live in Supabase; listing images go to Supabase storage; descriptions can be AI-generated.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bizmarket-backend/docs"
	"bizmarket-backend/internal/config"
	"bizmarket-backend/internal/database"
	"bizmarket-backend/internal/describe"
	"bizmarket-backend/internal/handlers"
	"bizmarket-backend/internal/middleware"
	"bizmarket-backend/internal/supabase"
	"bizmarket-backend/internal/wizard"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	// Description generator
	describeClient := describe.NewClient(cfg.DescribeAPIBaseURL, cfg.DescribeAPIKey)

	// Direct database connection for the sellers table
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required: set it to your Supabase PostgreSQL connection string")
	}
	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Failed to initialize migrator: %v", err)
	} else {
		defer migrator.Close()
		if err := migrator.Run(); err != nil {
			log.Printf("Warning: Migration failed: %v", err)
		} else {
			log.Println("Migrations completed successfully")
		}
	}

	// Wizard: draft store and submission pipeline
	draftStore := wizard.NewStore()
	submitter := wizard.NewSubmitter(storageClient, dbClient)

	// Initialize handlers
	listingsHandler := handlers.NewListingsHandler(dbClient, supabaseClient)
	messagesHandler := handlers.NewMessagesHandler(supabaseClient)
	draftsHandler := handlers.NewDraftsHandler(draftStore, dbClient, submitter, describeClient)

	// Setup router
	router := gin.Default()

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public listing routes; buyer context comes from an optional bearer token
	api := router.Group("/api/v1")
	api.GET("/listings", listingsHandler.ListListings)
	api.GET("/listings/:listing_id", listingsHandler.GetListing)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	authed.POST("/listings", listingsHandler.CreateListing)
	authed.PUT("/listings/:listing_id", listingsHandler.UpdateListing)
	authed.POST("/listings/:listing_id/messages", messagesHandler.SendMessage)
	authed.GET("/me/buyer", listingsHandler.GetMyBuyerProfile)

	// Onboarding wizard
	authed.POST("/drafts", draftsHandler.CreateDraft)
	authed.GET("/drafts/:draft_id", draftsHandler.GetDraft)
	authed.PUT("/drafts/:draft_id/form", draftsHandler.PutForm)
	authed.POST("/drafts/:draft_id/next", draftsHandler.Advance)
	authed.POST("/drafts/:draft_id/back", draftsHandler.Back)
	authed.POST("/drafts/:draft_id/preview", draftsHandler.EnterPreview)
	authed.GET("/drafts/:draft_id/preview", draftsHandler.GetPreview)
	authed.POST("/drafts/:draft_id/edit", draftsHandler.ExitPreview)
	authed.POST("/drafts/:draft_id/images", draftsHandler.AddImages)
	authed.DELETE("/drafts/:draft_id/images/:token", draftsHandler.RemoveImage)
	authed.POST("/drafts/:draft_id/submit", draftsHandler.Submit)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
